package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotDirectory is returned when a path given as a directory is something else
var ErrNotDirectory = errors.New("not a directory")

// Entry represents an immediate child of a listed directory
type Entry struct {
	Name  string // Base name
	Path  string // Absolute path
	IsDir bool
	Size  int64
}

// List returns the immediate children of dir in the order the filesystem yields them.
// It fails if dir does not exist or is not a directory.
func List(dir string) ([]Entry, error) {
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, absRoot)
	}

	return readEntries(absRoot)
}

// ListIfDir is like List but yields nothing when dir is missing or not a directory
func ListIfDir(dir string) ([]Entry, error) {
	entries, err := List(dir)
	if err != nil {
		if errors.Is(err, ErrNotDirectory) || errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return entries, nil
}

// readEntries uses File.ReadDir instead of os.ReadDir, which would sort by name
func readEntries(absRoot string) ([]Entry, error) {
	f, err := os.Open(absRoot)
	if err != nil {
		return nil, fmt.Errorf("open directory: %w", err)
	}
	defer f.Close()

	dirEntries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		path := filepath.Join(absRoot, d.Name())
		entry := Entry{
			Name:  d.Name(),
			Path:  path,
			IsDir: d.IsDir(),
		}

		// Follow links for the directory check and size, like a plain stat would
		if info, err := os.Stat(path); err == nil {
			entry.IsDir = info.IsDir()
			entry.Size = info.Size()
		} else if info, err := d.Info(); err == nil {
			entry.Size = info.Size()
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Names returns the base names of entries, in order
func Names(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// ValidatePatterns rejects malformed exclude patterns before any directory is read
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}
	return nil
}

// MatchAny checks if name matches any of the exclude patterns
func MatchAny(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("match pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
