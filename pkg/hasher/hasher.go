// Package hasher runs the content hashing pass over one flat directory.
//
// Entries are visited in filesystem order. Excluded names and subdirectories are
// never hashed; depending on Policy the pass either skips them or stops there.
package hasher

import (
	"context"
	"fmt"

	"github.com/yuya-takeyama/strict-dir-compare/internal/checksum"
	"github.com/yuya-takeyama/strict-dir-compare/internal/walker"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/logger"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/reconcile"
)

// Policy decides what happens when the pass reaches an excluded name or a subdirectory
type Policy string

const (
	PolicyContinue Policy = "continue"
	PolicyHalt     Policy = "halt"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyContinue, PolicyHalt:
		return p, nil
	default:
		return "", fmt.Errorf("invalid policy %q (want continue or halt)", s)
	}
}

// ErrorMode decides what a read failure does to the pass
type ErrorMode string

const (
	// ErrorModeAbort stops the whole run at the first I/O error
	ErrorModeAbort ErrorMode = "abort"
	// ErrorModeRecord keeps the error on the record and moves on
	ErrorModeRecord ErrorMode = "record"
)

func ParseErrorMode(s string) (ErrorMode, error) {
	switch m := ErrorMode(s); m {
	case ErrorModeAbort, ErrorModeRecord:
		return m, nil
	default:
		return "", fmt.Errorf("invalid error mode %q (want abort or record)", s)
	}
}

// FileRecord is the outcome of hashing one file
type FileRecord struct {
	Name string
	Path string
	Size int64
	Hash string
	Err  error
}

func (r FileRecord) HasHash() bool {
	return r.Hash != ""
}

// Progress receives the number of bytes hashed
type Progress interface {
	AddBytes(n int64)
}

type Options struct {
	Policy    Policy
	ErrorMode ErrorMode
	Reporter  logger.Reporter
}

type Hasher struct {
	policy    Policy
	errorMode ErrorMode
	reporter  logger.Reporter
}

func New(opts Options) *Hasher {
	h := &Hasher{
		policy:    opts.Policy,
		errorMode: opts.ErrorMode,
		reporter:  opts.Reporter,
	}
	if h.policy == "" {
		h.policy = PolicyContinue
	}
	if h.errorMode == "" {
		h.errorMode = ErrorModeAbort
	}
	if h.reporter == nil {
		h.reporter = logger.NullReporter{}
	}
	return h
}

// Pass is one directory listing ready to be hashed
type Pass struct {
	Dir     string
	Entries []walker.Entry
}

// Plan lists dir for hashing. A dir that is not a directory yields an empty pass.
func Plan(dir string) (*Pass, error) {
	entries, err := walker.ListIfDir(dir)
	if err != nil {
		return nil, err
	}
	return &Pass{Dir: dir, Entries: entries}, nil
}

// HashableBytes is the total size of the entries the pass would hash under excluded
func (p *Pass) HashableBytes(excluded reconcile.ExclusionSet) int64 {
	var total int64
	for _, e := range p.Entries {
		if e.IsDir || excluded.Contains(e.Name) {
			continue
		}
		total += e.Size
	}
	return total
}

// HashDir lists dir and hashes it; see Hash
func (h *Hasher) HashDir(ctx context.Context, dir string, excluded reconcile.ExclusionSet, progress Progress) ([]FileRecord, error) {
	pass, err := Plan(dir)
	if err != nil {
		return nil, err
	}
	return h.Hash(ctx, pass, excluded, progress)
}

// Hash produces one record per hashed file, in listing order
func (h *Hasher) Hash(ctx context.Context, pass *Pass, excluded reconcile.ExclusionSet, progress Progress) ([]FileRecord, error) {
	total := len(pass.Entries)
	records := make([]FileRecord, 0, total)

	for i, entry := range pass.Entries {
		index := i + 1

		if err := ctx.Err(); err != nil {
			return records, err
		}

		if excluded.Contains(entry.Name) || entry.IsDir {
			h.reporter.Skip(entry.Path, index, total)
			if h.policy == PolicyHalt {
				break
			}
			continue
		}

		h.reporter.Hashing(entry.Path, index, total, entry.Size)

		var onProgress func(int64)
		if progress != nil {
			onProgress = progress.AddBytes
		}

		digest, err := checksum.CalculateFileBLAKE2b(entry.Path, onProgress)
		if err != nil {
			if h.errorMode == ErrorModeAbort {
				return records, fmt.Errorf("hash %s: %w", entry.Path, err)
			}
			h.reporter.HashError(entry.Path, index, total, err)
			records = append(records, FileRecord{
				Name: entry.Name,
				Path: entry.Path,
				Size: entry.Size,
				Err:  err,
			})
			continue
		}

		records = append(records, FileRecord{
			Name: entry.Name,
			Path: entry.Path,
			Size: entry.Size,
			Hash: digest,
		})
	}

	return records, nil
}
