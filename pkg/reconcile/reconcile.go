// Package reconcile decides which top-level names of two directories are comparable.
//
// A name is comparable when it exists on both sides and no exclude pattern matches it.
// Everything else ends up in the ExclusionSet and is skipped by the hash passes.
package reconcile

import (
	"errors"
	"sort"

	"github.com/yuya-takeyama/strict-dir-compare/internal/walker"
)

// ErrNoMatchingFiles is returned when the two directories share no comparable name
var ErrNoMatchingFiles = errors.New("no matching files to hash")

// ExclusionSet holds names that must not be hashed. It is read-only once built.
type ExclusionSet struct {
	names map[string]struct{}
}

func NewExclusionSet(names ...string) ExclusionSet {
	set := ExclusionSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		set.names[n] = struct{}{}
	}
	return set
}

func (s ExclusionSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s ExclusionSet) Len() int {
	return len(s.names)
}

// Names returns the excluded names sorted
func (s ExclusionSet) Names() []string {
	names := make([]string, 0, len(s.names))
	for n := range s.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type Result struct {
	Excluded     ExclusionSet
	OnlyInSource []string
	OnlyInDest   []string
	// Matched by an exclude pattern while present on both sides
	PatternExcluded []string
	Shared          []string
}

// Compute returns the symmetric difference of the two name lists plus any shared
// names matched by patterns. It fails with ErrNoMatchingFiles when nothing is left to compare.
func Compute(srcNames, dstNames []string, patterns []string) (Result, error) {
	srcSet := make(map[string]struct{}, len(srcNames))
	for _, n := range srcNames {
		srcSet[n] = struct{}{}
	}

	dstSet := make(map[string]struct{}, len(dstNames))
	for _, n := range dstNames {
		dstSet[n] = struct{}{}
	}

	result := Result{
		OnlyInSource:    []string{},
		OnlyInDest:      []string{},
		PatternExcluded: []string{},
		Shared:          []string{},
	}

	excluded := []string{}
	for n := range srcSet {
		if _, exists := dstSet[n]; !exists {
			result.OnlyInSource = append(result.OnlyInSource, n)
			excluded = append(excluded, n)
			continue
		}

		matched, err := walker.MatchAny(n, patterns)
		if err != nil {
			return Result{}, err
		}
		if matched {
			result.PatternExcluded = append(result.PatternExcluded, n)
			excluded = append(excluded, n)
			continue
		}

		result.Shared = append(result.Shared, n)
	}

	for n := range dstSet {
		if _, exists := srcSet[n]; !exists {
			result.OnlyInDest = append(result.OnlyInDest, n)
			excluded = append(excluded, n)
		}
	}

	sort.Strings(result.OnlyInSource)
	sort.Strings(result.OnlyInDest)
	sort.Strings(result.PatternExcluded)
	sort.Strings(result.Shared)
	result.Excluded = NewExclusionSet(excluded...)

	if len(result.Shared) == 0 {
		return result, ErrNoMatchingFiles
	}

	return result, nil
}
