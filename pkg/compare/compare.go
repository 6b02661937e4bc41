package compare

import (
	"github.com/yuya-takeyama/strict-dir-compare/internal/checksum"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/hasher"
)

type Status string

const (
	StatusMatch    Status = "match"
	StatusMismatch Status = "mismatch"
	// StatusMissing means the name was hashed on one side only
	StatusMissing Status = "missing"
	StatusError   Status = "error"
)

type Result struct {
	Name       string
	SourcePath string
	DestPath   string
	SourceHash string
	DestHash   string
	Status     Status
	Match      bool
}

// Join pairs records by file name. Source order comes first, then names only the
// destination pass produced, in destination order.
func Join(src, dst []hasher.FileRecord) []Result {
	dstByName := make(map[string]hasher.FileRecord, len(dst))
	for _, r := range dst {
		dstByName[r.Name] = r
	}

	seen := make(map[string]struct{}, len(src))
	results := make([]Result, 0, len(src))

	for _, s := range src {
		seen[s.Name] = struct{}{}
		d, ok := dstByName[s.Name]
		if !ok {
			results = append(results, newResult(s.Name, &s, nil))
			continue
		}
		results = append(results, newResult(s.Name, &s, &d))
	}

	for _, d := range dst {
		if _, ok := seen[d.Name]; ok {
			continue
		}
		results = append(results, newResult(d.Name, nil, &d))
	}

	return results
}

func newResult(name string, src, dst *hasher.FileRecord) Result {
	r := Result{Name: name}
	if src != nil {
		r.SourcePath = src.Path
		r.SourceHash = src.Hash
	}
	if dst != nil {
		r.DestPath = dst.Path
		r.DestHash = dst.Hash
	}

	switch {
	case (src != nil && src.Err != nil) || (dst != nil && dst.Err != nil):
		r.Status = StatusError
	case src == nil || dst == nil:
		r.Status = StatusMissing
	default:
		r.Match = checksum.CompareChecksums(src.Hash, dst.Hash)
		if r.Match {
			r.Status = StatusMatch
		} else {
			r.Status = StatusMismatch
		}
	}

	return r
}

type Summary struct {
	Total      int
	Matched    int
	Mismatched int
	Missing    int
	Errors     int
}

func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusMatch:
			s.Matched++
		case StatusMismatch:
			s.Mismatched++
		case StatusMissing:
			s.Missing++
		case StatusError:
			s.Errors++
		}
	}
	return s
}

// AllMatch reports whether every result matched and there was at least one
func AllMatch(results []Result) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.Match {
			return false
		}
	}
	return true
}
