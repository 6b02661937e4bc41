package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yuya-takeyama/strict-dir-compare/pkg/verifier"
)

// CompareResult represents the comparison written by --result-json-file
type CompareResult struct {
	Source   string        `json:"source"`
	Dest     string        `json:"dest"`
	Files    []ResultFile  `json:"files"`
	Excluded ExcludedFiles `json:"excluded"`
	Summary  ResultSummary `json:"summary"`
}

type ResultFile struct {
	Name       string `json:"name"`
	Status     string `json:"status"` // "match", "mismatch", "missing", "error"
	Match      bool   `json:"match"`
	Source     string `json:"source,omitempty"`
	Dest       string `json:"dest,omitempty"`
	SourceHash string `json:"source_hash,omitempty"`
	DestHash   string `json:"dest_hash,omitempty"`
}

type ExcludedFiles struct {
	OnlyInSource []string `json:"only_in_source"`
	OnlyInDest   []string `json:"only_in_dest"`
	ByPattern    []string `json:"by_pattern"`
}

type ResultSummary struct {
	Total       int   `json:"total"`
	Matched     int   `json:"matched"`
	Mismatched  int   `json:"mismatched"`
	Missing     int   `json:"missing"`
	Errors      int   `json:"errors"`
	BytesHashed int64 `json:"bytes_hashed"`
}

func newCompareResult(report *verifier.Report) CompareResult {
	result := CompareResult{
		Source: report.Source,
		Dest:   report.Dest,
		Files:  []ResultFile{},
		Excluded: ExcludedFiles{
			OnlyInSource: report.Exclusions.OnlyInSource,
			OnlyInDest:   report.Exclusions.OnlyInDest,
			ByPattern:    report.Exclusions.PatternExcluded,
		},
		Summary: ResultSummary{
			Total:       report.Summary.Total,
			Matched:     report.Summary.Matched,
			Mismatched:  report.Summary.Mismatched,
			Missing:     report.Summary.Missing,
			Errors:      report.Summary.Errors,
			BytesHashed: report.BytesHashed,
		},
	}

	for _, r := range report.Results {
		result.Files = append(result.Files, ResultFile{
			Name:       r.Name,
			Status:     string(r.Status),
			Match:      r.Match,
			Source:     r.SourcePath,
			Dest:       r.DestPath,
			SourceHash: r.SourceHash,
			DestHash:   r.DestHash,
		})
	}

	return result
}

func writeCompareResult(path string, report *verifier.Report) error {
	data, err := json.MarshalIndent(newCompareResult(report), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
