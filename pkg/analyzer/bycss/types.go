package bycss

import (
	"time"

	"github.com/panbanda/selectorlint/pkg/selector"
)

// Diagnostic is a single rule violation bound to a call expression.
// Lines and columns are 1-based; columns count bytes.
type Diagnostic struct {
	File        string        `json:"file" toon:"file"`
	Line        uint32        `json:"line" toon:"line"`
	Column      uint32        `json:"column" toon:"column"`
	EndLine     uint32        `json:"end_line" toon:"end_line"`
	EndColumn   uint32        `json:"end_column" toon:"end_column"`
	Rule        string        `json:"rule" toon:"rule"`
	Kind        selector.Kind `json:"message_id" toon:"message_id"`
	Message     string        `json:"message" toon:"message"`
	Source      string        `json:"source" toon:"source"`
	Fingerprint string        `json:"fingerprint,omitempty" toon:"fingerprint,omitempty"`
}

// Analysis is the result of checking a set of files.
type Analysis struct {
	Diagnostics []Diagnostic `json:"diagnostics" toon:"diagnostics"`
	Summary     Summary      `json:"summary" toon:"summary"`
	AnalyzedAt  time.Time    `json:"analyzed_at" toon:"analyzed_at"`
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalDiagnostics     int            `json:"total_diagnostics" toon:"total_diagnostics"`
	ByKind               map[string]int `json:"by_kind" toon:"by_kind"`
	ByFile               map[string]int `json:"by_file,omitempty" toon:"by_file,omitempty"`
	FilesAnalyzed        int            `json:"files_analyzed" toon:"files_analyzed"`
	FilesWithDiagnostics int            `json:"files_with_diagnostics" toon:"files_with_diagnostics"`
	FilesSkipped         int            `json:"files_skipped,omitempty" toon:"files_skipped,omitempty"`
}

// NewSummary creates an initialized summary.
func NewSummary() Summary {
	byKind := make(map[string]int, len(selector.Kinds))
	for _, k := range selector.Kinds {
		byKind[string(k)] = 0
	}
	return Summary{
		ByKind: byKind,
		ByFile: make(map[string]int),
	}
}

// AddDiagnostic updates the summary with a new diagnostic.
func (s *Summary) AddDiagnostic(d Diagnostic) {
	s.TotalDiagnostics++
	s.ByKind[string(d.Kind)]++
	if s.ByFile[d.File] == 0 {
		s.FilesWithDiagnostics++
	}
	s.ByFile[d.File]++
}
