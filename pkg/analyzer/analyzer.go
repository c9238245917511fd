// Package analyzer defines the contract shared by selectorlint analyzers and
// the progress tracking they report through a context.
package analyzer

import (
	"context"

	"github.com/panbanda/selectorlint/pkg/source"
)

// SourceFileAnalyzer analyzes a collection of files whose content is read
// from a ContentSource rather than directly from disk.
type SourceFileAnalyzer[T any] interface {
	// Analyze processes files and returns the analysis result. The context
	// carries cancellation and an optional progress Tracker.
	Analyze(ctx context.Context, files []string, src source.ContentSource) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
