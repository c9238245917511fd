// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/panbanda/selectorlint/pkg/analyzer"
	"github.com/panbanda/selectorlint/pkg/parser"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
const DefaultWorkerMultiplier = 2

// FileFunc processes one file with a parser owned by the calling worker.
type FileFunc[T any] func(psr *parser.Parser, path string) (T, error)

// MapFilesN processes files in parallel, calling fn once per file. Each
// worker owns one parser for its lifetime, so fn never shares a parser
// with another goroutine. Results are returned in arbitrary order.
//
// Failures are collected rather than aborting the batch; the returned
// *ProcessingErrors is nil when every file succeeded. Files not yet started
// when ctx is cancelled are recorded with ctx.Err(). A progress tracker in
// ctx (see analyzer.WithTracker) is ticked once per file.
// If maxWorkers is <= 0, defaults to 2x NumCPU.
func MapFilesN[T any](ctx context.Context, files []string, maxWorkers int, fn FileFunc[T]) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}
	maxWorkers = min(maxWorkers, len(files))

	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(files))
	}

	parsers := make(chan *parser.Parser, maxWorkers)
	for range maxWorkers {
		parsers <- parser.New()
	}

	results := make([]T, 0, len(files))
	var mu sync.Mutex
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, path := range files {
		p.Go(func() {
			if tracker != nil {
				defer tracker.Tick(path)
			}

			if err := ctx.Err(); err != nil {
				errs.Add(path, err)
				return
			}

			psr := <-parsers
			result, err := fn(psr, path)
			parsers <- psr

			if err != nil {
				errs.Add(path, err)
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	p.Wait()

	close(parsers)
	for psr := range parsers {
		psr.Close()
	}

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
