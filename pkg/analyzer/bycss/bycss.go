// Package bycss implements the no-classes-by-css rule: it finds By.css
// locator calls in JavaScript and TypeScript sources and reports selectors
// that violate the configured selector policy.
//
// Each file is checked in one document-order pass. A small binding tracker
// follows variables initialized with class selectors (directly, or inside
// an array literal) so that By.css(sel) is reported even when the selector
// is not passed as a literal. Bindings never cross file boundaries.
package bycss

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/panbanda/selectorlint/internal/fileproc"
	"github.com/panbanda/selectorlint/pkg/analyzer"
	"github.com/panbanda/selectorlint/pkg/parser"
	"github.com/panbanda/selectorlint/pkg/selector"
	"github.com/panbanda/selectorlint/pkg/source"
)

// Compile-time check that Analyzer implements SourceFileAnalyzer.
var _ analyzer.SourceFileAnalyzer[*Analysis] = (*Analyzer)(nil)

// Analyzer runs the rule over many files concurrently.
type Analyzer struct {
	rule        *Rule
	parser      *parser.Parser
	maxFileSize int64
	workers     int
	onError     func(path string, err error)
	cache       Cache
}

// Cache stores diagnostics per file. hash identifies both the content and
// the policy the content was checked under.
type Cache interface {
	Load(path, hash string) ([]Diagnostic, bool)
	Store(path, hash string, diags []Diagnostic) error
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithPolicy sets the selector policy. Defaults to selector.DefaultPolicy.
func WithPolicy(p selector.Policy) Option {
	return func(a *Analyzer) {
		a.rule = NewRule(p)
	}
}

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithWorkers sets the number of concurrent workers (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithErrorHandler registers a callback for files that could not be
// analyzed. Such files are skipped either way.
func WithErrorHandler(fn func(path string, err error)) Option {
	return func(a *Analyzer) {
		a.onError = fn
	}
}

// WithCache reuses diagnostics for files whose content and policy are
// unchanged since they were stored.
func WithCache(c Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// New creates a new analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		rule:   NewRule(selector.DefaultPolicy()),
		parser: parser.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {
	if a.parser != nil {
		a.parser.Close()
	}
}

// Rule returns the rule the analyzer runs.
func (a *Analyzer) Rule() *Rule {
	return a.rule
}

// AnalyzeSource checks in-memory content. The language is taken from path.
func (a *Analyzer) AnalyzeSource(path string, content []byte) ([]Diagnostic, error) {
	return a.check(a.parser, path, content)
}

func (a *Analyzer) check(psr *parser.Parser, path string, content []byte) ([]Diagnostic, error) {
	if err := parser.CheckSize(path, int64(len(content)), a.maxFileSize); err != nil {
		return nil, err
	}
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedLanguage, path)
	}

	var hash string
	if a.cache != nil {
		hash = contentHash(a.rule.Policy(), content)
		if diags, ok := a.cache.Load(path, hash); ok {
			return diags, nil
		}
	}

	result, err := psr.Parse(content, lang, path)
	if err != nil {
		return nil, err
	}
	defer result.Tree.Close()

	diags := a.rule.Check(result)
	if a.cache != nil {
		// Best effort: a miss next run just re-parses.
		_ = a.cache.Store(path, hash, diags)
	}
	return diags, nil
}

// Analyze checks files read from src. Files that cannot be read or parsed
// are skipped and counted in Summary.FilesSkipped. The only error returned
// is ctx.Err() when the context is cancelled.
func (a *Analyzer) Analyze(ctx context.Context, files []string, src source.ContentSource) (*Analysis, error) {
	perFile, errs := fileproc.MapFilesN(ctx, files, a.workers, func(psr *parser.Parser, path string) ([]Diagnostic, error) {
		content, err := src.Read(path)
		if err != nil {
			return nil, err
		}
		return a.check(psr, path, content)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Diagnostics: make([]Diagnostic, 0),
		Summary:     NewSummary(),
		AnalyzedAt:  time.Now(),
	}
	analysis.Summary.FilesAnalyzed = len(perFile)

	if errs != nil {
		analysis.Summary.FilesSkipped = len(errs.Errors)
		if a.onError != nil {
			for _, e := range errs.Errors {
				a.onError(e.Path, e.Err)
			}
		}
	}

	for _, diags := range perFile {
		analysis.Diagnostics = append(analysis.Diagnostics, diags...)
	}
	SortDiagnostics(analysis.Diagnostics)
	for _, d := range analysis.Diagnostics {
		analysis.Summary.AddDiagnostic(d)
	}

	return analysis, nil
}

// SortDiagnostics orders diagnostics by file, line and column.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].File != diags[j].File {
			return diags[i].File < diags[j].File
		}
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Column < diags[j].Column
	})
}
