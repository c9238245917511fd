// Package lint orchestrates file discovery and selector analysis for the
// CLI, watch mode and the MCP server.
package lint

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/panbanda/selectorlint/internal/cache"
	"github.com/panbanda/selectorlint/internal/scanner"
	"github.com/panbanda/selectorlint/internal/vcs"
	"github.com/panbanda/selectorlint/pkg/analyzer/bycss"
	"github.com/panbanda/selectorlint/pkg/config"
	"github.com/panbanda/selectorlint/pkg/parser"
	"github.com/panbanda/selectorlint/pkg/source"
)

// Service runs the selector rule over a project.
type Service struct {
	config *config.Config
	opener vcs.Opener
	cache  bycss.Cache
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// WithCache sets the diagnostics cache, overriding the cache section of
// the configuration.
func WithCache(c bycss.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// New creates a new lint service. Without WithConfig the configuration is
// loaded from the standard locations, and a file that fails to load or
// validate is an error.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		result, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		s.config = result.Config
	}
	if s.cache == nil && s.config.Cache.Enabled {
		// An unusable cache dir only disables caching.
		if c, err := cache.New(s.config.Cache.Dir, s.config.Cache.TTLHours, true); err == nil {
			s.cache = c
		}
	}
	return s, nil
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// CheckOptions selects which files a check covers.
type CheckOptions struct {
	// Changed limits the check to files that differ from HEAD in the
	// git worktree, including untracked files.
	Changed bool
	// Ref checks files as they are at a git revision instead of on disk.
	// Paths in the result are relative to the repository root.
	Ref string
	// OnError is called for each file that could not be analyzed.
	OnError func(path string, err error)
}

// Target is a resolved set of files and where to read them from.
type Target struct {
	Files  []string
	Source source.ContentSource
}

// Resolve expands paths into the files to check.
func (s *Service) Resolve(paths []string, opts CheckOptions) (*Target, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	switch {
	case opts.Ref != "":
		return s.resolveRef(paths, opts.Ref)
	case opts.Changed:
		return s.resolveChanged(paths)
	default:
		files, err := scanner.NewScanner(s.config).ScanPaths(paths)
		if err != nil {
			return nil, &ScanError{Err: err}
		}
		return &Target{Files: files, Source: source.NewFilesystem()}, nil
	}
}

func (s *Service) openRepo(path string) (vcs.Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}
	repo, err := s.opener.PlainOpenWithDetect(abs)
	if err != nil {
		return nil, &GitError{Err: err}
	}
	return repo, nil
}

func (s *Service) resolveChanged(paths []string) (*Target, error) {
	repo, err := s.openRepo(paths[0])
	if err != nil {
		return nil, err
	}
	changed, err := repo.Changed()
	if err != nil {
		return nil, &GitError{Err: err}
	}

	roots, err := absPaths(paths)
	if err != nil {
		return nil, err
	}

	base := resolvePath(repo.RepoPath())
	scan := scanner.NewScanner(s.config)
	var files []string
	for _, rel := range changed {
		abs := filepath.Join(base, rel)
		if !underAny(abs, roots) {
			continue
		}
		if ok, err := scan.ScanFile(abs); err == nil && ok {
			files = append(files, abs)
		}
	}
	return &Target{Files: files, Source: source.NewFilesystem()}, nil
}

func (s *Service) resolveRef(paths []string, ref string) (*Target, error) {
	repo, err := s.openRepo(paths[0])
	if err != nil {
		return nil, err
	}
	tree, err := repo.TreeAt(ref)
	if err != nil {
		return nil, &GitError{Err: err}
	}
	entries, err := tree.Entries()
	if err != nil {
		return nil, &GitError{Err: err}
	}

	roots, err := absPaths(paths)
	if err != nil {
		return nil, err
	}

	base := resolvePath(repo.RepoPath())
	var files []string
	for _, e := range entries {
		if !underAny(filepath.Join(base, e.Path), roots) {
			continue
		}
		if s.config.ShouldExclude(e.Path) || parser.DetectLanguage(e.Path) == parser.LangUnknown {
			continue
		}
		if limit := s.config.Analysis.MaxFileSize; limit > 0 && e.Size > limit {
			continue
		}
		files = append(files, e.Path)
	}
	return &Target{Files: files, Source: source.NewTree(tree)}, nil
}

// Check resolves paths and analyzes every file.
func (s *Service) Check(ctx context.Context, paths []string, opts CheckOptions) (*bycss.Analysis, error) {
	target, err := s.Resolve(paths, opts)
	if err != nil {
		return nil, err
	}
	return s.CheckFiles(ctx, target.Files, target.Source, opts.OnError)
}

// CheckFiles analyzes files read from src.
func (s *Service) CheckFiles(ctx context.Context, files []string, src source.ContentSource, onError func(string, error)) (*bycss.Analysis, error) {
	a := s.newAnalyzer(onError, true)
	defer a.Close()
	return a.Analyze(ctx, files, src)
}

// CheckSource analyzes in-memory content, e.g. an unsaved editor buffer.
// The cache is not consulted.
func (s *Service) CheckSource(path string, content []byte) ([]bycss.Diagnostic, error) {
	a := s.newAnalyzer(nil, false)
	defer a.Close()
	return a.AnalyzeSource(path, content)
}

func (s *Service) newAnalyzer(onError func(string, error), cached bool) *bycss.Analyzer {
	opts := []bycss.Option{
		bycss.WithPolicy(s.config.Policy),
		bycss.WithMaxFileSize(s.config.Analysis.MaxFileSize),
		bycss.WithWorkers(s.config.Analysis.Workers),
	}
	if onError != nil {
		opts = append(opts, bycss.WithErrorHandler(onError))
	}
	if cached && s.cache != nil {
		opts = append(opts, bycss.WithCache(s.cache))
	}
	return bycss.New(opts...)
}

func absPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, &PathError{Path: p, Err: err}
		}
		out = append(out, resolvePath(abs))
	}
	return out, nil
}

// resolvePath follows symlinks when path exists.
func resolvePath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

func underAny(path string, roots []string) bool {
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
