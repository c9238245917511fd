// Package remote clones repositories named on the command line so they can
// be checked like local paths.
package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents a remote repository to check.
type Source struct {
	URL      string // normalized git URL
	Ref      string // branch, tag, or SHA (empty = default branch)
	CloneDir string // temp directory after clone
}

// Parse detects if a path is a remote reference.
// Returns nil if path exists on filesystem (local path takes precedence).
func Parse(path string) (*Source, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	url, ref := splitRef(path)

	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"),
		strings.HasPrefix(url, "ssh://"), strings.HasPrefix(url, "git@"):
		return &Source{URL: url, Ref: ref}, nil
	case hasHostPrefix(url):
		return &Source{URL: "https://" + url, Ref: ref}, nil
	case isGitHubShorthand(url):
		return &Source{URL: "https://github.com/" + url, Ref: ref}, nil
	}
	return nil, nil
}

// splitRef separates a trailing @ref. The user part of git@host URLs is
// not a ref.
func splitRef(path string) (string, string) {
	start := 0
	if strings.HasPrefix(path, "git@") {
		start = len("git@")
	}
	idx := strings.LastIndex(path[start:], "@")
	if idx == -1 {
		return path, ""
	}
	idx += start
	return path[:idx], path[idx+1:]
}

// hasHostPrefix reports whether path starts with a known git host.
func hasHostPrefix(path string) bool {
	for _, host := range []string{"github.com/", "gitlab.com/", "bitbucket.org/"} {
		if strings.HasPrefix(path, host) {
			return true
		}
	}
	return false
}

// isGitHubShorthand returns true if path matches owner/repo pattern.
func isGitHubShorthand(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx == -1 {
		return false
	}
	if strings.Count(path, "/") != 1 {
		return false
	}
	// A dot before the slash means a domain or a relative path.
	if strings.Contains(path[:slashIdx], ".") {
		return false
	}
	return slashIdx > 0 && slashIdx < len(path)-1
}

// Clone clones the repository into a new temp directory and checks out
// Ref. shallow limits history to the checked-out commit when Ref is a
// branch or tag. On failure the temp directory is removed.
func (s *Source) Clone(ctx context.Context, progress io.Writer, shallow bool) error {
	dir, err := os.MkdirTemp("", "selectorlint-clone-*")
	if err != nil {
		return err
	}
	s.CloneDir = dir

	if err := s.clone(ctx, progress, shallow); err != nil {
		s.Cleanup()
		return fmt.Errorf("clone %s: %w", s.URL, err)
	}
	return nil
}

func (s *Source) clone(ctx context.Context, progress io.Writer, shallow bool) error {
	opts := &git.CloneOptions{URL: s.URL, Progress: progress}
	if shallow {
		opts.Depth = 1
	}
	if s.Ref == "" {
		_, err := git.PlainCloneContext(ctx, s.CloneDir, false, opts)
		return err
	}

	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(s.Ref),
		plumbing.NewTagReferenceName(s.Ref),
	} {
		o := *opts
		o.ReferenceName = name
		o.SingleBranch = true
		if _, err := git.PlainCloneContext(ctx, s.CloneDir, false, &o); err == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.reset(); err != nil {
			return err
		}
	}

	// Not a branch or tag: fetch full history and check out the revision.
	opts.Depth = 0
	repo, err := git.PlainCloneContext(ctx, s.CloneDir, false, opts)
	if err != nil {
		return err
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(s.Ref))
	if err != nil {
		return fmt.Errorf("resolve %s: %w", s.Ref, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	return wt.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true})
}

// reset empties the clone directory after a failed attempt.
func (s *Source) reset() error {
	if err := os.RemoveAll(s.CloneDir); err != nil {
		return err
	}
	return os.MkdirAll(s.CloneDir, 0o755)
}

// Cleanup removes the clone directory.
func (s *Source) Cleanup() error {
	if s.CloneDir == "" {
		return nil
	}
	err := os.RemoveAll(s.CloneDir)
	s.CloneDir = ""
	return err
}
