// Package vcs provides version control system abstractions.
package vcs

// Repository provides access to the git operations the linter needs.
type Repository interface {
	// TreeAt returns the tree of the commit that rev resolves to.
	TreeAt(rev string) (Tree, error)
	// Changed returns worktree files that differ from HEAD, including
	// untracked files. Paths are relative to RepoPath.
	Changed() ([]string, error)
	// RepoPath returns the root path of the repository.
	RepoPath() string
}

// TreeEntry represents a file in a git tree.
type TreeEntry struct {
	Path string
	Size int64
}

// Tree represents a git tree object.
type Tree interface {
	// Entries returns all files in the tree (recursively).
	Entries() ([]TreeEntry, error)
	// File returns the content of the file at path.
	File(path string) ([]byte, error)
}

// Opener opens git repositories.
type Opener interface {
	// PlainOpen opens an existing git repository.
	PlainOpen(path string) (Repository, error)
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}
