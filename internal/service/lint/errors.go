package lint

// PathError is returned when a path argument cannot be resolved.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError is returned when file discovery fails.
type ScanError struct {
	Err error
}

func (e *ScanError) Error() string {
	return "failed to scan: " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// GitError is returned when a git-backed check cannot read the repository.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return "git: " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}
