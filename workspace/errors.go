package workspace

import (
	"errors"
	"fmt"
)

// ErrContextNotSet is returned by every path-dependent operation before a
// repository path has been configured.
var ErrContextNotSet = errors.New("repository path not set; use set_repo_path first")

// PathNotFoundError is returned when a requested path does not exist
// or is not a directory where one is required.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Path)
}

// NotADirectoryError is returned when a listing target exists but is not
// a directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("not a directory: %s", e.Path)
}

// ReadError wraps a failure to read a file inside the workspace.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error { return e.Cause }

// WriteError wraps a failure to write a file inside the workspace.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }
