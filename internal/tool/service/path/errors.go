package path

import (
	"errors"
	"fmt"
	"io/fs"
)

// -- Error Types --

// WorkspaceRootError is returned when the workspace root is invalid.
type WorkspaceRootError struct {
	Root  string
	Cause error
}

func (e *WorkspaceRootError) Error() string {
	return fmt.Sprintf("invalid workspace root %s: %v", e.Root, e.Cause)
}
func (e *WorkspaceRootError) Unwrap() error { return e.Cause }

// AbsolutePathError is returned for absolute, rooted or drive-qualified requests.
type AbsolutePathError struct {
	Path string
}

func (e *AbsolutePathError) Error() string {
	return fmt.Sprintf("absolute paths are not allowed: %s", e.Path)
}
func (e *AbsolutePathError) Unwrap() error { return ErrAbsolutePath }

// TraversalError is returned when the canonical form of a request leaves the workspace.
// Only the original request is kept so the message never discloses the resolved location.
type TraversalError struct {
	Path string
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("path traversal not allowed: %s", e.Path)
}
func (e *TraversalError) Unwrap() error { return ErrPathTraversal }

// NotFoundError is returned by ValidateForRead when the target does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Path)
}
func (e *NotFoundError) Unwrap() error { return ErrPathNotFound }

// SymlinkLoopError is returned when resolving a request follows too many links.
type SymlinkLoopError struct {
	Path    string
	MaxHops int
}

func (e *SymlinkLoopError) Error() string {
	return fmt.Sprintf("too many symbolic links resolving %s (max %d)", e.Path, e.MaxHops)
}
func (e *SymlinkLoopError) Unwrap() error { return ErrSymlinkLoop }

// ResolveError wraps a filesystem failure hit while canonicalising a request.
type ResolveError struct {
	Path  string
	Cause error
}

func (e *ResolveError) Error() string {
	// fs.PathError carries the absolute path it failed on; report only the errno.
	cause := e.Cause
	var pathErr *fs.PathError
	if errors.As(cause, &pathErr) {
		cause = pathErr.Err
	}
	return fmt.Sprintf("cannot resolve %s: %v", e.Path, cause)
}
func (e *ResolveError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrWorkspaceRootNotSet = errors.New("workspace root not set")
	ErrNotADirectory       = errors.New("not a directory")
	ErrAbsolutePath        = errors.New("absolute path rejected")
	ErrPathTraversal       = errors.New("path traversal")
	ErrPathNotFound        = errors.New("path not found")
	ErrSymlinkLoop         = errors.New("symlink loop")
)
