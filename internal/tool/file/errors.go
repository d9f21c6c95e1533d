package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	toolfs "github.com/Cyclone1070/mentat/internal/tool/service/fs"
)

// Error types carry the requested path only. Causes from the filesystem
// are reduced to their errno so the resolved location is not disclosed.

type IsDirectoryError struct {
	Path string
}

func (e *IsDirectoryError) Error() string {
	return fmt.Sprintf("path is a directory: %s", e.Path)
}
func (e *IsDirectoryError) Unwrap() error { return ErrIsDirectory }

type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file too large: %s (size %d, limit %d)", e.Path, e.Size, e.Limit)
}
func (e *TooLargeError) Unwrap() error { return ErrFileTooLarge }

type BinaryFileError struct {
	Path string
}

func (e *BinaryFileError) Error() string {
	return fmt.Sprintf("file is binary: %s", e.Path)
}
func (e *BinaryFileError) Unwrap() error { return ErrBinaryFile }

// OpError wraps a filesystem failure during a tool operation.
type OpError struct {
	Op    string
	Path  string
	Cause error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, errnoOnly(e.Cause))
}
func (e *OpError) Unwrap() error { return e.Cause }

func errnoOnly(err error) error {
	var awErr *toolfs.AtomicWriteError
	if errors.As(err, &awErr) {
		return fmt.Errorf("%s: %w", awErr.Stage, errnoOnly(awErr.Cause))
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err
	}
	return err
}

// -- Sentinels --

var (
	ErrBinaryFile    = errors.New("file is binary")
	ErrFileTooLarge  = errors.New("file too large")
	ErrIsDirectory   = errors.New("path is a directory")
	ErrPathRequired  = errors.New("path is required")
	ErrInvalidOffset = errors.New("offset must be >= 0")
	ErrInvalidLimit  = errors.New("limit must be >= 0")
)
