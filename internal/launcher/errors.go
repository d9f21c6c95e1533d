package launcher

import (
	"errors"
	"fmt"
)

// BinaryNotFoundError is returned when the installed artifact is not on disk.
type BinaryNotFoundError struct {
	Path string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("binary not found: %s", e.Path)
}
func (e *BinaryNotFoundError) Unwrap() error { return ErrBinaryNotFound }

// SpawnError is returned when the child process cannot be started.
type SpawnError struct {
	Path  string
	Cause error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Cause)
}
func (e *SpawnError) Unwrap() []error { return []error{ErrSpawn, e.Cause} }

var (
	ErrBinaryNotFound = errors.New("binary not found")
	ErrSpawn          = errors.New("subprocess spawn failed")
)
