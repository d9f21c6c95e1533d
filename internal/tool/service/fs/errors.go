package fs

import (
	"errors"
	"fmt"
)

// Stage names the step of an atomic write that failed.
type Stage string

const (
	StageCreate Stage = "create temp file"
	StageWrite  Stage = "write temp file"
	StageSync   Stage = "sync temp file"
	StageClose  Stage = "close temp file"
	StageChmod  Stage = "set permissions on temp file"
	StageRename Stage = "rename temp file"
)

// AtomicWriteError is returned when any step of an atomic write fails.
// The target path is never left holding partial content when this is returned.
type AtomicWriteError struct {
	Stage Stage
	Path  string
	Cause error
}

func (e *AtomicWriteError) Error() string {
	return fmt.Sprintf("failed to %s for %s: %v", e.Stage, e.Path, e.Cause)
}
func (e *AtomicWriteError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrInvalidOffset = errors.New("invalid offset")
)
