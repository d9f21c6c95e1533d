package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/mentat/internal/config"
)

// fileWriter defines the minimal filesystem operations needed for writing files.
type fileWriter interface {
	Stat(path string) (os.FileInfo, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
	Remove(path string) error
}

// WriteFileTool handles file writing operations.
type WriteFileTool struct {
	fileOps   fileWriter
	validator pathValidator
	config    *config.ToolsConfig
}

// NewWriteFileTool creates a new WriteFileTool with injected dependencies.
func NewWriteFileTool(fileOps fileWriter, validator pathValidator, cfg *config.ToolsConfig) *WriteFileTool {
	return &WriteFileTool{fileOps: fileOps, validator: validator, config: cfg}
}

// Run creates or replaces a workspace file with the requested content.
//
// Missing parent directories are created below the validated path, and the
// parent is confirmed to still be inside the workspace before anything is written.
// The file is written atomically and then confirmed again; if it no longer
// resolves to the validated location it is removed and the write fails.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *WriteFileTool) Run(ctx context.Context, req WriteFileRequest) (*WriteFileResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := req.checkSize(t.config); err != nil {
		return nil, err
	}
	content := []byte(req.Content)
	if isBinary(content) {
		return nil, &BinaryFileError{Path: req.Path}
	}

	abs, err := t.validator.ValidateForWrite(req.Path)
	if err != nil {
		return nil, err
	}

	perm := os.FileMode(0o644)
	created := true
	info, err := t.fileOps.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return nil, &IsDirectoryError{Path: req.Path}
	case err == nil:
		created = false
		perm = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return nil, &OpError{Op: "stat", Path: req.Path, Cause: err}
	}

	parent := filepath.Dir(abs)
	if err := t.fileOps.EnsureDirs(parent); err != nil {
		return nil, &OpError{Op: "create directories for", Path: req.Path, Cause: err}
	}
	if err := t.validator.Confirm(parentRequest(req.Path), parent); err != nil {
		return nil, err
	}

	if err := t.fileOps.WriteFileAtomic(abs, content, perm); err != nil {
		return nil, &OpError{Op: "write", Path: req.Path, Cause: err}
	}

	if err := t.validator.Confirm(req.Path, abs); err != nil {
		_ = t.fileOps.Remove(abs)
		return nil, err
	}

	return &WriteFileResponse{
		Path:         req.Path,
		BytesWritten: len(content),
		Created:      created,
	}, nil
}

// parentRequest returns the requested parent of p. It only strips the last
// component; cleaning would apply ".." lexically and disagree with the validator.
func parentRequest(p string) string {
	isSep := func(r rune) bool { return r == '/' || r == filepath.Separator }
	trimmed := strings.TrimRightFunc(p, isSep)
	i := strings.LastIndexFunc(trimmed, isSep)
	if i < 0 {
		return "."
	}
	return trimmed[:i]
}
