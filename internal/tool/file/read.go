package file

import (
	"context"
	"os"

	"github.com/Cyclone1070/mentat/internal/config"
)

// fileReader defines the minimal filesystem operations needed for reading files.
type fileReader interface {
	Stat(path string) (os.FileInfo, error)
	ReadFileRange(path string, offset, limit int64) ([]byte, error)
}

// ReadFileTool handles file reading operations.
type ReadFileTool struct {
	fileOps   fileReader
	validator pathValidator
	config    *config.ToolsConfig
}

// NewReadFileTool creates a new ReadFileTool with injected dependencies.
func NewReadFileTool(fileOps fileReader, validator pathValidator, cfg *config.ToolsConfig) *ReadFileTool {
	return &ReadFileTool{fileOps: fileOps, validator: validator, config: cfg}
}

// Run reads a workspace file, optionally a byte range of it.
// The request path is validated and only the validated path is touched.
// Directories, files over the size limit and binary content are rejected.
//
// Note: ctx is accepted for API consistency but not used - file I/O is synchronous.
func (t *ReadFileTool) Run(ctx context.Context, req ReadFileRequest) (*ReadFileResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	abs, err := t.validator.ValidateForRead(req.Path)
	if err != nil {
		return nil, err
	}

	info, err := t.fileOps.Stat(abs)
	if err != nil {
		return nil, &OpError{Op: "stat", Path: req.Path, Cause: err}
	}
	if info.IsDir() {
		return nil, &IsDirectoryError{Path: req.Path}
	}
	if info.Size() > t.config.MaxFileSize {
		return nil, &TooLargeError{Path: req.Path, Size: info.Size(), Limit: t.config.MaxFileSize}
	}

	data, err := t.fileOps.ReadFileRange(abs, req.Offset, req.Limit)
	if err != nil {
		return nil, &OpError{Op: "read", Path: req.Path, Cause: err}
	}
	if isBinary(data) {
		return nil, &BinaryFileError{Path: req.Path}
	}

	return &ReadFileResponse{
		Path:    req.Path,
		Content: string(data),
		Size:    info.Size(),
	}, nil
}
