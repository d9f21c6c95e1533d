package file

import (
	"github.com/Cyclone1070/mentat/internal/config"
)

// -- Read File --

type ReadFileRequest struct {
	Path   string `mapstructure:"path"`
	Offset int64  `mapstructure:"offset"`
	Limit  int64  `mapstructure:"limit"`
}

func (r *ReadFileRequest) Validate() error {
	if r.Path == "" {
		return ErrPathRequired
	}
	if r.Offset < 0 {
		return ErrInvalidOffset
	}
	if r.Limit < 0 {
		return ErrInvalidLimit
	}
	return nil
}

// ReadFileResponse reports paths as requested, never as resolved on disk.
type ReadFileResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// -- Write File --

type WriteFileRequest struct {
	Path    string `mapstructure:"path"`
	Content string `mapstructure:"content"`
}

func (r *WriteFileRequest) Validate() error {
	if r.Path == "" {
		return ErrPathRequired
	}
	return nil
}

func (r *WriteFileRequest) checkSize(cfg *config.ToolsConfig) error {
	if int64(len(r.Content)) > cfg.MaxFileSize {
		return &TooLargeError{Path: r.Path, Size: int64(len(r.Content)), Limit: cfg.MaxFileSize}
	}
	return nil
}

type WriteFileResponse struct {
	Path         string `json:"path"`
	BytesWritten int    `json:"bytes_written"`
	Created      bool   `json:"created"`
}
