package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const settingsTemplate = `{
  "env": {
    "api_key": "your-api-key-here",
    "base_url": "https://api.anthropic.com",
    "https_proxy": ""
  },
  "model": {
    "name": "` + DefaultModel + `"
  }
}
`

// TemplateFS is the filesystem surface WriteTemplate needs.
type TemplateFS interface {
	MkdirAll(path string, perm os.FileMode) error
	// CreateExclusive writes data to a new file and fails with fs.ErrExist if it already exists.
	CreateExclusive(path string, data []byte, perm os.FileMode) error
}

func (ConfigFileReader) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (ConfigFileReader) CreateExclusive(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// WriteTemplate writes a settings template to path, or ProjectSettingsPath if path is empty.
// An existing file is never overwritten. The file is created 0600 since it will hold a key.
func WriteTemplate(tfs TemplateFS, path string) (string, error) {
	if path == "" {
		path = ProjectSettingsPath
	}
	if err := tfs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", &WriteError{Path: path, Reason: "cannot create directory"}
	}
	if err := tfs.CreateExclusive(path, []byte(settingsTemplate), 0o600); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", &TemplateExistsError{Path: path}
		}
		return "", &WriteError{Path: path, Reason: "write failed"}
	}
	return path, nil
}
