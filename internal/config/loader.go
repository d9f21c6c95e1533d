package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// ConfigDir is the directory name used under the project root, the user config dir and home.
	ConfigDir = "mentat"
	// ConfigFile is the settings file name
	ConfigFile = "settings.json"
)

// ProjectSettingsPath is the primary candidate, relative to the working directory.
var ProjectSettingsPath = filepath.Join("."+ConfigDir, ConfigFile)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	UserConfigDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles settings loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Candidates returns the settings locations in probe order:
// the project file, the user config dir, then ~/.mentat.
// Locations whose base directory cannot be determined are skipped.
func (l *Loader) Candidates() []string {
	paths := []string{ProjectSettingsPath}
	if dir, err := l.fs.UserConfigDir(); err == nil && dir != "" {
		paths = append(paths, filepath.Join(dir, ConfigDir, ConfigFile))
	}
	if home, err := l.fs.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, "."+ConfigDir, ConfigFile))
	}
	return paths
}

// Load reads the first existing candidate, decodes and validates it.
// Later candidates are never consulted once one exists, and sources are not merged.
// If none exists the error names only ProjectSettingsPath.
func (l *Loader) Load() (*Settings, error) {
	for _, path := range l.Candidates() {
		data, err := l.fs.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, readError(path, err)
		}
		return decodeAndValidate(path, data)
	}
	return nil, &NotFoundError{Path: ProjectSettingsPath}
}

// LoadFrom reads settings from an explicit path, bypassing the search list.
func (l *Loader) LoadFrom(path string) (*Settings, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, readError(path, err)
	}
	return decodeAndValidate(path, data)
}

// Load is a convenience function using the default loader
func Load() (*Settings, error) {
	return NewLoader().Load()
}

func readError(path string, err error) error {
	reason := "read failed"
	if errors.Is(err, fs.ErrPermission) {
		reason = "permission denied"
	}
	return &ReadError{Path: path, Reason: reason}
}

func decodeAndValidate(path string, data []byte) (*Settings, error) {
	s, err := decode(path, data)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// decode parses data as JSON and maps it onto Settings through viper.
// Parse failures keep only a category and position; decoder messages can quote
// values, so they are dropped.
func decode(path string, data []byte) (*Settings, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, jsonParseError(path, data, err)
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.MergeConfigMap(raw); err != nil {
		return nil, &ParseError{Path: path, Kind: ParseData}
	}

	var s Settings
	if err := v.Unmarshal(&s, viper.DecodeHook(trimSpaceHook())); err != nil {
		return nil, &ParseError{Path: path, Kind: ParseData}
	}
	return &s, nil
}

func jsonParseError(path string, data []byte, err error) *ParseError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := position(data, syntaxErr.Offset)
		return &ParseError{Path: path, Kind: ParseSyntax, Line: line, Column: col}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := position(data, typeErr.Offset)
		return &ParseError{Path: path, Kind: ParseData, Line: line, Column: col}
	}
	return &ParseError{Path: path, Kind: ParseSyntax}
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line := 1 + bytes.Count(prefix, []byte{'\n'})
	col := len(prefix) - (bytes.LastIndexByte(prefix, '\n') + 1)
	if col < 1 {
		col = 1
	}
	return line, col
}

// trimSpaceHook trims surrounding whitespace from every string value,
// so a whitespace-only key decodes as empty.
func trimSpaceHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		return strings.TrimSpace(reflect.ValueOf(data).String()), nil
	}
}
