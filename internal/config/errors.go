package config

import (
	"errors"
	"fmt"
)

// Errors in this package never carry file content or the API key.

// NotFoundError is returned when no settings file exists at any candidate location.
// Path is always the primary candidate so the full search list is not disclosed.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("settings file not found: %s (run `mentat config init` to create one)", e.Path)
}
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ReadError is returned when a settings file exists but cannot be read.
type ReadError struct {
	Path   string
	Reason string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read settings file %s: %s", e.Path, e.Reason)
}
func (e *ReadError) Unwrap() error { return ErrRead }

// ParseKind classifies a parse failure.
type ParseKind string

const (
	ParseSyntax ParseKind = "syntax"
	ParseData   ParseKind = "data"
)

// ParseError reports a malformed settings document by category and position only.
// Line and Column are 1-based; zero means the position is unknown.
type ParseError struct {
	Path   string
	Kind   ParseKind
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invalid settings file %s: %s error", e.Path, e.Kind)
	}
	return fmt.Sprintf("invalid settings file %s: %s error at line %d, column %d", e.Path, e.Kind, e.Line, e.Column)
}
func (e *ParseError) Unwrap() error { return ErrParse }

// ValidationError is returned when decoded settings fail validation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid settings: " + e.Reason
}
func (e *ValidationError) Unwrap() error { return ErrValidation }

// WriteError is returned when WriteTemplate cannot create the settings file.
type WriteError struct {
	Path   string
	Reason string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write settings file %s: %s", e.Path, e.Reason)
}

// TemplateExistsError is returned when WriteTemplate would overwrite a file.
type TemplateExistsError struct {
	Path string
}

func (e *TemplateExistsError) Error() string {
	return fmt.Sprintf("settings file already exists: %s", e.Path)
}
func (e *TemplateExistsError) Unwrap() error { return ErrTemplateExists }

var (
	ErrNotFound       = errors.New("settings not found")
	ErrRead           = errors.New("settings unreadable")
	ErrParse          = errors.New("settings malformed")
	ErrValidation     = errors.New("settings invalid")
	ErrTemplateExists = errors.New("settings file exists")
)
