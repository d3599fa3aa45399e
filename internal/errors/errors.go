package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// Error types for the ontology matching system
type ErrorType string

const (
	// Configuration errors are fatal: the run is aborted
	ErrorTypeConfig ErrorType = "config"

	// Collaborator errors come from ontology loading, translation or background knowledge
	ErrorTypeCollaborator ErrorType = "collaborator"

	// Matching errors come from a matcher invoked by a pipeline stage
	ErrorTypeMatch ErrorType = "match"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"
	ErrorTypeParse        ErrorType = "parse"
)

// Sentinel errors for conditions callers branch on
var (
	ErrUnknownSource       = errors.New("unknown background knowledge source")
	ErrNoBKOntology        = errors.New("no background knowledge ontology is open")
	ErrNoTranslation       = errors.New("no translation dictionary for language pair")
	ErrInvalidThreshold    = errors.New("threshold must be within [0,1]")
	ErrEmptyOntology       = errors.New("ontology has no entities")
	ErrMissingCollaborator = errors.New("missing collaborator")
)

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// CollaboratorError is raised by an external collaborator (ontology task, background
// knowledge, oracle). The pipeline propagates these unmodified.
type CollaboratorError struct {
	Type         ErrorType
	Collaborator string
	Operation    string
	Underlying   error
	Timestamp    time.Time
}

// NewCollaboratorError creates a new collaborator error
func NewCollaboratorError(collaborator, op string, err error) *CollaboratorError {
	return &CollaboratorError{
		Type:         ErrorTypeCollaborator,
		Collaborator: collaborator,
		Operation:    op,
		Underlying:   err,
		Timestamp:    time.Now(),
	}
}

// Error implements the error interface
func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Collaborator, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *CollaboratorError) Unwrap() error {
	return e.Underlying
}

// MatchError represents a matcher failure inside a pipeline stage
type MatchError struct {
	Type       ErrorType
	Stage      string
	Matcher    string
	Underlying error
	Timestamp  time.Time
}

// NewMatchError creates a new match error
func NewMatchError(stage, matcher string, err error) *MatchError {
	return &MatchError{
		Type:       ErrorTypeMatch,
		Stage:      stage,
		Matcher:    matcher,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *MatchError) Error() string {
	if e.Matcher != "" {
		return fmt.Sprintf("%s stage failed in %s: %v", e.Stage, e.Matcher, e.Underlying)
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Underlying)
}

// Unwrap returns the underlying error
func (e *MatchError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	if errors.Is(err, fs.ErrPermission) {
		return true
	}
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ParseError represents a malformed ontology or lexicon file
type ParseError struct {
	Type       ErrorType
	Path       string
	Line       int
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error. Line is 0 when unknown.
func NewParseError(path string, line int, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		Path:       path,
		Line:       line,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at %s:%d: %v", e.Path, e.Line, e.Underlying)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// IsConfig reports whether err is (or wraps) a configuration error
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
