package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Format errors (FORMAT-001 to FORMAT-099)
	ErrCodeFormat ErrorCode = "FORMAT-001"

	// Schema errors (SCHEMA-001 to SCHEMA-099)
	ErrCodeSchemaCompile  ErrorCode = "SCHEMA-001"
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA-002"

	// Reference errors (REF-001 to REF-099)
	ErrCodeReference ErrorCode = "REF-001"

	// Constraint errors (CONSTRAINT-001 to CONSTRAINT-099)
	ErrCodeConstraint ErrorCode = "CONSTRAINT-001"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"
	ErrCodeAlreadyExists   ErrorCode = "IO-007"
)

// VaultError represents an enhanced error with code, suggestions, and documentation
type VaultError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *VaultError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *VaultError) Unwrap() error {
	return e.Cause
}

// New creates a new VaultError
func New(code ErrorCode, message string) *VaultError {
	return &VaultError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new VaultError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *VaultError {
	return &VaultError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *VaultError) WithSuggestion(suggestion string) *VaultError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *VaultError) WithSuggestions(suggestions ...string) *VaultError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *VaultError) WithDocs(url string) *VaultError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the outermost VaultError in err's chain,
// or "" when err carries no code.
func CodeOf(err error) ErrorCode {
	var ve *VaultError
	if stderrors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// HasCode reports whether err, or anything it wraps, is a VaultError with code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var ve *VaultError
		if !stderrors.As(err, &ve) {
			return false
		}
		if ve.Code == code {
			return true
		}
		err = ve.Cause
	}
	return false
}

// IsValidation reports whether err was raised by the validation pipeline
// rather than by the filesystem.
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case ErrCodeFormat, ErrCodeSchemaCompile, ErrCodeSchemaMismatch, ErrCodeReference, ErrCodeConstraint:
		return true
	default:
		return false
	}
}

// IsNotFound reports whether err is a file-not-found error.
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeFileNotFound)
}

// Common error constructors for frequently used errors

// NewFormatError creates an error for a text field that should hold JSON but does not
func NewFormatError(field string, cause error) *VaultError {
	return Wrap(ErrCodeFormat, fmt.Sprintf("%s is not valid JSON", field), cause).
		WithSuggestion("Check the value is a single well-formed JSON document")
}

// NewSchemaCompileError creates an error for a malformed JSON schema document
func NewSchemaCompileError(details string, cause error) *VaultError {
	return Wrap(ErrCodeSchemaCompile, fmt.Sprintf("invalid JSON schema: %s", details), cause).
		WithSuggestion("Schemas must be JSON objects using standard JSON Schema keywords")
}

// NewSchemaMismatchError creates an error for an instance that does not satisfy its schema
func NewSchemaMismatchError(field string, violations string) *VaultError {
	return New(ErrCodeSchemaMismatch, fmt.Sprintf("%s does not match task schema: %s", field, violations)).
		WithSuggestion("Compare the value against the task's JSON schema")
}

// NewReferenceError creates an error for a key that names a nonexistent sibling entity
func NewReferenceError(message string) *VaultError {
	return New(ErrCodeReference, message)
}

// NewConstraintError creates a field-level constraint violation error
func NewConstraintError(message string) *VaultError {
	return New(ErrCodeConstraint, message)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *VaultError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileReadError creates a read failure error
func NewFileReadError(path string, cause error) *VaultError {
	return Wrap(ErrCodeFileReadFailed, fmt.Sprintf("failed to read file: %s", path), cause)
}

// NewFileWriteError creates a write failure error
func NewFileWriteError(path string, cause error) *VaultError {
	return Wrap(ErrCodeFileWriteFailed, fmt.Sprintf("failed to write file: %s", path), cause).
		WithSuggestion("Verify the directory is writable and the disk is not full")
}

// NewDirectoryError creates a directory operation failure error
func NewDirectoryError(path string, cause error) *VaultError {
	return Wrap(ErrCodeDirectoryFailed, fmt.Sprintf("directory operation failed: %s", path), cause)
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *VaultError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}

// NewFileMarshalError creates a marshal error
func NewFileMarshalError(what string, cause error) *VaultError {
	return Wrap(ErrCodeFileMarshal, fmt.Sprintf("failed to encode %s", what), cause)
}

// NewAlreadyExistsError creates an error for a path that is already taken
func NewAlreadyExistsError(path string) *VaultError {
	return New(ErrCodeAlreadyExists, fmt.Sprintf("already exists: %s", path)).
		WithSuggestion("Choose a different name")
}
