package errors

import (
	"errors"
	"fmt"
)

// IgnoreError is the structured error type for stackignore.
// It carries what the CLI needs to report a failure to the user.
type IgnoreError struct {
	// Code is the unique error code (e.g., "ERR_201_DIR_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, ...).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error.
	Cause error

	// Suggestion is an actionable hint for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *IgnoreError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *IgnoreError) Unwrap() error {
	return e.Cause
}

// Is matches another IgnoreError by code.
func (e *IgnoreError) Is(target error) bool {
	if t, ok := target.(*IgnoreError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *IgnoreError) WithDetail(key, value string) *IgnoreError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *IgnoreError) WithSuggestion(suggestion string) *IgnoreError {
	e.Suggestion = suggestion
	return e
}

// New creates an IgnoreError. Category and severity derive from the code.
func New(code string, message string, cause error) *IgnoreError {
	return &IgnoreError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an IgnoreError from an existing error, reusing its message.
func Wrap(code string, err error) *IgnoreError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration error.
func ConfigError(message string, cause error) *IgnoreError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates a write failure error.
func IOError(message string, cause error) *IgnoreError {
	return New(ErrCodeWriteFailed, message, cause)
}

// ValidationError creates an input validation error.
func ValidationError(message string, cause error) *IgnoreError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *IgnoreError {
	return New(ErrCodeInternal, message, cause)
}

// As finds the first IgnoreError in err's chain.
func As(err error) (*IgnoreError, bool) {
	var ie *IgnoreError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// GetCode extracts the error code, or "" for other errors.
func GetCode(err error) string {
	if ie, ok := As(err); ok {
		return ie.Code
	}
	return ""
}
