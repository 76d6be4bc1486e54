// Package errors provides structured error types shared by the CLI and API.
//
// Errors carry a machine-readable [Code] next to the human-readable message,
// so callers can branch on the failure class without string matching:
//
//	err := errors.New(errors.ErrCodeInvalidInput, "object %d is not a mapping", i)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // 400, usage hint, ...
//	}
//
//	// Wrap failures from rule and analysis callbacks
//	err := errors.Wrap(errors.ErrCodeRuleFailed, cause, "node builder for %T", obj)
//
// Assembly is all-or-nothing: a RULE_FAILED or ANALYSIS_FAILED error means
// no graph was produced, and the original cause is preserved in the chain.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different failure classes.
const (
	// Input validation
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Assembly
	ErrCodeRuleFailed     Code = "RULE_FAILED"
	ErrCodeAnalysisFailed Code = "ANALYSIS_FAILED"

	// Serialization
	ErrCodeEncodeFailed Code = "ENCODE_FAILED"
	ErrCodeDecodeFailed Code = "DECODE_FAILED"

	// Resources
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeStorage  Code = "STORAGE_ERROR"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
