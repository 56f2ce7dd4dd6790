// Package errors provides structured error types for package acquisition.
//
// Every failure raised by the identity model, the download manager and the
// VCS downloaders carries a machine-readable [Code], so callers can tell a
// misconfigured package apart from a dirty working tree or an exhausted
// credential prompt without parsing messages.
//
// # Error Codes
//
// Acquisition codes:
//   - CONFIGURATION: missing downloader, missing source/dist, missing reference
//   - CONSISTENCY: a package or downloader violates a model invariant
//   - DIRTY_WORKING_TREE: local modifications block an update or removal
//   - PROTOCOL_EXHAUSTED: every hosting-provider protocol failed
//   - AUTHENTICATION_EXHAUSTED: the interactive credential retries ran out
//   - TOOL_MISSING: the version-control client is not installed
//   - PROCESS_FAILURE: any other non-zero exit of the external tool
//
// Input, lookup and network codes follow the INVALID_*, *NOT_FOUND and
// NETWORK_* conventions.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "package %s must have a source or dist specified", name)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Acquisition errors
	ErrCodeConfiguration           Code = "CONFIGURATION"
	ErrCodeConsistency             Code = "CONSISTENCY"
	ErrCodeDirtyWorkingTree        Code = "DIRTY_WORKING_TREE"
	ErrCodeProtocolExhausted       Code = "PROTOCOL_EXHAUSTED"
	ErrCodeAuthenticationExhausted Code = "AUTHENTICATION_EXHAUSTED"
	ErrCodeToolMissing             Code = "TOOL_MISSING"
	ErrCodeProcessFailure          Code = "PROCESS_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidPackage    Code = "INVALID_PACKAGE"
	ErrCodeInvalidVersion    Code = "INVALID_VERSION"
	ErrCodeInvalidConstraint Code = "INVALID_CONSTRAINT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err has the given error code.
// Only the outermost *Error in the chain is considered, so a PROTOCOL_EXHAUSTED
// error wrapping a PROCESS_FAILURE reports PROTOCOL_EXHAUSTED.
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

// RateLimitedError is returned by registry clients when the server answers 429.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
