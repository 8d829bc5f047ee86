// Package errors provides structured error types for the slide rule engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP service
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Taxonomy
//
// Codes fall into three groups:
//   - Configuration errors (INVALID_*, MISSING_*): programmer errors at setup
//     time, returned immediately to the caller.
//   - Data errors (UNSUPPORTED_*, UNKNOWN_*, OUT_OF_DOMAIN): reported and the
//     offending element skipped; rendering continues.
//   - Lookup errors (*_NOT_FOUND) raised by the session store and HTTP API.
//
// Out-of-range slide or cursor positions are never errors; they are clamped.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidComponent, "invalid component: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidComponent) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInstrument, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidComponent  Code = "INVALID_COMPONENT"
	ErrCodeInvalidScale      Code = "INVALID_SCALE"
	ErrCodeInvalidInstrument Code = "INVALID_INSTRUMENT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeMissingSurface    Code = "MISSING_SURFACE"

	// Data errors
	ErrCodeUnsupportedScale Code = "UNSUPPORTED_SCALE"
	ErrCodeOutOfDomain      Code = "OUT_OF_DOMAIN"
	ErrCodeUnknownDivision  Code = "UNKNOWN_DIVISION"
	ErrCodeUnknownConstant  Code = "UNKNOWN_CONSTANT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Capacity errors
	ErrCodeSessionLimit Code = "SESSION_LIMIT"

	// Internal errors
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// Joined errors (errors.Join) match if any member matches.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if Is(e, code) {
				return true
			}
		}
		return false
	}
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

// IsDataError reports whether err is a recoverable data error: the offending
// element should be skipped and processing should continue.
func IsDataError(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnsupportedScale, ErrCodeOutOfDomain, ErrCodeUnknownDivision, ErrCodeUnknownConstant:
		return true
	}
	return false
}

// HTTPStatus maps an error to the HTTP status code the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case "":
		return http.StatusInternalServerError
	case ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeInternal, ErrCodeMissingSurface:
		return http.StatusInternalServerError
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodeSessionLimit:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
