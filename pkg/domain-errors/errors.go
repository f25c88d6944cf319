// Package domainerrors defines coded errors shared across services and
// handlers. Handlers translate codes to HTTP statuses in one place so
// services never import net/http.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	// CodeValidation marks client input that failed request validation.
	// Maps to 422; the description names the offending parameter.
	CodeValidation Code = "unprocessable_entity"
	// CodeBadRequest marks malformed requests (unparseable parameters).
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks lookups for resources that do not exist.
	CodeNotFound Code = "not_found"
	// CodeInvariantViolation marks programming/contract violations, such as
	// an unvalidated group key reaching the query builder.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks storage and other server-side failures. The
	// description is never sent to clients.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// New constructs a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, wrapped: err}
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the client-safe message from err. Uncoded errors yield
// an empty message so internals never leak.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
