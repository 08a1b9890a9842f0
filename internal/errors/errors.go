package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig = "CONFIG"
	ErrFetch  = "FETCH" // a read endpoint answered non-2xx or could not be reached
	ErrParse  = "PARSE" // a response body did not match the expected shape
	ErrWrite  = "WRITE" // a mutating call (increment, mock) did not succeed
)

// Kind is the coarse failure category reported to the cache and to the
// error-reporting collaborator.
type Kind int

const (
	KindNone Kind = iota
	KindFetch
	KindParse
	KindWrite
)

// String returns the name used in logs and in the dashboard.
func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "FetchFailure"
	case KindParse:
		return "ParsePayloadFailure"
	case KindWrite:
		return "WriteFailure"
	default:
		return "none"
	}
}

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrFetch code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrFetch,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var vdErr *Error
	if errors.As(err, &vdErr) {
		return vdErr.Code == code
	}
	return false
}

// KindOf classifies err. Structured errors map by code; any other non-nil
// error (dial failures, context deadlines) is treated as a fetch failure
// because it can only come from the transport.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var vdErr *Error
	if errors.As(err, &vdErr) {
		switch vdErr.Code {
		case ErrParse:
			return KindParse
		case ErrWrite:
			return KindWrite
		case ErrFetch:
			return KindFetch
		}
	}
	return KindFetch
}

// IsCanceled reports whether err came from a cancelled context rather
// than from the remote side. Canceled fetches are discarded, not reported.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Is and As re-export the standard helpers so callers importing this
// package under the name "errors" keep access to them.
var (
	Is = errors.Is
	As = errors.As
)
