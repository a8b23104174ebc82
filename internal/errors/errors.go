// Package errors provides structured errors with a category code, a short
// message, and an actionable suggestion. The code lets callers branch on the
// failure class (connection vs. persistence) without string matching.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a failure so callers can decide whether a cycle, the
// current probe, or the whole process should give up.
type Code string

const (
	// ErrConfig covers bad arguments, unreadable config files, and missing
	// credential files. Fatal at startup.
	ErrConfig Code = "CONFIG"
	// ErrSSH covers unreachable hosts, failed authentication, and dropped
	// channels. Fatal to the current cycle only.
	ErrSSH Code = "SSH"
	// ErrProbe covers a single diagnostic command that could not run.
	// Recovered: the category is marked unavailable.
	ErrProbe Code = "PROBE"
	// ErrParse covers probe output that did not match the expected format.
	// Recovered identically to ErrProbe.
	ErrParse Code = "PARSE"
	// ErrStore covers an output directory that cannot be created or written.
	// Fatal to the cycle's artifacts, not to the process.
	ErrStore Code = "STORE"
)

// Error is a categorized error with an optional fix-it suggestion.
type Error struct {
	Code       Code
	Message    string
	Suggestion string
	Cause      error
}

// New creates an error with the given code, message, and suggestion.
func New(code Code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

// WrapWithSuggestion attaches a code, message, and suggestion to an
// underlying error.
func WrapWithSuggestion(err error, code Code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

// Error formats the failure as message, cause, then suggestion.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %s", e.Cause.Error()))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s", e.Suggestion))
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err (or anything it wraps) is an Error with the
// given code.
func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
