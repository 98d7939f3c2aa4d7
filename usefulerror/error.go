// Package usefulerror carries user-facing context alongside an error so the
// CLI can show something actionable instead of a raw internal error.
package usefulerror

import (
	"errors"
	"strings"
)

// UsefulError is an error that knows how to present itself to a user.
type UsefulError interface {
	error

	// HumanError returns a human-readable description of what went wrong.
	HumanError() string

	// Help returns guidance specific to this error.
	Help() string

	// Code identifies the error type for logging and categorization.
	Code() string
}

type usefulError struct {
	cause      error
	msg        string
	humanError string
	help       string
	code       string
}

var _ UsefulError = (*usefulError)(nil)

// Useful starts building a UsefulError.
func Useful() *usefulError {
	return &usefulError{}
}

// Wrap records the underlying error. It is reported by Error and unwrapped
// by errors.Is and errors.As.
func (e *usefulError) Wrap(cause error) *usefulError {
	wrapped := *e
	wrapped.cause = cause
	return &wrapped
}

func (e *usefulError) Msg(msg string) *usefulError {
	e.msg = msg
	return e
}

func (e *usefulError) WithHumanError(humanError string) *usefulError {
	e.humanError = humanError
	return e
}

func (e *usefulError) WithHelp(help string) *usefulError {
	e.help = help
	return e
}

func (e *usefulError) WithCode(code string) *usefulError {
	e.code = code
	return e
}

func (e *usefulError) Error() string {
	var parts []string
	if e.code != "" {
		parts = append(parts, e.code)
	}

	if e.msg != "" {
		parts = append(parts, e.msg)
	}

	if e.cause != nil {
		parts = append(parts, e.cause.Error())
	}

	if len(parts) == 0 {
		return "unknown error"
	}

	return strings.Join(parts, ": ")
}

func (e *usefulError) Unwrap() error {
	return e.cause
}

// Is treats two useful errors with the same code as equivalent, so sentinel
// values built with Useful() work with errors.Is after Wrap.
func (e *usefulError) Is(target error) bool {
	var other *usefulError
	if !errors.As(target, &other) {
		return false
	}

	return e.code != "" && e.code == other.code
}

func (e *usefulError) HumanError() string {
	if e.humanError == "" {
		return "An error occurred, but no further description is available."
	}

	return e.humanError
}

func (e *usefulError) Help() string {
	return e.help
}

func (e *usefulError) Code() string {
	if e.code == "" {
		return "unknown"
	}

	return e.code
}

// AsUsefulError attempts to convert an error into a UsefulError.
func AsUsefulError(err error) (UsefulError, bool) {
	if err == nil {
		return nil, false
	}

	var useful *usefulError
	if errors.As(err, &useful) {
		return useful, true
	}

	if useful, ok := err.(UsefulError); ok {
		return useful, true
	}

	return nil, false
}
