// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oqes-foundation/oqes/lib/api"
)

// ErrorCategory classifies command errors so that scripts wrapping the
// CLI can make decisions (retry, fix input, re-authenticate) from the
// exit code without parsing error message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing arguments, unparseable values. Fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryAuth indicates the session is missing, expired, or lacks
	// the role the operation requires. Re-authenticate.
	CategoryAuth ErrorCategory = "auth"

	// CategoryNotFound indicates a referenced resource does not exist:
	// unknown course or quiz ID. Retrying with the same parameters
	// will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient indicates a temporary failure: network error,
	// timeout, server-side 5xx. Back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, malformed data the system produced.
	CategoryInternal ErrorCategory = "internal"
)

// exitCode maps a category to the process exit code.
func (c ErrorCategory) exitCode() int {
	switch c {
	case CategoryValidation:
		return 2
	case CategoryAuth:
		return 3
	case CategoryNotFound:
		return 4
	case CategoryTransient:
		return 5
	default:
		return 1
	}
}

// CommandError is a categorized error returned by command handlers.
// It wraps an inner error, preserving the chain for errors.Is and
// errors.As, and adds the category used to pick the exit code.
type CommandError struct {
	Category ErrorCategory
	Err      error
}

// Error returns the underlying error message. The category travels
// through the exit code, not the text.
func (e *CommandError) Error() string { return e.Err.Error() }

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode satisfies the interface main checks on returned errors.
func (e *CommandError) ExitCode() int { return e.Category.exitCode() }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Auth creates an auth error: no session, or the session was rejected.
func Auth(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryAuth, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may
// succeed on retry.
func Transient(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or
// I/O error.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// WrapAPI categorizes an error from the API layer by its HTTP status.
// Non-API errors (transport failures, timeouts) classify as transient.
func WrapAPI(operation string, err error) *CommandError {
	category := CategoryTransient

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			category = CategoryAuth
		case apiErr.StatusCode == http.StatusNotFound:
			category = CategoryNotFound
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
			category = CategoryValidation
		}
	}
	var validationErr *api.ValidationError
	if errors.As(err, &validationErr) {
		category = CategoryValidation
	}

	return &CommandError{Category: category, Err: fmt.Errorf("%s: %w", operation, err)}
}
