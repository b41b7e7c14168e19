// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-success response from the quiz server. Callers use
// errors.As to extract the structured information:
//
//	var apiErr *api.Error
//	if errors.As(err, &apiErr) {
//	    if apiErr.StatusCode == http.StatusUnauthorized { ... }
//	}
type Error struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Detail is the server's human-readable error description, from
	// the "detail" field of the error body when present, else the raw
	// body.
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, statusCode int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}
	return false
}

// IsAuthRejection reports whether err is a 401 or 403, meaning the
// credential was rejected rather than the request being malformed or
// the server unreachable.
func IsAuthRejection(err error) bool {
	return IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden)
}

// ValidationError is a locally-rejected payload: the input failed
// client-side checks and no request was issued.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("api: invalid payload: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
