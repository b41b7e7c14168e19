// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

// Package api is a typed client for the OQES quiz server's REST API.
//
// Client is the unauthenticated entry point: it holds the base URL and
// HTTP transport and serves the token and registration endpoints.
// Session wraps a Client with an access token for the authenticated
// surface (profile, courses, quizzes, submission). The bearer token is
// attached in exactly one place, the request helper, never at call
// sites, and lives in a secret.Buffer rather than a heap string.
//
// Outgoing payloads are validated locally with go-playground/validator
// before any request is issued; a failed validation is a
// *ValidationError and never reaches the network. Non-2xx responses
// decode into *Error, which carries the HTTP status and the server's
// detail message and is extractable with errors.As.
//
// Incoming question payloads are checked against their declared kind
// (multiple choice, true/false, identification) at the decode boundary:
// a true/false question with three choices is a malformed payload, not
// a shape to be trusted downstream.
package api
