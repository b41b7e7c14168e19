// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oqes-foundation/oqes/lib/secret"
)

// maxResponseBytes bounds how much of a response body is read. Quiz
// detail payloads are small; anything larger is a misbehaving server.
const maxResponseBytes = 4 << 20

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the quiz server's API root (e.g., "http://localhost:8000/api").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is an unauthenticated quiz-server client. It holds the base
// URL and HTTP transport, shared across Sessions, and serves the two
// endpoints that mint tokens.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	validate   *validator.Validate
}

// NewClient creates a new unauthenticated client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api: BaseURL %q must be http or https", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Login exchanges credentials for a token pair via POST /token/.
// The password Buffer is read but not closed; the caller retains
// ownership. The payload is validated locally before any request.
func (c *Client) Login(ctx context.Context, username string, password *secret.Buffer, role Role) (TokenPair, error) {
	if password == nil {
		return TokenPair{}, &ValidationError{Err: fmt.Errorf("password is required")}
	}

	// Password becomes a heap string only at the JSON serialization
	// boundary; the copy is short-lived.
	payload := LoginPayload{
		Username: username,
		Password: password.String(),
		Role:     role,
	}
	if err := c.validate.Struct(payload); err != nil {
		return TokenPair{}, &ValidationError{Err: err}
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/token/", nil, payload)
	if err != nil {
		return TokenPair{}, fmt.Errorf("api: login failed: %w", err)
	}

	var tokens TokenPair
	if err := json.Unmarshal(body, &tokens); err != nil {
		return TokenPair{}, fmt.Errorf("api: failed to parse token response: %w", err)
	}

	c.logger.Info("logged in", "username", username, "role", role)
	return tokens, nil
}

// Register creates an account via POST /register/. The response may
// include a user object alongside the tokens; it is ignored, and the
// profile is always fetched fresh from /users/me/ afterward.
func (c *Client) Register(ctx context.Context, params RegisterPayload, password *secret.Buffer) (TokenPair, error) {
	if password == nil {
		return TokenPair{}, &ValidationError{Err: fmt.Errorf("password is required")}
	}
	params.Password = password.String()
	if err := c.validate.Struct(params); err != nil {
		return TokenPair{}, &ValidationError{Err: err}
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/register/", nil, params)
	if err != nil {
		return TokenPair{}, fmt.Errorf("api: registration failed: %w", err)
	}

	var tokens TokenPair
	if err := json.Unmarshal(body, &tokens); err != nil {
		return TokenPair{}, fmt.Errorf("api: failed to parse register response: %w", err)
	}

	c.logger.Info("registered account", "username", params.Username, "role", params.Role)
	return tokens, nil
}

// SessionFromToken creates a Session from an existing access token
// string. The token is moved into mmap-backed memory; the original
// string remains on the heap briefly until collected.
//
// This does NOT validate the token; the first API call fails if it is
// invalid. The caller must Close the returned Session when done.
func (c *Client) SessionFromToken(accessToken string) (*Session, error) {
	buffer, err := secret.NewFromString(accessToken)
	if err != nil {
		return nil, fmt.Errorf("api: protecting access token: %w", err)
	}
	return &Session{client: c, accessToken: buffer}, nil
}

// doRequest performs an HTTP request against the API root and returns
// the response body. On 2xx, returns the body. On 4xx/5xx, returns a
// *Error. accessToken may be nil for unauthenticated endpoints; query
// may be nil for endpoints without query parameters.
func (c *Client) doRequest(ctx context.Context, method, path string, accessToken *secret.Buffer, requestBody any, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil {
		requestURL += "?" + query[0].Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("api: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("api: failed to create request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if accessToken != nil {
		request.Header.Set("Authorization", "Bearer "+accessToken.String())
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("api: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// DRF-style error bodies carry a top-level "detail" field. Fall
	// back to the raw body for anything else.
	var detail struct {
		Detail string `json:"detail"`
	}
	apiErr := &Error{StatusCode: response.StatusCode}
	if jsonErr := json.Unmarshal(responseBody, &detail); jsonErr == nil && detail.Detail != "" {
		apiErr.Detail = detail.Detail
	} else {
		apiErr.Detail = strings.TrimSpace(string(responseBody))
	}
	return nil, apiErr
}
