// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns authentication state for the quiz client: the
// current user, the credential pair, and the bootstrap/login/register/
// logout lifecycle.
//
// The Manager is an explicitly-owned object injected into the parts of
// the system that need it (the view layer's route guard, the CLI
// commands); there is no package-level session singleton. It is
// created once at startup, bootstrapped with Restore, and reset by
// Logout.
//
// Restore never fails outward: any problem restoring a persisted
// credential (missing file, expired token, unreachable server)
// degrades to the anonymous Ready state, clearing stale storage along
// the way. Login and Register, by contrast, surface their failures as
// *AuthError, and both roll back a partially-persisted credential if
// the follow-up profile fetch fails, so a credential is only ever
// retained alongside the user it was validated for.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oqes-foundation/oqes/lib/api"
	"github.com/oqes-foundation/oqes/lib/secret"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusUninitialized is the state before Restore runs.
	StatusUninitialized Status = iota
	// StatusLoading means Restore is attempting to validate a
	// persisted credential. Views render a loading indicator and
	// block navigation.
	StatusLoading
	// StatusReady means bootstrap finished, with or without a user.
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// AuthError is a failed login or registration: rejected credentials, an
// incomplete token response, or a profile fetch that failed after a
// nominally successful token exchange.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// Manager owns the session. All state transitions go through its
// mutex; the invariant throughout is that user is non-nil exactly when
// a validated API session is held.
type Manager struct {
	client *api.Client
	store  *Store
	logger *slog.Logger

	mu         sync.Mutex
	status     Status
	user       *api.User
	apiSession *api.Session
}

// NewManager creates a Manager in the Uninitialized state. Call Restore
// once at startup before consulting Status or User.
func NewManager(client *api.Client, store *Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client: client,
		store:  store,
		logger: logger,
		status: StatusUninitialized,
	}
}

// Restore bootstraps the session from persisted storage. Invoked once
// at startup. Never returns an error: every failure path degrades to
// the anonymous Ready state, purging stale storage when the stored
// credential no longer validates.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	m.status = StatusLoading
	m.mu.Unlock()

	tokens, ok := m.store.Load()
	if !ok {
		m.becomeAnonymous()
		return
	}

	apiSession, err := m.client.SessionFromToken(tokens.Access)
	if err != nil {
		m.logger.Debug("session restore: protecting token failed", "error", err)
		m.becomeAnonymous()
		return
	}

	user, err := apiSession.CurrentUser(ctx)
	if err != nil {
		// Expired or invalid credential: purge and degrade silently.
		m.logger.Info("session restore: stored credential rejected", "error", err)
		apiSession.Close()
		if clearErr := m.store.Clear(); clearErr != nil {
			m.logger.Warn("session restore: clearing stale credential failed", "error", clearErr)
		}
		m.becomeAnonymous()
		return
	}

	m.mu.Lock()
	m.status = StatusReady
	m.user = user
	m.apiSession = apiSession
	m.mu.Unlock()
	m.logger.Info("session restored", "username", user.Username, "role", user.Role)
}

// Login exchanges credentials for a token pair, persists it, and
// fetches the profile. If the profile fetch fails after a successful
// token exchange, the just-persisted credential is rolled back and an
// *AuthError is returned, same policy as Register.
func (m *Manager) Login(ctx context.Context, username string, password *secret.Buffer, role api.Role) error {
	tokens, err := m.client.Login(ctx, username, password, role)
	if err != nil {
		return &AuthError{Reason: "login rejected", Err: err}
	}
	if !tokens.Complete() {
		return &AuthError{Reason: "incomplete tokens"}
	}
	return m.adopt(ctx, tokens)
}

// Register creates an account, persists the returned credential pair,
// and fetches the profile. A response missing either token fails with
// AuthError("incomplete tokens") and persists nothing. A profile-fetch
// failure purges the just-persisted credential and re-signals the
// failure (strict rollback).
func (m *Manager) Register(ctx context.Context, params api.RegisterPayload, password *secret.Buffer) error {
	tokens, err := m.client.Register(ctx, params, password)
	if err != nil {
		return &AuthError{Reason: "registration rejected", Err: err}
	}
	if !tokens.Complete() {
		return &AuthError{Reason: "incomplete tokens"}
	}
	return m.adopt(ctx, tokens)
}

// adopt persists a freshly-minted token pair, validates it by fetching
// the profile, and swaps the session to the fetched user. On profile
// failure the persisted pair is rolled back and the session left
// untouched (no partial writes).
func (m *Manager) adopt(ctx context.Context, tokens api.TokenPair) error {
	if err := m.store.Save(tokens); err != nil {
		return &AuthError{Reason: "persisting credential", Err: err}
	}

	apiSession, err := m.client.SessionFromToken(tokens.Access)
	if err != nil {
		m.rollback()
		return &AuthError{Reason: "protecting credential", Err: err}
	}

	user, err := apiSession.CurrentUser(ctx)
	if err != nil {
		apiSession.Close()
		m.rollback()
		return &AuthError{Reason: "profile fetch after token exchange", Err: err}
	}

	m.mu.Lock()
	previous := m.apiSession
	m.status = StatusReady
	m.user = user
	m.apiSession = apiSession
	m.mu.Unlock()
	if previous != nil {
		previous.Close()
	}

	m.logger.Info("authenticated", "username", user.Username, "role", user.Role)
	return nil
}

// rollback purges a credential that was persisted but never validated.
func (m *Manager) rollback() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("rolling back persisted credential failed", "error", err)
	}
}

// Logout purges the persisted credential and resets the in-memory
// session to anonymous. Synchronous, cannot fail (a storage error is
// logged, not surfaced; the in-memory reset always happens).
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("logout: clearing credential store failed", "error", err)
	}
	m.becomeAnonymous()
	m.logger.Info("logged out")
}

// becomeAnonymous resets to Ready with no user, closing any held API
// session.
func (m *Manager) becomeAnonymous() {
	m.mu.Lock()
	previous := m.apiSession
	m.status = StatusReady
	m.user = nil
	m.apiSession = nil
	m.mu.Unlock()
	if previous != nil {
		previous.Close()
	}
}

// Status returns the lifecycle state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// User returns the authenticated user's profile snapshot, or nil when
// anonymous or not yet Ready.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// API returns the authenticated API session, or nil when anonymous.
// The Manager retains ownership; callers must not Close it.
func (m *Manager) API() *api.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apiSession
}

// RequireAPI returns the authenticated API session or an error
// directing the user to log in. Convenience for CLI commands.
func (m *Manager) RequireAPI() (*api.Session, error) {
	if apiSession := m.API(); apiSession != nil {
		return apiSession, nil
	}
	return nil, errors.New("session: not logged in; run \"oqes login\" first")
}
