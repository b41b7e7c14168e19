// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oqes-foundation/oqes/lib/api"
)

// Store persists the credential pair between runs. The backing file is
// JSON with "access" and "refresh" fields, written with mode 0600
// (owner-only) since it contains live tokens. Absence of the file, or
// of either token inside it, is treated as "no session".
//
// Access is last-writer-wins; concurrent processes sharing the file get
// no consistency guarantees.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path. An empty path
// selects the default location (see DefaultPath).
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// DefaultPath returns the well-known credential file location. Checks
// the OQES_SESSION_FILE environment variable first, then falls back to
// $XDG_CONFIG_HOME/oqes/session.json or ~/.config/oqes/session.json.
func DefaultPath() string {
	if envPath := os.Getenv("OQES_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback path, rarely taken.
			return filepath.Join("/tmp", "oqes-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "oqes", "session.json")
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the stored credential pair. ok is false when no usable
// pair exists (missing file, unreadable file, or incomplete tokens)
// which callers treat as "no session" rather than an error.
func (s *Store) Load() (tokens api.TokenPair, ok bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return api.TokenPair{}, false
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return api.TokenPair{}, false
	}
	if !tokens.Complete() {
		return api.TokenPair{}, false
	}
	return tokens, true
}

// Save writes the credential pair. Creates the parent directory with
// mode 0700 if it doesn't exist.
func (s *Store) Save(tokens api.TokenPair) error {
	if !tokens.Complete() {
		return fmt.Errorf("session: refusing to persist incomplete token pair")
	}

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshaling tokens: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("session: creating directory %s: %w", directory, err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("session: writing %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the stored credential pair. Removing an already-absent
// file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: removing %s: %w", s.path, err)
	}
	return nil
}
