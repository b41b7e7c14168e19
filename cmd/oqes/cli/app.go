// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/term"

	"github.com/oqes-foundation/oqes/lib/api"
	"github.com/oqes-foundation/oqes/lib/config"
	"github.com/oqes-foundation/oqes/lib/secret"
	"github.com/oqes-foundation/oqes/lib/session"
)

// App is the shared context command handlers run against: loaded
// configuration plus the API client and session manager built from it.
// Constructed once per invocation by the root command.
type App struct {
	Config  *config.Config
	Client  *api.Client
	Store   *session.Store
	Manager *session.Manager
	Logger  *slog.Logger
}

// AppOptions are the root-level flags that shape the App.
type AppOptions struct {
	ConfigFile string
	BaseURL    string
	Verbose    bool
}

// NewApp loads configuration and wires the client, store, and manager.
func NewApp(options AppOptions) (*App, error) {
	cfg, err := config.Load(options.ConfigFile)
	if err != nil {
		return nil, Validation("loading config: %v", err)
	}
	if options.BaseURL != "" {
		cfg.APIBaseURL = options.BaseURL
	}

	logger := NewCommandLogger(options.Verbose)

	client, err := api.NewClient(api.ClientConfig{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, Validation("creating API client: %v", err)
	}

	store := session.NewStore(cfg.SessionFile)
	return &App{
		Config:  cfg,
		Client:  client,
		Store:   store,
		Manager: session.NewManager(client, store, logger),
		Logger:  logger,
	}, nil
}

// RequireSession restores the persisted session and fails with an auth
// error when no one is logged in.
func (app *App) RequireSession(ctx context.Context) (*api.Session, error) {
	app.Manager.Restore(ctx)
	apiSession, err := app.Manager.RequireAPI()
	if err != nil {
		return nil, Auth("not logged in (run 'oqes login' first)")
	}
	return apiSession, nil
}

// NewCommandLogger creates a structured logger for command operations.
// When stderr is a terminal, uses slog.TextHandler for human-readable
// output. When stderr is piped or redirected (CI, scripts), uses
// slog.JSONHandler for machine-parseable output.
func NewCommandLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// ReadPassword reads a password for login and registration. If
// passwordFile is empty or "-", prompts interactively on the terminal
// with echo disabled. Otherwise reads from the file path.
func ReadPassword(passwordFile string) (*secret.Buffer, error) {
	if passwordFile != "" && passwordFile != "-" {
		return readSecretFile(passwordFile)
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return nil, Validation("no terminal available for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, Internal("reading password: %v", err)
	}

	buffer, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return nil, err
	}
	return buffer, nil
}

// readSecretFile reads a secret from a file path into a secret.Buffer.
// Strips trailing newlines (common with echo/printf pipelines).
func readSecretFile(path string) (*secret.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Internal("reading %s: %v", path, err)
	}

	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}

	if len(data) == 0 {
		secret.Zero(data)
		return nil, Validation("file %s is empty (after stripping trailing newlines)", path)
	}

	buffer, err := secret.NewFromBytes(data)
	if err != nil {
		secret.Zero(data)
		return nil, err
	}
	return buffer, nil
}
