// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads client configuration.
//
// Configuration comes from, in increasing precedence:
//
//  1. built-in defaults
//  2. a YAML file named by OQES_CONFIG or the --config flag
//  3. OQES_* environment variables
//
// There is no config-file discovery: if no file is named, none is
// read. A .env file in the working directory is loaded into the
// environment first (development convenience), so OQES_API_BASE_URL
// can live there instead of the shell profile.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the quiz server API root used when nothing else
// names one.
const DefaultBaseURL = "http://localhost:8000/api"

// Config is the client configuration.
type Config struct {
	// APIBaseURL is the quiz server's API root.
	APIBaseURL string `yaml:"api_base_url"`

	// SessionFile overrides the credential-store path. Empty selects
	// the well-known default (see session.DefaultPath).
	SessionFile string `yaml:"session_file"`

	// RequestTimeout bounds each API request. Zero means 30s.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Load builds the configuration. path is the --config flag value; when
// empty, the OQES_CONFIG environment variable is consulted. A named
// file that does not exist is an error; naming no file is not.
func Load(path string) (*Config, error) {
	// Development convenience: pull a .env file into the environment.
	// A missing file is the normal case.
	_ = godotenv.Load()

	config := &Config{
		APIBaseURL:     DefaultBaseURL,
		RequestTimeout: 30 * time.Second,
	}

	if path == "" {
		path = os.Getenv("OQES_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		// request_timeout is a duration string ("10s", "1m"), which
		// yaml.v3 cannot decode into time.Duration directly.
		var file struct {
			APIBaseURL     string `yaml:"api_base_url"`
			SessionFile    string `yaml:"session_file"`
			RequestTimeout string `yaml:"request_timeout"`
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		if file.APIBaseURL != "" {
			config.APIBaseURL = file.APIBaseURL
		}
		if file.SessionFile != "" {
			config.SessionFile = file.SessionFile
		}
		if file.RequestTimeout != "" {
			timeout, err := time.ParseDuration(file.RequestTimeout)
			if err != nil {
				return nil, fmt.Errorf("config: parsing request_timeout in %s: %w", path, err)
			}
			config.RequestTimeout = timeout
		}
	}

	if url := os.Getenv("OQES_API_BASE_URL"); url != "" {
		config.APIBaseURL = url
	}
	if file := os.Getenv("OQES_SESSION_FILE"); file != "" {
		config.SessionFile = file
	}

	if config.APIBaseURL == "" {
		return nil, fmt.Errorf("config: api_base_url must not be empty")
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	return config, nil
}
