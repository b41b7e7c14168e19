// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OQES_CONFIG", "")
	t.Setenv("OQES_API_BASE_URL", "")
	t.Setenv("OQES_SESSION_FILE", "")

	config, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.APIBaseURL != DefaultBaseURL {
		t.Errorf("APIBaseURL = %q, want default", config.APIBaseURL)
	}
	if config.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", config.RequestTimeout)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("OQES_API_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "oqes.yaml")
	content := "api_base_url: https://quiz.example.edu/api\nrequest_timeout: 10s\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.APIBaseURL != "https://quiz.example.edu/api" {
		t.Errorf("APIBaseURL = %q", config.APIBaseURL)
	}
	if config.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", config.RequestTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oqes.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: https://file.example/api\n"), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("OQES_API_BASE_URL", "https://env.example/api")

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.APIBaseURL != "https://env.example/api" {
		t.Errorf("APIBaseURL = %q, want env override", config.APIBaseURL)
	}
}

func TestLoadMissingNamedFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a named file that does not exist")
	}
}
