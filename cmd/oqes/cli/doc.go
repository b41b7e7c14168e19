// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command framework for the oqes binary: the
// command tree with pflag-based flag binding, structured help output,
// typo suggestions, categorized errors with exit codes, and the shared
// application context (config, API client, session manager) that
// commands run against.
package cli
