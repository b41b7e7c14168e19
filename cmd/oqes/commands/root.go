// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the oqes command tree.
package commands

import (
	"fmt"

	"github.com/oqes-foundation/oqes/cmd/oqes/cli"
)

// version is stamped at build time via
// -ldflags "-X .../cmd/oqes/commands.version=v1.2.3".
var version = "dev"

// appParams are the flags shared by every command that talks to the
// server. Embedded into each command's params struct.
type appParams struct {
	ConfigFile string `flag:"config"    desc:"path to a YAML config file (default: $OQES_CONFIG)"`
	BaseURL    string `flag:"base-url"  desc:"quiz server API root (overrides config)"`
	Verbose    bool   `flag:"verbose,v" desc:"enable debug logging"`
}

func (p appParams) newApp() (*cli.App, error) {
	return cli.NewApp(cli.AppOptions{
		ConfigFile: p.ConfigFile,
		BaseURL:    p.BaseURL,
		Verbose:    p.Verbose,
	})
}

// Root builds the oqes command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "oqes",
		Summary: "Terminal client for the OQES quiz platform",
		Description: `oqes is a terminal client for the OQES quiz platform.

Students browse courses, take timed quizzes, and see their scores.
Teachers manage courses and quizzes; quiz content is authored as YAML
files and pushed with "oqes quizzes create/update".

Authenticate once with "oqes login"; the session persists at
~/.config/oqes/session.json (mode 0600) and every later command picks
it up transparently.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			registerCommand(),
			logoutCommand(),
			whoamiCommand(),
			coursesCommand(),
			quizzesCommand(),
			takeCommand(),
			uiCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print the oqes version",
		Run: func(args []string) error {
			fmt.Println("oqes " + version)
			return nil
		},
	}
}
