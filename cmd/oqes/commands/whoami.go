// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/oqes-foundation/oqes/cmd/oqes/cli"
)

type whoamiParams struct {
	appParams
}

func whoamiCommand() *cli.Command {
	var params whoamiParams

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the logged-in user",
		Description: `Show the user the saved session belongs to.

Exits 1 when no one is logged in, so scripts can use it as a session
probe without parsing output.`,
		Usage: "oqes whoami [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("whoami", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			app, err := params.newApp()
			if err != nil {
				return err
			}

			app.Manager.Restore(context.Background())
			user := app.Manager.User()
			if user == nil {
				fmt.Fprintln(os.Stderr, "not logged in")
				return &cli.ExitError{Code: 1}
			}

			fmt.Printf("%s (%s)\n", user.Username, user.Role)
			if user.Email != "" {
				fmt.Printf("email: %s\n", user.Email)
			}
			fmt.Printf("session: %s\n", app.Store.Path())
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	var params struct {
		appParams
	}

	return &cli.Command{
		Name:    "logout",
		Summary: "Discard the saved session",
		Usage:   "oqes logout",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("logout", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			app, err := params.newApp()
			if err != nil {
				return err
			}

			app.Manager.Restore(context.Background())
			app.Manager.Logout()
			fmt.Fprintln(os.Stderr, "logged out")
			return nil
		},
	}
}
