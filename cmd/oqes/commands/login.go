// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/oqes-foundation/oqes/cmd/oqes/cli"
	"github.com/oqes-foundation/oqes/lib/api"
)

type loginParams struct {
	appParams
	Role         string `flag:"role"          desc:"account role: student or teacher" default:"student"`
	PasswordFile string `flag:"password-file" desc:"path to a file containing the password, or - to prompt interactively (default: prompt)"`
}

func loginCommand() *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate and save the session locally",
		Description: `Log in to the quiz server and save the session locally.

After login, every other command uses the saved session transparently.
The session file is stored at ~/.config/oqes/session.json (or
$OQES_SESSION_FILE if set, or $XDG_CONFIG_HOME/oqes/session.json),
written with mode 0600 since it contains the access token.

The password can be provided via --password-file or prompted
interactively if --password-file is "-" or omitted.`,
		Usage: "oqes login <username> [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively (prompts for password)",
				Command:     "oqes login alice",
			},
			{
				Description: "Log in as a teacher with password from a file",
				Command:     "oqes login carol --role teacher --password-file /run/secrets/oqes",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("login", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return cli.Validation("username is required\n\nUsage: oqes login <username> [flags]")
			}
			username := args[0]
			if len(args) > 1 {
				return cli.Validation("unexpected argument: %s", args[1])
			}
			role, err := parseRole(params.Role)
			if err != nil {
				return err
			}

			app, err := params.newApp()
			if err != nil {
				return err
			}

			password, err := cli.ReadPassword(params.PasswordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			ctx := context.Background()
			if err := app.Manager.Login(ctx, username, password, role); err != nil {
				return cli.WrapAPI("login failed", err)
			}

			user := app.Manager.User()
			fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", user.Username, user.Role)
			fmt.Fprintf(os.Stderr, "Session saved to %s\n", app.Store.Path())
			return nil
		},
	}
}

func parseRole(value string) (api.Role, error) {
	switch api.Role(value) {
	case api.RoleStudent:
		return api.RoleStudent, nil
	case api.RoleTeacher:
		return api.RoleTeacher, nil
	default:
		return "", cli.Validation("invalid role %q (expected student or teacher)", value)
	}
}
