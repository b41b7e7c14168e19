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

type registerParams struct {
	appParams
	Role         string `flag:"role"          desc:"account role: student or teacher" default:"student"`
	Email        string `flag:"email"         desc:"email address (optional)"`
	PasswordFile string `flag:"password-file" desc:"path to a file containing the password, or - to prompt interactively (default: prompt)"`
}

func registerCommand() *cli.Command {
	var params registerParams

	return &cli.Command{
		Name:    "register",
		Summary: "Create an account and log in",
		Description: `Create a new account on the quiz server.

On success the new account is logged in immediately and the session is
saved, same as "oqes login". If any step after account creation fails,
nothing is persisted.`,
		Usage: "oqes register <username> [flags]",
		Examples: []cli.Example{
			{
				Description: "Register a student account",
				Command:     "oqes register alice --email alice@example.com",
			},
			{
				Description: "Register a teacher account",
				Command:     "oqes register carol --role teacher",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("register", &params)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return cli.Validation("username is required\n\nUsage: oqes register <username> [flags]")
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

			payload := api.RegisterPayload{
				Username: username,
				Email:    params.Email,
				Role:     role,
			}
			if err := app.Manager.Register(context.Background(), payload, password); err != nil {
				return cli.WrapAPI("registration failed", err)
			}

			user := app.Manager.User()
			fmt.Fprintf(os.Stderr, "Registered and logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
}
