// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/oqes-foundation/oqes/cmd/oqes/cli"
	"github.com/oqes-foundation/oqes/lib/quizui"
)

func takeCommand() *cli.Command {
	var params struct {
		appParams
	}

	return &cli.Command{
		Name:    "take",
		Summary: "Take a timed quiz (students only)",
		Description: `Start a timed attempt at a quiz in the terminal UI.

The countdown starts the moment the quiz loads. Answers can be changed
freely while time remains; the attempt submits when you press s or when
the timer reaches zero, whichever comes first, and the score is shown.`,
		Usage: "oqes take <quiz-id> [flags]",
		Examples: []cli.Example{
			{Command: "oqes take 42"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("take", &params)
		},
		Run: func(args []string) error {
			quizID, err := idArg(args, "quiz-id")
			if err != nil {
				return err
			}
			app, err := params.newApp()
			if err != nil {
				return err
			}
			return runUI(app, quizID)
		},
	}
}

func uiCommand() *cli.Command {
	var params struct {
		appParams
	}

	return &cli.Command{
		Name:    "ui",
		Summary: "Open the full terminal UI",
		Description: `Open the terminal UI: browse courses and quizzes, take quizzes as a
student, or manage them as a teacher. Prompts for login when no session
is saved.`,
		Usage: "oqes ui [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("ui", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			app, err := params.newApp()
			if err != nil {
				return err
			}
			return runUI(app, 0)
		},
	}
}

// runUI starts the bubbletea program, jumping straight into an attempt
// when startQuiz is nonzero.
func runUI(app *cli.App, startQuiz int64) error {
	model := quizui.New(quizui.Config{
		Manager:   app.Manager,
		Logger:    app.Logger,
		StartQuiz: startQuiz,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return cli.Internal("terminal UI: %v", err)
	}
	return nil
}
