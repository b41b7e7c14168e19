// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "oqes",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "whoami",
				Run: func(args []string) error {
					called = "whoami"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"whoami"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "whoami" {
		t.Errorf("dispatched to %q, want %q", called, "whoami")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "oqes",
		Subcommands: []*Command{
			{
				Name: "quizzes",
				Subcommands: []*Command{
					{
						Name: "list",
						Run: func(args []string) error {
							called = "quizzes list"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"quizzes", "list", "extra-arg"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "quizzes list" {
		t.Errorf("dispatched to %q, want %q", called, "quizzes list")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra-arg" {
		t.Errorf("args = %v, want [extra-arg]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var courseID int64
	var target string

	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.Int64Var(&courseID, "course", 0, "course ID")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--course", "42", "positional"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if courseID != 42 {
		t.Errorf("courseID = %d, want 42", courseID)
	}
	if target != "positional" {
		t.Errorf("target = %q, want positional", target)
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "oqes",
		Subcommands: []*Command{
			{Name: "courses", Run: func([]string) error { return nil }},
			{Name: "quizzes", Run: func([]string) error { return nil }},
		},
	}

	err := root.Execute([]string{"quizes"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "quizzes"`) {
		t.Errorf("error %q should suggest quizzes", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.String("course", "", "course ID")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--cours", "10"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--course") {
		t.Errorf("error %q should suggest --course", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "oqes",
		Subcommands: []*Command{
			{Name: "courses", Run: func([]string) error { return nil }},
		},
	}

	if err := root.Execute(nil); err == nil {
		t.Error("expected error when no subcommand given")
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "oqes",
		Summary:     "Terminal client",
		Description: "oqes is a terminal client for the quiz platform.",
		Subcommands: []*Command{
			{Name: "login", Summary: "Authenticate"},
			{Name: "take", Summary: "Take a quiz"},
		},
		Examples: []Example{
			{Description: "Take quiz 42", Command: "oqes take 42"},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"oqes is a terminal client",
		"login",
		"Authenticate",
		"take",
		"oqes take 42",
		"Run 'oqes <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"quiz", "quiz", 0},
		{"quizes", "quizzes", 1},
		{"corses", "courses", 1},
		{"login", "logout", 3},
		{"abc", "", 3},
	}
	for _, testCase := range cases {
		if got := levenshtein(testCase.a, testCase.b); got != testCase.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d",
				testCase.a, testCase.b, got, testCase.want)
		}
	}
}
