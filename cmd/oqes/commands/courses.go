// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/oqes-foundation/oqes/cmd/oqes/cli"
	"github.com/oqes-foundation/oqes/lib/api"
)

func coursesCommand() *cli.Command {
	return &cli.Command{
		Name:    "courses",
		Summary: "List and manage courses",
		Subcommands: []*cli.Command{
			coursesListCommand(),
			coursesCreateCommand(),
			coursesUpdateCommand(),
			coursesDeleteCommand(),
		},
	}
}

func coursesListCommand() *cli.Command {
	var params struct {
		appParams
	}

	return &cli.Command{
		Name:    "list",
		Summary: "List available courses",
		Usage:   "oqes courses list [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("courses list", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			app, err := params.newApp()
			if err != nil {
				return err
			}
			ctx := context.Background()
			apiSession, err := app.RequireSession(ctx)
			if err != nil {
				return err
			}

			courses, err := apiSession.Courses(ctx)
			if err != nil {
				return cli.WrapAPI("listing courses", err)
			}
			if len(courses) == 0 {
				fmt.Fprintln(os.Stderr, "no courses")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tDESCRIPTION")
			for _, course := range courses {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", course.ID, course.Title, firstLine(course.Description))
			}
			return tw.Flush()
		},
	}
}

func coursesCreateCommand() *cli.Command {
	var params struct {
		appParams
		Description string `flag:"description,d" desc:"course description (markdown)"`
	}

	return &cli.Command{
		Name:    "create",
		Summary: "Create a course (teachers only)",
		Usage:   "oqes courses create <title> [flags]",
		Examples: []cli.Example{
			{
				Description: "Create a course with a description",
				Command:     `oqes courses create "Networking" -d "Subnets, routing, and friends"`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("courses create", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("exactly one title argument is required\n\nUsage: oqes courses create <title> [flags]")
			}
			app, err := params.newApp()
			if err != nil {
				return err
			}
			ctx := context.Background()
			apiSession, err := app.RequireSession(ctx)
			if err != nil {
				return err
			}

			course, err := apiSession.CreateCourse(ctx, api.CoursePayload{
				Title:       args[0],
				Description: params.Description,
			})
			if err != nil {
				return cli.WrapAPI("creating course", err)
			}
			fmt.Printf("created course %d: %s\n", course.ID, course.Title)
			return nil
		},
	}
}

func coursesUpdateCommand() *cli.Command {
	var params struct {
		appParams
		Title       string `flag:"title,t"       desc:"new course title"`
		Description string `flag:"description,d" desc:"new course description (markdown)"`
	}

	return &cli.Command{
		Name:    "update",
		Summary: "Update a course's title or description (teachers only)",
		Usage:   "oqes courses update <course-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("courses update", &params)
		},
		Run: func(args []string) error {
			courseID, err := idArg(args, "course-id")
			if err != nil {
				return err
			}
			if params.Title == "" && params.Description == "" {
				return cli.Validation("nothing to update (set --title or --description)")
			}
			app, err := params.newApp()
			if err != nil {
				return err
			}
			ctx := context.Background()
			apiSession, err := app.RequireSession(ctx)
			if err != nil {
				return err
			}

			course, err := apiSession.UpdateCourse(ctx, courseID, api.CoursePayload{
				Title:       params.Title,
				Description: params.Description,
			})
			if err != nil {
				return cli.WrapAPI("updating course", err)
			}
			fmt.Printf("updated course %d: %s\n", course.ID, course.Title)
			return nil
		},
	}
}

func coursesDeleteCommand() *cli.Command {
	var params struct {
		appParams
		Yes bool `flag:"yes,y" desc:"skip the confirmation prompt"`
	}

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a course and all its quizzes (teachers only)",
		Usage:   "oqes courses delete <course-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("courses delete", &params)
		},
		Run: func(args []string) error {
			courseID, err := idArg(args, "course-id")
			if err != nil {
				return err
			}
			if !params.Yes && !confirmOnTerminal(fmt.Sprintf("Delete course %d and all its quizzes?", courseID)) {
				fmt.Fprintln(os.Stderr, "aborted")
				return nil
			}
			app, err := params.newApp()
			if err != nil {
				return err
			}
			ctx := context.Background()
			apiSession, err := app.RequireSession(ctx)
			if err != nil {
				return err
			}

			if err := apiSession.DeleteCourse(ctx, courseID); err != nil {
				return cli.WrapAPI("deleting course", err)
			}
			fmt.Printf("deleted course %d\n", courseID)
			return nil
		},
	}
}

// idArg parses the single positional numeric ID every mutation command
// takes.
func idArg(args []string, name string) (int64, error) {
	if len(args) != 1 {
		return 0, cli.Validation("exactly one <%s> argument is required", name)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Validation("invalid %s %q (expected a positive integer)", name, args[0])
	}
	return id, nil
}

// confirmOnTerminal asks a y/N question on stderr and reads one line
// from stdin. Anything but an explicit "y" answers no. A non-terminal
// stdin answers no, so scripts must pass --yes.
func confirmOnTerminal(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y"
}

// firstLine truncates multi-line descriptions for table output.
func firstLine(text string) string {
	for index, r := range text {
		if r == '\n' {
			return text[:index] + "…"
		}
	}
	return text
}
