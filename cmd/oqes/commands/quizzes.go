// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/oqes-foundation/oqes/cmd/oqes/cli"
	"github.com/oqes-foundation/oqes/lib/api"
	"github.com/oqes-foundation/oqes/lib/attempt"
)

func quizzesCommand() *cli.Command {
	return &cli.Command{
		Name:    "quizzes",
		Summary: "List and manage quizzes",
		Subcommands: []*cli.Command{
			quizzesListCommand(),
			quizzesShowCommand(),
			quizzesCreateCommand(),
			quizzesExportCommand(),
			quizzesUpdateCommand(),
			quizzesDeleteCommand(),
		},
	}
}

// quizFile is the YAML document teachers author quizzes in. It maps
// onto the create/patch payload; "correct: true" marks the right
// choice.
type quizFile struct {
	Title           string             `yaml:"title"`
	Course          int64              `yaml:"course"`
	Description     string             `yaml:"description,omitempty"`
	DurationMinutes int                `yaml:"duration_minutes"`
	Questions       []quizFileQuestion `yaml:"questions"`
}

type quizFileQuestion struct {
	Kind    string           `yaml:"kind"`
	Text    string           `yaml:"text"`
	Choices []quizFileChoice `yaml:"choices"`
}

type quizFileChoice struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct,omitempty"`
}

func (f *quizFile) payload() api.QuizPayload {
	payload := api.QuizPayload{
		Title:           f.Title,
		Course:          f.Course,
		Description:     f.Description,
		DurationMinutes: f.DurationMinutes,
	}
	for _, question := range f.Questions {
		questionPayload := api.QuestionPayload{
			Kind: api.QuestionKind(question.Kind),
			Text: question.Text,
		}
		for _, choice := range question.Choices {
			questionPayload.Choices = append(questionPayload.Choices, api.ChoicePayload{
				Text:      choice.Text,
				IsCorrect: choice.Correct,
			})
		}
		payload.Questions = append(payload.Questions, questionPayload)
	}
	return payload
}

func loadQuizFile(path string) (*quizFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cli.Validation("reading %s: %v", path, err)
	}
	var file quizFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, cli.Validation("parsing %s: %v", path, err)
	}
	return &file, nil
}

func quizzesListCommand() *cli.Command {
	var params struct {
		appParams
		Course int64 `flag:"course,c" desc:"course ID to list quizzes for (required)"`
	}

	return &cli.Command{
		Name:    "list",
		Summary: "List a course's quizzes",
		Usage:   "oqes quizzes list --course <course-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("quizzes list", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Course <= 0 {
				return cli.Validation("--course is required")
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

			quizzes, err := apiSession.QuizzesByCourse(ctx, params.Course)
			if err != nil {
				return cli.WrapAPI("listing quizzes", err)
			}
			if len(quizzes) == 0 {
				fmt.Fprintln(os.Stderr, "no quizzes in this course")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tDURATION")
			for _, quiz := range quizzes {
				fmt.Fprintf(tw, "%d\t%s\t%d min\n", quiz.ID, quiz.Title, quiz.DurationMinutes)
			}
			return tw.Flush()
		},
	}
}

func quizzesShowCommand() *cli.Command {
	var params struct {
		appParams
	}

	return &cli.Command{
		Name:    "show",
		Summary: "Show a quiz's questions",
		Usage:   "oqes quizzes show <quiz-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("quizzes show", &params)
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
			ctx := context.Background()
			apiSession, err := app.RequireSession(ctx)
			if err != nil {
				return err
			}

			detail, err := apiSession.QuizDetail(ctx, quizID)
			if err != nil {
				return cli.WrapAPI("fetching quiz", err)
			}

			fmt.Printf("%s (%s, %d questions)\n", detail.Title,
				attempt.FormatClock(detail.DurationMinutes*60), len(detail.Questions))
			if detail.Description != "" {
				fmt.Printf("\n%s\n", detail.Description)
			}
			for index, question := range detail.Questions {
				fmt.Printf("\n%d. [%s] %s\n", index+1, question.Kind, question.Text)
				for _, choice := range question.Choices {
					fmt.Printf("   - %s\n", choice.Text)
				}
			}
			return nil
		},
	}
}

func quizzesCreateCommand() *cli.Command {
	var params struct {
		appParams
		File string `flag:"file,f" desc:"path to the quiz YAML file (required)"`
	}

	return &cli.Command{
		Name:    "create",
		Summary: "Create a quiz from a YAML file (teachers only)",
		Description: `Create a quiz from a YAML definition.

The file names the course, the duration, and the questions:

  title: Subnetting basics
  course: 10
  duration_minutes: 15
  questions:
    - kind: multiple_choice
      text: How many hosts fit in a /26?
      choices:
        - text: "62"
          correct: true
        - text: "64"
        - text: "126"`,
		Usage: "oqes quizzes create --file <quiz.yaml> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("quizzes create", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.File == "" {
				return cli.Validation("--file is required")
			}
			file, err := loadQuizFile(params.File)
			if err != nil {
				return err
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

			quiz, err := apiSession.CreateQuiz(ctx, file.payload())
			if err != nil {
				return cli.WrapAPI("creating quiz", err)
			}
			fmt.Printf("created quiz %d: %s\n", quiz.ID, quiz.Title)
			return nil
		},
	}
}

func quizzesExportCommand() *cli.Command {
	var params struct {
		appParams
		Out string `flag:"out,o" desc:"output file (default: stdout)"`
	}

	return &cli.Command{
		Name:    "export",
		Summary: "Export a quiz as an editable YAML file",
		Description: `Export a quiz as a YAML file in the same format "quizzes create"
accepts.

The server never reveals which choices are correct, so every exported
choice has "correct" unset. Re-mark the correct answers before pushing
the file back with "quizzes update", otherwise the quiz ends up with no
correct choices.`,
		Usage: "oqes quizzes export <quiz-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("quizzes export", &params)
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
			ctx := context.Background()
			apiSession, err := app.RequireSession(ctx)
			if err != nil {
				return err
			}

			detail, err := apiSession.QuizDetail(ctx, quizID)
			if err != nil {
				return cli.WrapAPI("fetching quiz", err)
			}

			file := quizFile{
				Title:           detail.Title,
				Course:          detail.Course,
				Description:     detail.Description,
				DurationMinutes: detail.DurationMinutes,
			}
			for _, question := range detail.Questions {
				fileQuestion := quizFileQuestion{
					Kind: string(question.Kind),
					Text: question.Text,
				}
				for _, choice := range question.Choices {
					fileQuestion.Choices = append(fileQuestion.Choices, quizFileChoice{Text: choice.Text})
				}
				file.Questions = append(file.Questions, fileQuestion)
			}

			data, err := yaml.Marshal(&file)
			if err != nil {
				return cli.Internal("encoding quiz: %v", err)
			}
			if params.Out == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(params.Out, data, 0644); err != nil {
				return cli.Internal("writing %s: %v", params.Out, err)
			}
			fmt.Fprintf(os.Stderr, "exported quiz %d to %s (re-mark correct answers before updating)\n", quizID, params.Out)
			return nil
		},
	}
}

func quizzesUpdateCommand() *cli.Command {
	var params struct {
		appParams
		File string `flag:"file,f" desc:"path to the quiz YAML file (required)"`
	}

	return &cli.Command{
		Name:    "update",
		Summary: "Replace a quiz from a YAML file (teachers only)",
		Description: `Replace a quiz's content from a YAML definition.

The question set in the file replaces the quiz's questions wholesale.
Choices are only correct where the file says "correct: true"; an
exported file has none marked, so re-mark them before updating.`,
		Usage: "oqes quizzes update <quiz-id> --file <quiz.yaml> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("quizzes update", &params)
		},
		Run: func(args []string) error {
			quizID, err := idArg(args, "quiz-id")
			if err != nil {
				return err
			}
			if params.File == "" {
				return cli.Validation("--file is required")
			}
			file, err := loadQuizFile(params.File)
			if err != nil {
				return err
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

			quiz, err := apiSession.UpdateQuiz(ctx, quizID, file.payload())
			if err != nil {
				return cli.WrapAPI("updating quiz", err)
			}
			fmt.Printf("updated quiz %d: %s\n", quiz.ID, quiz.Title)
			return nil
		},
	}
}

func quizzesDeleteCommand() *cli.Command {
	var params struct {
		appParams
		Yes bool `flag:"yes,y" desc:"skip the confirmation prompt"`
	}

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a quiz (teachers only)",
		Usage:   "oqes quizzes delete <quiz-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("quizzes delete", &params)
		},
		Run: func(args []string) error {
			quizID, err := idArg(args, "quiz-id")
			if err != nil {
				return err
			}
			if !params.Yes && !confirmOnTerminal(fmt.Sprintf("Delete quiz %d?", quizID)) {
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

			if err := apiSession.DeleteQuiz(ctx, quizID); err != nil {
				return cli.WrapAPI("deleting quiz", err)
			}
			fmt.Printf("deleted quiz %d\n", quizID)
			return nil
		},
	}
}
