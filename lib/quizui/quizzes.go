// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package quizui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/oqes-foundation/oqes/lib/api"
)

// quizListView shows the quizzes of one course. Students open a quiz
// to start a timed attempt; teachers delete. The duration is shown so
// a student knows what they are committing to before the clock starts.
type quizListView struct {
	theme       Theme
	courseID    int64
	courseTitle string
	quizzes     []api.Quiz
	cursor      int
	teacher     bool
	loaded      bool
}

func newQuizListView(theme Theme) quizListView {
	return quizListView{theme: theme}
}

func (view *quizListView) setQuizzes(courseID int64, quizzes []api.Quiz, user *api.User) {
	if courseID != view.courseID {
		// Stale load for a course the user already navigated away from.
		return
	}
	view.quizzes = quizzes
	view.teacher = user != nil && user.Role == api.RoleTeacher
	view.loaded = true
	if view.cursor >= len(quizzes) {
		view.cursor = 0
	}
}

func (view *quizListView) selected() (api.Quiz, bool) {
	if view.cursor < 0 || view.cursor >= len(view.quizzes) {
		return api.Quiz{}, false
	}
	return view.quizzes[view.cursor], true
}

func (view *quizListView) moveCursor(delta int) {
	if len(view.quizzes) == 0 {
		return
	}
	view.cursor += delta
	if view.cursor < 0 {
		view.cursor = 0
	}
	if view.cursor >= len(view.quizzes) {
		view.cursor = len(view.quizzes) - 1
	}
}

func (view quizListView) view(width int, keys KeyMap) string {
	theme := view.theme
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).
		Foreground(theme.HeaderForeground).Render("Quizzes · "+view.courseTitle))
	lines = append(lines, "")

	switch {
	case !view.loaded:
		lines = append(lines, theme.faint("  loading..."))
	case len(view.quizzes) == 0:
		lines = append(lines, theme.faint("  no quizzes in this course"))
	default:
		for index, quiz := range view.quizzes {
			label := fmt.Sprintf("%s  %s", quiz.Title,
				theme.faint(fmt.Sprintf("(%d min)", quiz.DurationMinutes)))
			lines = append(lines, renderListRow(theme, label, index == view.cursor))
			if index == view.cursor && quiz.Description != "" {
				lines = append(lines, indentBlock(renderMarkdown(quiz.Description, theme, listDescriptionWidth(width)), "    "))
			}
		}
	}

	help := "Enter take quiz · Esc back · r refresh"
	if view.teacher {
		help = "d delete · Esc back · r refresh"
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.HelpText).Render(help))
	return strings.Join(lines, "\n")
}

func (model Model) handleQuizzesKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.quizzes.moveCursor(-1)
		return model, nil

	case key.Matches(message, model.keys.Down):
		model.quizzes.moveCursor(1)
		return model, nil

	case key.Matches(message, model.keys.Back):
		return model.navigate(screenCourses)

	case key.Matches(message, model.keys.Refresh):
		return model, model.loadQuizzes(model.quizzes.courseID)

	case key.Matches(message, model.keys.Select):
		quiz, ok := model.quizzes.selected()
		if !ok {
			return model, nil
		}
		return model.navigateTake(quiz.ID)

	case key.Matches(message, model.keys.Delete):
		if !model.quizzes.teacher {
			return model, nil
		}
		quiz, ok := model.quizzes.selected()
		if !ok {
			return model, nil
		}
		courseID := model.quizzes.courseID
		model.confirm = &confirmPrompt{
			theme:    model.theme,
			question: fmt.Sprintf("Delete quiz %q?", quiz.Title),
			action:   deleteQuizAction(model.manager, courseID, quiz.ID),
		}
		return model, nil
	}
	return model, nil
}

func deleteQuizAction(manager quizSessionSource, courseID, quizID int64) tea.Cmd {
	return func() tea.Msg {
		apiSession, err := manager.RequireAPI()
		if err != nil {
			return quizDeletedMsg{courseID: courseID, err: err}
		}
		return quizDeletedMsg{
			courseID: courseID,
			err:      apiSession.DeleteQuiz(context.Background(), quizID),
		}
	}
}
