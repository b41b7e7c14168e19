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

// courseListView is the home screen for both roles: students pick a
// course to browse its quizzes, teachers additionally delete courses
// they own. Creation and editing go through the CLI.
type courseListView struct {
	theme   Theme
	courses []api.Course
	cursor  int
	teacher bool
	loaded  bool
}

func newCourseListView(theme Theme) courseListView {
	return courseListView{theme: theme}
}

func (view *courseListView) setCourses(courses []api.Course, user *api.User) {
	view.courses = courses
	view.teacher = user != nil && user.Role == api.RoleTeacher
	view.loaded = true
	if view.cursor >= len(courses) {
		view.cursor = 0
	}
}

func (view *courseListView) selected() (api.Course, bool) {
	if view.cursor < 0 || view.cursor >= len(view.courses) {
		return api.Course{}, false
	}
	return view.courses[view.cursor], true
}

func (view *courseListView) moveCursor(delta int) {
	if len(view.courses) == 0 {
		return
	}
	view.cursor += delta
	if view.cursor < 0 {
		view.cursor = 0
	}
	if view.cursor >= len(view.courses) {
		view.cursor = len(view.courses) - 1
	}
}

func (view courseListView) view(width int, keys KeyMap) string {
	theme := view.theme
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).
		Foreground(theme.HeaderForeground).Render("Courses"))
	lines = append(lines, "")

	switch {
	case !view.loaded:
		lines = append(lines, theme.faint("  loading..."))
	case len(view.courses) == 0:
		lines = append(lines, theme.faint("  no courses yet"))
	default:
		for index, course := range view.courses {
			lines = append(lines, renderListRow(theme, course.Title, index == view.cursor))
			if index == view.cursor && course.Description != "" {
				lines = append(lines, indentBlock(renderMarkdown(course.Description, theme, listDescriptionWidth(width)), "    "))
			}
		}
	}

	help := "Enter open · r refresh · C-c quit"
	if view.teacher {
		help = "Enter open · d delete · r refresh · C-c quit"
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.HelpText).Render(help))
	return strings.Join(lines, "\n")
}

func (model Model) handleCoursesKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.courses.moveCursor(-1)
		return model, nil

	case key.Matches(message, model.keys.Down):
		model.courses.moveCursor(1)
		return model, nil

	case key.Matches(message, model.keys.Refresh):
		return model, model.loadCourses()

	case key.Matches(message, model.keys.Select):
		course, ok := model.courses.selected()
		if !ok {
			return model, nil
		}
		model.quizzes.courseID = course.ID
		model.quizzes.courseTitle = course.Title
		model.quizzes.loaded = false
		return model.navigate(screenQuizzes)

	case key.Matches(message, model.keys.Delete):
		if !model.courses.teacher {
			return model, nil
		}
		course, ok := model.courses.selected()
		if !ok {
			return model, nil
		}
		model.confirm = &confirmPrompt{
			theme:    model.theme,
			question: fmt.Sprintf("Delete course %q and all its quizzes?", course.Title),
			action:   deleteCourseAction(model.manager, course.ID),
		}
		return model, nil
	}
	return model, nil
}

func deleteCourseAction(manager quizSessionSource, courseID int64) tea.Cmd {
	return func() tea.Msg {
		apiSession, err := manager.RequireAPI()
		if err != nil {
			return courseDeletedMsg{err: err}
		}
		return courseDeletedMsg{err: apiSession.DeleteCourse(context.Background(), courseID)}
	}
}

// quizSessionSource is the slice of the session manager the list
// actions need.
type quizSessionSource interface {
	RequireAPI() (*api.Session, error)
}

// --- shared row rendering ---

func renderListRow(theme Theme, text string, selected bool) string {
	style := lipgloss.NewStyle().Foreground(theme.NormalText)
	prefix := "  "
	if selected {
		style = style.
			Foreground(theme.SelectedForeground).
			Background(theme.SelectedBackground)
		prefix = "> "
	}
	return prefix + style.Render(text)
}

func indentBlock(block, indent string) string {
	lines := strings.Split(block, "\n")
	for index, line := range lines {
		lines[index] = indent + line
	}
	return strings.Join(lines, "\n")
}

func listDescriptionWidth(width int) int {
	if width == 0 {
		width = 80
	}
	width -= 8
	if width < 20 {
		width = 20
	}
	return width
}
