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
	"github.com/oqes-foundation/oqes/lib/attempt"
)

// takeView renders a running attempt. All mutable attempt state lives
// in the controller; this view only tracks cursors and mirrors the
// last event it saw. Once the state leaves InProgress the answer and
// submit keys stop doing anything, no matter how fast they are
// pressed.
type takeView struct {
	controller *attempt.Controller
	theme      Theme
	keys       KeyMap

	quiz *api.QuizDetail

	questionCursor int
	choiceCursor   int

	state            attempt.State
	secondsRemaining int
	score            float64
	lastErr          error
}

func newTakeView(controller *attempt.Controller, theme Theme, keys KeyMap) *takeView {
	return &takeView{
		controller:       controller,
		theme:            theme,
		keys:             keys,
		quiz:             controller.Quiz(),
		state:            controller.State(),
		secondsRemaining: controller.SecondsRemaining(),
	}
}

// apply folds one controller event into the view.
func (view *takeView) apply(event attempt.Event) {
	view.state = event.State
	view.secondsRemaining = event.SecondsRemaining
	view.score = event.Score
	view.lastErr = event.Err
}

func (view *takeView) currentQuestion() (api.Question, bool) {
	if view.quiz == nil || view.questionCursor < 0 || view.questionCursor >= len(view.quiz.Questions) {
		return api.Question{}, false
	}
	return view.quiz.Questions[view.questionCursor], true
}

func (view *takeView) moveQuestion(delta int) {
	if view.quiz == nil || len(view.quiz.Questions) == 0 {
		return
	}
	view.questionCursor += delta
	if view.questionCursor < 0 {
		view.questionCursor = 0
	}
	if view.questionCursor >= len(view.quiz.Questions) {
		view.questionCursor = len(view.quiz.Questions) - 1
	}
	view.clampChoice()
}

func (view *takeView) moveChoice(delta int) {
	question, ok := view.currentQuestion()
	if !ok || len(question.Choices) == 0 {
		return
	}
	view.choiceCursor += delta
	view.clampChoice()
}

func (view *takeView) clampChoice() {
	question, ok := view.currentQuestion()
	if !ok {
		view.choiceCursor = 0
		return
	}
	if view.choiceCursor < 0 {
		view.choiceCursor = 0
	}
	if view.choiceCursor >= len(question.Choices) {
		view.choiceCursor = len(question.Choices) - 1
	}
	if view.choiceCursor < 0 {
		view.choiceCursor = 0
	}
}

func (view *takeView) answeredCount() int {
	if view.quiz == nil {
		return 0
	}
	count := 0
	for _, question := range view.quiz.Questions {
		if _, ok := view.controller.Answer(question.ID); ok {
			count++
		}
	}
	return count
}

func (view *takeView) view(width int) string {
	theme := view.theme
	if view.quiz == nil {
		return theme.faint("  loading quiz...")
	}
	if width == 0 {
		width = 80
	}

	var lines []string
	lines = append(lines, view.headerLine())
	lines = append(lines, "")

	if description := strings.TrimSpace(view.quiz.Description); description != "" && view.state == attempt.StateInProgress {
		lines = append(lines, indentBlock(renderMarkdown(description, theme, width-4), "  "))
		lines = append(lines, "")
	}

	switch view.state {
	case attempt.StateSubmitted:
		lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(theme.Success).
			Render(fmt.Sprintf("  Submitted. Score: %.1f", view.score)))
		lines = append(lines, "")
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.HelpText).
			Render("Esc back to quizzes"))
		return strings.Join(lines, "\n")

	case attempt.StateSubmitting:
		lines = append(lines, theme.faint("  submitting..."))
		lines = append(lines, "")
	}

	for index, question := range view.quiz.Questions {
		lines = append(lines, view.renderQuestion(index, question, width)...)
	}

	if view.lastErr != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).
			Render(fmt.Sprintf("  submit failed: %v (press s to retry)", view.lastErr)))
	}

	lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.HelpText).
		Render("j/k question · h/l choice · Space answer · s submit"))
	return strings.Join(lines, "\n")
}

func (view *takeView) headerLine() string {
	theme := view.theme
	timer := lipgloss.NewStyle().Bold(true).
		Foreground(theme.TimerColor(view.secondsRemaining)).
		Render(attempt.FormatClock(view.secondsRemaining))
	progress := theme.faint(fmt.Sprintf("%d/%d answered",
		view.answeredCount(), len(view.quiz.Questions)))
	title := lipgloss.NewStyle().Bold(true).
		Foreground(theme.HeaderForeground).Render(view.quiz.Title)
	return fmt.Sprintf("%s  %s  %s", title, timer, progress)
}

func (view *takeView) renderQuestion(index int, question api.Question, width int) []string {
	theme := view.theme
	active := index == view.questionCursor
	frozen := view.state != attempt.StateInProgress

	marker := " "
	if _, answered := view.controller.Answer(question.ID); answered {
		marker = lipgloss.NewStyle().Foreground(theme.Answered).Render("✓")
	}
	prompt := lipgloss.NewStyle().Foreground(theme.NormalText)
	if active && !frozen {
		prompt = prompt.Bold(true)
	}
	if frozen {
		prompt = prompt.Foreground(theme.FaintText)
	}

	lines := []string{fmt.Sprintf("%s %s %s", marker,
		theme.faint(fmt.Sprintf("%d.", index+1)),
		prompt.Render(question.Text))}

	selectedChoice, _ := view.controller.Answer(question.ID)
	for choiceIndex, choice := range question.Choices {
		lines = append(lines, view.renderChoice(question, choice,
			active && choiceIndex == view.choiceCursor,
			choice.ID == selectedChoice, frozen))
	}
	lines = append(lines, "")
	return lines
}

func (view *takeView) renderChoice(question api.Question, choice api.Choice, highlighted, selected, frozen bool) string {
	theme := view.theme

	radio := "( )"
	if selected {
		radio = "(•)"
	}

	style := lipgloss.NewStyle().Foreground(theme.NormalText)
	if frozen {
		style = style.Foreground(theme.FaintText)
	} else if highlighted {
		style = style.
			Foreground(theme.SelectedForeground).
			Background(theme.SelectedBackground)
	}
	if selected && !frozen {
		radio = lipgloss.NewStyle().Foreground(theme.Answered).Render(radio)
	}

	prefix := "    "
	if highlighted && !frozen {
		prefix = "  > "
	}
	return prefix + radio + " " + style.Render(choice.Text)
}

// --- key handling ---

func (model Model) handleTakeKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := model.take
	if view == nil {
		return model, nil
	}

	if view.state == attempt.StateSubmitted {
		if key.Matches(message, model.keys.Back) {
			view.controller.Close()
			model.take = nil
			return model.navigate(screenQuizzes)
		}
		return model, nil
	}

	// While a submit is in flight every control is inert.
	if view.state != attempt.StateInProgress {
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Up):
		view.moveQuestion(-1)

	case key.Matches(message, model.keys.Down):
		view.moveQuestion(1)

	case key.Matches(message, model.keys.Left):
		view.moveChoice(-1)

	case key.Matches(message, model.keys.Right):
		view.moveChoice(1)

	case key.Matches(message, model.keys.Answer):
		question, ok := view.currentQuestion()
		if !ok || view.choiceCursor >= len(question.Choices) {
			break
		}
		choice := question.Choices[view.choiceCursor]
		if err := view.controller.SelectAnswer(question.ID, choice.ID); err != nil {
			model.setError(err.Error())
		}

	case key.Matches(message, model.keys.Submit):
		controller := view.controller
		return model, func() tea.Msg {
			// State transitions arrive through the event stream; the
			// error return here only matters for wrong-state calls,
			// which the stream reports too.
			controller.Submit(context.Background())
			return nil
		}
	}
	return model, nil
}
