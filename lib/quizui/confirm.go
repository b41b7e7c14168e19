// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package quizui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmPrompt is a modal y/N question shown below the current view.
// While it is up, all other key handling is suspended. Only an
// explicit "y" runs the action; anything else dismisses.
type confirmPrompt struct {
	theme    Theme
	question string
	action   tea.Cmd
}

func (prompt confirmPrompt) view() string {
	theme := prompt.theme
	body := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(prompt.question) +
		"\n" + lipgloss.NewStyle().Foreground(theme.HelpText).Render("y confirm · any other key cancel")
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1)
	return box.Render(body)
}

func (model Model) handleConfirmKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	prompt := model.confirm
	model.confirm = nil
	if strings.ToLower(message.String()) == "y" {
		return model, prompt.action
	}
	return model, nil
}
