// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package quizui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/oqes-foundation/oqes/lib/api"
	"github.com/oqes-foundation/oqes/lib/secret"
)

// loginForm is the combined login / registration form. C-r toggles
// between the two modes; registration adds the email field and a role
// picker.
type loginForm struct {
	theme Theme

	registering bool
	role        api.Role

	username textinput.Model
	password textinput.Model
	email    textinput.Model

	// Index into the visible field order.
	focus int

	busy      bool
	errorLine string
}

func newLoginForm(theme Theme) loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 150
	username.Prompt = "  "

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Prompt = "  "

	email := textinput.New()
	email.Placeholder = "email (optional)"
	email.CharLimit = 254
	email.Prompt = "  "

	return loginForm{
		theme:    theme,
		role:     api.RoleStudent,
		username: username,
		password: password,
		email:    email,
	}
}

func (form *loginForm) reset() {
	form.registering = false
	form.role = api.RoleStudent
	form.username.SetValue("")
	form.password.SetValue("")
	form.email.SetValue("")
	form.focus = 0
	form.busy = false
	form.errorLine = ""
	form.applyFocus()
}

func (form *loginForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

// fields returns pointers to the inputs in visible order.
func (form *loginForm) fields() []*textinput.Model {
	if form.registering {
		return []*textinput.Model{&form.username, &form.password, &form.email}
	}
	return []*textinput.Model{&form.username, &form.password}
}

func (form *loginForm) applyFocus() {
	fields := form.fields()
	if form.focus >= len(fields) {
		form.focus = 0
	}
	for index, field := range fields {
		if index == form.focus {
			field.Focus()
		} else {
			field.Blur()
		}
	}
}

func (form *loginForm) advanceFocus() {
	form.focus = (form.focus + 1) % len(form.fields())
	form.applyFocus()
}

func (form *loginForm) toggleMode() {
	form.registering = !form.registering
	form.errorLine = ""
	form.focus = 0
	form.applyFocus()
}

func (form *loginForm) toggleRole() {
	if form.role == api.RoleStudent {
		form.role = api.RoleTeacher
	} else {
		form.role = api.RoleStudent
	}
}

func (form *loginForm) view(width int) string {
	theme := form.theme
	title := "Sign in"
	if form.registering {
		title = "Create account"
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).
		Foreground(theme.HeaderForeground).Render(title))
	lines = append(lines, "")
	lines = append(lines, form.username.View())
	lines = append(lines, form.password.View())
	if form.registering {
		lines = append(lines, form.email.View())
	}
	lines = append(lines, "  role: "+lipgloss.NewStyle().
		Foreground(theme.Answered).Render(string(form.role))+
		theme.faint("  (C-t to switch)"))
	lines = append(lines, "")

	switch {
	case form.busy:
		lines = append(lines, theme.faint("  signing in..."))
	case form.errorLine != "":
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.Error).Render("  "+form.errorLine))
	}

	help := "Enter sign in · Tab next field · C-r register"
	if form.registering {
		help = "Enter create account · Tab next field · C-r back to sign in"
	}
	lines = append(lines, "", lipgloss.NewStyle().
		Foreground(theme.HelpText).Render(help))

	return strings.Join(lines, "\n")
}

// --- key handling (on Model so navigation can happen) ---

func (model Model) handleLoginKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.login.busy {
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.NextField):
		model.login.advanceFocus()
		return model, nil

	case key.Matches(message, model.keys.ToggleRegister):
		model.login.toggleMode()
		return model, nil

	case message.String() == "ctrl+t":
		model.login.toggleRole()
		return model, nil

	case key.Matches(message, model.keys.Select):
		return model.submitLoginForm()
	}

	// Everything else goes to the focused input.
	fields := model.login.fields()
	if model.login.focus < len(fields) {
		var cmd tea.Cmd
		*fields[model.login.focus], cmd = fields[model.login.focus].Update(message)
		return model, cmd
	}
	return model, nil
}

func (model Model) submitLoginForm() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(model.login.username.Value())
	passwordText := model.login.password.Value()
	if username == "" || passwordText == "" {
		model.login.errorLine = "username and password are required"
		return model, nil
	}

	manager := model.manager
	model.login.busy = true
	model.login.errorLine = ""

	if model.login.registering {
		params := api.RegisterPayload{
			Username: username,
			Email:    strings.TrimSpace(model.login.email.Value()),
			Role:     model.login.role,
		}
		return model, func() tea.Msg {
			password, err := secret.NewFromString(passwordText)
			if err != nil {
				return loginResultMsg{err: err}
			}
			defer password.Close()
			return loginResultMsg{err: manager.Register(context.Background(), params, password)}
		}
	}

	role := model.login.role
	return model, func() tea.Msg {
		password, err := secret.NewFromString(passwordText)
		if err != nil {
			return loginResultMsg{err: err}
		}
		defer password.Close()
		return loginResultMsg{err: manager.Login(context.Background(), username, password, role)}
	}
}
