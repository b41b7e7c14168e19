// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package quizui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the OQES TUI.
type KeyMap struct {
	// List navigation.
	Up   key.Binding
	Down key.Binding

	// Answer selection within a question (quiz-taking view).
	Left  key.Binding
	Right key.Binding

	// Enter the selected course or quiz; confirm a form.
	Select key.Binding

	// Go back to the previous screen; cancel a form or prompt.
	Back key.Binding

	// Mark the highlighted choice as the answer.
	Answer key.Binding

	// Submit the attempt (quiz-taking view only).
	Submit key.Binding

	// Delete the selected course or quiz (teacher only, with confirm).
	Delete key.Binding

	// Refresh the current list from the server.
	Refresh key.Binding

	// Switch between login and registration forms.
	ToggleRegister key.Binding

	// Advance to the next form field.
	NextField key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "previous choice"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next choice"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Answer: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "answer"),
	),
	Submit: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "submit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	ToggleRegister: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "register/login"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next field"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
