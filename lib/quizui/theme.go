// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package quizui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the OQES terminal UI. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Countdown accents. Warning kicks in under two minutes, Critical
	// under thirty seconds.
	TimerNormal   lipgloss.Color
	TimerWarning  lipgloss.Color
	TimerCritical lipgloss.Color

	// Answer state.
	Answered   lipgloss.Color
	Unanswered lipgloss.Color

	// Outcome banners.
	Success lipgloss.Color
	Error   lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Markdown rendering inside quiz descriptions.
	CodeForeground lipgloss.Color
	CodeBackground lipgloss.Color
	QuoteBar       lipgloss.Color
}

// TimerColor returns the countdown color for the remaining seconds.
func (theme Theme) TimerColor(seconds int) lipgloss.Color {
	switch {
	case seconds <= 30:
		return theme.TimerCritical
	case seconds <= 120:
		return theme.TimerWarning
	default:
		return theme.TimerNormal
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed for
// 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	TimerNormal:   lipgloss.Color("114"), // green
	TimerWarning:  lipgloss.Color("220"), // amber
	TimerCritical: lipgloss.Color("196"), // red

	Answered:   lipgloss.Color("114"), // green
	Unanswered: lipgloss.Color("245"), // gray

	Success: lipgloss.Color("114"),
	Error:   lipgloss.Color("196"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	CodeForeground: lipgloss.Color("252"),
	CodeBackground: lipgloss.Color("236"),
	QuoteBar:       lipgloss.Color("240"),
}
