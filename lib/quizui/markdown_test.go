// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package quizui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderMarkdown(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		if got := renderMarkdown("   \n", DefaultTheme, 80); got != "" {
			t.Errorf("blank input rendered %q", got)
		}
	})

	t.Run("paragraph text survives", func(t *testing.T) {
		rendered := renderMarkdown("A quiz about *network* protocols.", DefaultTheme, 80)
		visible := ansi.Strip(rendered)
		if !strings.Contains(visible, "A quiz about network protocols.") {
			t.Errorf("paragraph text missing from %q", visible)
		}
	})

	t.Run("wraps to width", func(t *testing.T) {
		input := strings.Repeat("word ", 30)
		rendered := renderMarkdown(input, DefaultTheme, 40)
		for _, line := range strings.Split(ansi.Strip(rendered), "\n") {
			if len([]rune(line)) > 40 {
				t.Errorf("line exceeds width 40: %q", line)
			}
		}
	})

	t.Run("bullet list", func(t *testing.T) {
		rendered := renderMarkdown("- apples\n- oranges\n", DefaultTheme, 80)
		visible := ansi.Strip(rendered)
		if !strings.Contains(visible, "• apples") {
			t.Errorf("missing bullet for first item: %q", visible)
		}
		if !strings.Contains(visible, "• oranges") {
			t.Errorf("missing bullet for second item: %q", visible)
		}
	})

	t.Run("ordered list numbering", func(t *testing.T) {
		rendered := renderMarkdown("1. read\n2. answer\n3. submit\n", DefaultTheme, 80)
		visible := ansi.Strip(rendered)
		for _, want := range []string{"1. read", "2. answer", "3. submit"} {
			if !strings.Contains(visible, want) {
				t.Errorf("missing %q in %q", want, visible)
			}
		}
	})

	t.Run("blockquote prefix", func(t *testing.T) {
		rendered := renderMarkdown("> remember the deadline\n", DefaultTheme, 80)
		visible := ansi.Strip(rendered)
		if !strings.Contains(visible, "│ remember the deadline") {
			t.Errorf("missing quote bar in %q", visible)
		}
	})

	t.Run("fenced code block indented", func(t *testing.T) {
		rendered := renderMarkdown("```go\nfmt.Println(42)\n```\n", DefaultTheme, 80)
		visible := ansi.Strip(rendered)
		if !strings.Contains(visible, "fmt.Println(42)") {
			t.Errorf("code content missing from %q", visible)
		}
	})

	t.Run("heading present", func(t *testing.T) {
		rendered := renderMarkdown("# Instructions\n\nRead carefully.", DefaultTheme, 80)
		visible := ansi.Strip(rendered)
		if !strings.Contains(visible, "Instructions") {
			t.Errorf("heading text missing from %q", visible)
		}
		if !strings.Contains(visible, "Read carefully.") {
			t.Errorf("body text missing from %q", visible)
		}
	})
}
