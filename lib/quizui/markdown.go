// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package quizui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Course and quiz descriptions are authored as markdown. The renderer
// covers the subset that shows up in practice: paragraphs, headings,
// emphasis, inline and fenced code, lists, and blockquotes. Everything
// else degrades to its plain text content.

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParser
}

// renderMarkdown converts markdown source to ANSI-styled terminal text
// wrapped to the given width. Rendering is best-effort: on any parse
// failure the raw source is returned unstyled.
func renderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256)),
	}
	renderer.lipRenderer.SetColorProfile(termenv.ANSI256)

	if err := ast.Walk(document, renderer.walk); err != nil {
		return input
	}
	return strings.TrimRight(renderer.output.String(), "\n")
}

type markdownRenderer struct {
	source      []byte
	theme       Theme
	width       int
	lipRenderer *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	// Nesting prefix for blockquotes and list continuation lines.
	prefixStack     []prefixLevel
	linePrefix      string
	linePrefixWidth int
	pendingBullet   string

	// Inline style state.
	boldCount   int
	italicCount int

	listDepth   int
	listOrdered bool
	listCounter int

	trailingNewlines int
}

// prefixLevel is one entry of nesting prefix. The text may carry ANSI
// escapes, so its visible width is tracked separately.
type prefixLevel struct {
	text  string
	width int
}

func (renderer *markdownRenderer) pushPrefix(prefixText string, visibleWidth int) {
	renderer.prefixStack = append(renderer.prefixStack, prefixLevel{
		text:  prefixText,
		width: visibleWidth,
	})
	renderer.linePrefix += prefixText
	renderer.linePrefixWidth += visibleWidth
}

func (renderer *markdownRenderer) popPrefix() {
	if len(renderer.prefixStack) == 0 {
		return
	}
	top := renderer.prefixStack[len(renderer.prefixStack)-1]
	renderer.prefixStack = renderer.prefixStack[:len(renderer.prefixStack)-1]
	renderer.linePrefix = renderer.linePrefix[:len(renderer.linePrefix)-len(top.text)]
	renderer.linePrefixWidth -= top.width
}

func (renderer *markdownRenderer) newStyle() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

func (renderer *markdownRenderer) currentWidth() int {
	width := renderer.width - renderer.linePrefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (renderer *markdownRenderer) writeOutput(s string) {
	if s == "" {
		return
	}
	renderer.output.WriteString(s)

	trailing := 0
	allNewlines := true
	for index := len(s) - 1; index >= 0; index-- {
		if s[index] == '\n' {
			trailing++
		} else {
			allNewlines = false
			break
		}
	}
	if allNewlines {
		renderer.trailingNewlines += trailing
	} else {
		renderer.trailingNewlines = trailing
	}
}

func (renderer *markdownRenderer) ensureNewline() {
	if renderer.trailingNewlines < 1 {
		renderer.writeOutput("\n")
	}
}

func (renderer *markdownRenderer) ensureBlankLine() {
	for renderer.trailingNewlines < 2 {
		renderer.writeOutput("\n")
	}
}

// applyPrefixes prepends the line prefix to each line. The first line
// uses a pending list bullet when one is set.
func (renderer *markdownRenderer) applyPrefixes(content string) string {
	lines := strings.Split(content, "\n")
	var result strings.Builder
	for index, line := range lines {
		if index == 0 && renderer.pendingBullet != "" {
			result.WriteString(renderer.pendingBullet)
			renderer.pendingBullet = ""
		} else {
			result.WriteString(renderer.linePrefix)
		}
		result.WriteString(line)
		if index < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// flushInline word-wraps the accumulated inline content, applies line
// prefixes, and resets the inline buffer.
func (renderer *markdownRenderer) flushInline() string {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return ""
	}
	content = ansi.Wrap(content, renderer.currentWidth(), " ,.;-+|")
	return renderer.applyPrefixes(content)
}

func (renderer *markdownRenderer) styledText(content string) string {
	style := renderer.newStyle().Foreground(renderer.theme.NormalText)
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

// highlightCode syntax-highlights fenced code via Chroma, falling back
// to FaintText-styled plain text when the language is unknown.
func (renderer *markdownRenderer) highlightCode(code, language string) string {
	if language == "" {
		return renderer.newStyle().Foreground(renderer.theme.FaintText).Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return renderer.newStyle().Foreground(renderer.theme.FaintText).Render(code)
	}
	return buffer.String()
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch typed := node.(type) {

	case *ast.Document:

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			flushed := renderer.flushInline()
			if flushed != "" {
				renderer.writeOutput(flushed)
				renderer.ensureNewline()
				if renderer.listDepth == 0 {
					renderer.ensureBlankLine()
				}
			}
		}

	case *ast.Heading:
		if entering {
			renderer.inline.Reset()
		} else {
			heading := renderer.newStyle().
				Bold(true).
				Foreground(renderer.theme.HeaderForeground).
				Render(renderer.inline.String())
			renderer.inline.Reset()
			renderer.ensureBlankLine()
			renderer.writeOutput(renderer.applyPrefixes(heading))
			renderer.ensureBlankLine()
		}

	case *ast.FencedCodeBlock:
		if entering {
			renderer.renderFencedCode(typed)
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			renderer.renderIndentedCode(typed)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Blockquote:
		if entering {
			bar := renderer.newStyle().Foreground(renderer.theme.QuoteBar).Render("│ ")
			renderer.pushPrefix(bar, 2)
		} else {
			renderer.popPrefix()
			renderer.ensureBlankLine()
		}

	case *ast.List:
		if entering {
			renderer.listDepth++
			renderer.listOrdered = typed.IsOrdered()
			renderer.listCounter = typed.Start
			if renderer.listCounter == 0 {
				renderer.listCounter = 1
			}
		} else {
			renderer.listDepth--
			if renderer.listDepth == 0 {
				renderer.ensureBlankLine()
			}
		}

	case *ast.ListItem:
		if entering {
			bullet := "• "
			if renderer.listOrdered {
				bullet = strconv.Itoa(renderer.listCounter) + ". "
				renderer.listCounter++
			}
			renderer.pendingBullet = renderer.linePrefix +
				renderer.newStyle().Foreground(renderer.theme.FaintText).Render(bullet)
			renderer.pushPrefix(strings.Repeat(" ", len([]rune(bullet))), len([]rune(bullet)))
		} else {
			renderer.popPrefix()
			renderer.pendingBullet = ""
			renderer.ensureNewline()
		}

	case *ast.ThematicBreak:
		if entering {
			rule := renderer.newStyle().Foreground(renderer.theme.BorderColor).
				Render(strings.Repeat("─", renderer.currentWidth()))
			renderer.ensureBlankLine()
			renderer.writeOutput(renderer.applyPrefixes(rule))
			renderer.ensureBlankLine()
		}

	// Inline nodes.
	case *ast.Text:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(typed.Segment.Value(renderer.source))))
			if typed.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
			if typed.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case *ast.String:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(typed.Value)))
		}

	case *ast.Emphasis:
		if typed.Level >= 2 {
			if entering {
				renderer.boldCount++
			} else {
				renderer.boldCount--
			}
		} else {
			if entering {
				renderer.italicCount++
			} else {
				renderer.italicCount--
			}
		}

	case *ast.CodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			renderer.inline.WriteString(renderer.newStyle().
				Foreground(renderer.theme.CodeForeground).
				Background(renderer.theme.CodeBackground).
				Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if !entering {
			url := renderer.newStyle().Foreground(renderer.theme.FaintText).
				Render(" (" + string(typed.Destination) + ")")
			renderer.inline.WriteString(url)
		}
	}

	return ast.WalkContinue, nil
}

func (renderer *markdownRenderer) renderFencedCode(block *ast.FencedCodeBlock) {
	language := string(block.Language(renderer.source))
	renderer.renderCodeLines(block.Lines(), language)
}

func (renderer *markdownRenderer) renderIndentedCode(block *ast.CodeBlock) {
	renderer.renderCodeLines(block.Lines(), "")
}

func (renderer *markdownRenderer) renderCodeLines(lines *text.Segments, language string) {
	var code strings.Builder
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(renderer.source))
	}
	highlighted := strings.TrimRight(renderer.highlightCode(strings.TrimRight(code.String(), "\n"), language), "\n")

	renderer.ensureBlankLine()
	indent := renderer.linePrefix + "  "
	for _, line := range strings.Split(highlighted, "\n") {
		renderer.writeOutput(indent + line + "\n")
	}
	renderer.ensureBlankLine()
}
