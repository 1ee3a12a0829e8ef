package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetrack/internal/exercise"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	fixedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8A33D"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// wrongSpace replaces a space that was typed as something else.
const wrongSpace = '•'

// renderGroup styles one token and returns it with its display width.
func renderGroup(g exercise.Group) (string, int) {
	var b strings.Builder
	width := 0
	for _, glyph := range g.Glyphs {
		displayed := glyph.Char
		var style lipgloss.Style
		switch glyph.State {
		case exercise.Correct:
			style = correctStyle
		case exercise.Fixed:
			style = fixedStyle
		case exercise.Incorrect:
			style = incorrectStyle
			if glyph.Char == ' ' {
				displayed = wrongSpace
			}
		default:
			style = pendingStyle
			if g.IsCurrent && glyph.Char != ' ' {
				style = currentWordStyle
			}
		}
		if glyph.Caret {
			style = style.Underline(true)
		}
		b.WriteString(style.Render(string(displayed)))
		width += runewidth.RuneWidth(displayed)
	}
	return b.String(), width
}

// wrapTokens joins rendered tokens into lines no wider than width. Tokens are
// never split; a token wider than width gets a line of its own.
func wrapTokens(tokens []string, widths []int, width int) string {
	if width <= 0 {
		return strings.Join(tokens, "")
	}
	var out strings.Builder
	lineWidth := 0
	for i, tok := range tokens {
		if lineWidth > 0 && lineWidth+widths[i] > width {
			out.WriteRune('\n')
			lineWidth = 0
		}
		out.WriteString(tok)
		lineWidth += widths[i]
	}
	return out.String()
}
