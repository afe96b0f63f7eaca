package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

func wrapWords(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// DrawBorderedMessage renders the text in a rounded border sized to half the
// terminal width, for one-shot output outside the chat UI.
func DrawBorderedMessage(msg string) string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = 160
	}

	width = width / 2

	style := lipgloss.NewStyle().
		Padding(1, 1).
		Border(lipgloss.RoundedBorder()).
		Width(width - 4)

	return style.Render(wrapWords(msg, width-4))
}
