package ui

import (
	"github.com/charmbracelet/lipgloss"
)

type Style struct {
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	ErrorMessage     lipgloss.Style
	FocusedInput     lipgloss.Style
	UnfocusedInput   lipgloss.Style
	StatusLine       lipgloss.Style
}

type BorderColors struct {
	User      string
	Assistant string
	Error     string
	Input     string
}

func DefaultStyles() *Style {
	lightModeColors := BorderColors{
		User:      "#CCCCCC",
		Assistant: "#89CFF0", // baby blue
		Error:     "#CD5C5C", // indian red
		Input:     "#FFFF99", // light yellow
	}

	darkModeColors := BorderColors{
		User:      "#444444",
		Assistant: "#5588AA", // desaturated blue for dark mode
		Error:     "#AA5555", // desaturated red for dark mode
		Input:     "#DDDD77", // desaturated yellow for dark mode
	}

	return &Style{
		UserMessage: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).
			Padding(1, 1).
			BorderForeground(lipgloss.AdaptiveColor{
				Light: lightModeColors.User,
				Dark:  darkModeColors.User,
			}),
		AssistantMessage: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).
			Padding(1, 1).
			BorderForeground(lipgloss.AdaptiveColor{
				Light: lightModeColors.Assistant,
				Dark:  darkModeColors.Assistant,
			}),
		ErrorMessage: lipgloss.NewStyle().Border(lipgloss.ThickBorder()).
			Padding(1, 1).
			BorderForeground(lipgloss.AdaptiveColor{
				Light: lightModeColors.Error,
				Dark:  darkModeColors.Error,
			}),
		FocusedInput: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).
			Padding(1, 1).
			BorderForeground(lipgloss.AdaptiveColor{
				Light: lightModeColors.Input,
				Dark:  darkModeColors.Input,
			}),
		UnfocusedInput: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).
			Padding(1, 1).
			BorderForeground(lipgloss.AdaptiveColor{
				Light: lightModeColors.User,
				Dark:  darkModeColors.User,
			}),
		StatusLine: lipgloss.NewStyle().Faint(true),
	}
}
