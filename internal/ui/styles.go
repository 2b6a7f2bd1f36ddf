package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	// Components
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	// Task states
	StyleDone    = lipgloss.NewStyle().Foreground(ColorSecondary).Strikethrough(true)
	StyleOverdue = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleDueSoon = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleID      = lipgloss.NewStyle().Foreground(ColorPrimary)
)

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}

// SetColor turns ANSI styling on or off for everything rendered by this package.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}
