package ui

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether f is a terminal. Prompts and colors are
// skipped when output is piped.
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Truncate shortens s to maxLen runes, adding an ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}
