package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows in fixed-width columns for the terminal.
// Widths are measured in display cells, so styled or wide text lines up.
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int // Max width per column (0 = auto)
}

// ColumnWidths calculates column widths based on content.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	if t.MaxWidth > 0 {
		for i := range widths {
			widths[i] = min(widths[i], t.MaxWidth)
		}
	}
	return widths
}

// Render outputs the table to a string.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	var sb strings.Builder

	var headerCells []string
	for i, h := range t.Headers {
		headerCells = append(headerCells, StylePrimary.Bold(true).Render(padRight(h, widths[i])))
	}
	sb.WriteString(" " + strings.TrimRight(strings.Join(headerCells, "  "), " ") + "\n")

	var sepParts []string
	for _, w := range widths {
		sepParts = append(sepParts, StyleSubtle.Render(strings.Repeat("─", w)))
	}
	sb.WriteString(" " + strings.Join(sepParts, "──") + "\n")

	for _, row := range t.Rows {
		var cells []string
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if lipgloss.Width(val) > widths[i] {
				val = Truncate(val, widths[i])
			}
			cells = append(cells, StyleText.Render(padRight(val, widths[i])))
		}
		sb.WriteString(" " + strings.TrimRight(strings.Join(cells, "  "), " ") + "\n")
	}

	return sb.String()
}

// padRight pads a string to the specified display width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
