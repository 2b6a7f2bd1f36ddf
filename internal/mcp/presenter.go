package mcp

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskNest/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatTaskList renders the collection as a compact Markdown checklist.
// more is the number of tasks left out by a limit.
func FormatTaskList(tasks []models.Task, more int) string {
	if len(tasks) == 0 {
		return "No tasks."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Tasks (%d)\n", len(tasks)+more))
	for _, t := range tasks {
		writeTask(&sb, t)
	}
	if more > 0 {
		sb.WriteString(fmt.Sprintf("\n*%d more not shown.*\n", more))
	}
	return strings.TrimSpace(sb.String())
}

func writeTask(sb *strings.Builder, t models.Task) {
	sb.WriteString(fmt.Sprintf("- [%s] **%d** %s", mark(t.Completed), t.ID, t.Title))
	if t.DueDate != "" {
		sb.WriteString(fmt.Sprintf(" (due %s)", t.DueDate))
	}
	if n := len(t.Subtasks); n > 0 {
		sb.WriteString(fmt.Sprintf(" %d/%d", t.CompletedSubtasks(), n))
	}
	sb.WriteString("\n")
	// Collapsed tasks still list their subtasks; agents need the ids.
	for _, st := range t.Subtasks {
		sb.WriteString(fmt.Sprintf("  - [%s] **%d** %s\n", mark(st.Completed), st.ID, st.Title))
	}
}

func mark(done bool) string {
	if done {
		return "x"
	}
	return " "
}

// FormatMutation renders the outcome of a mutating action followed by the
// updated collection.
func FormatMutation(action, message string, tasks []models.Task) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", actionTitle(action)))
	sb.WriteString(message)
	sb.WriteString("\n\n")
	sb.WriteString(FormatTaskList(tasks, 0))
	return strings.TrimSpace(sb.String())
}

// actionTitle turns "add_subtask" into "Add Subtask".
func actionTitle(action string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(action, "_", " "))
}

// FormatError returns a standardized Markdown error message.
// Use this for all MCP tool error responses to ensure consistency.
func FormatError(message string) string {
	return fmt.Sprintf("## Error\n\n**Details**: %s", message)
}
