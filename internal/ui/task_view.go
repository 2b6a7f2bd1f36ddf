package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/josephgoksu/TaskNest/models"
)

const (
	checkDone    = "[x]"
	checkOpen    = "[ ]"
	markExpanded = "▾"
	markFolded   = "▸"
	dueSoonDays  = 3
)

// DueState classifies a due date relative to today.
type DueState int

const (
	DueNone DueState = iota
	DueLater
	DueSoon
	DueToday
	DueOverdue
)

// ClassifyDue reports how urgent t's due date is on the day of now.
// Completed tasks and unparsable dates are never urgent.
func ClassifyDue(t models.Task, now time.Time) DueState {
	due, ok, err := t.Due()
	if err != nil || !ok {
		return DueNone
	}
	if t.Completed {
		return DueLater
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)
	switch {
	case days < 0:
		return DueOverdue
	case days == 0:
		return DueToday
	case days <= dueSoonDays:
		return DueSoon
	default:
		return DueLater
	}
}

func renderDue(t models.Task, now time.Time) string {
	switch ClassifyDue(t, now) {
	case DueOverdue:
		return StyleOverdue.Render("due " + t.DueDate + " (overdue)")
	case DueToday:
		return StyleOverdue.Render("due today")
	case DueSoon:
		return StyleDueSoon.Render("due " + t.DueDate)
	case DueLater:
		return StyleSubtle.Render("due " + t.DueDate)
	default:
		return ""
	}
}

func check(done bool) string {
	if done {
		return StyleSuccess.Render(checkDone)
	}
	return StyleSubtle.Render(checkOpen)
}

func title(s string, done bool) string {
	if s == "" {
		s = "(untitled)"
	}
	if done {
		return StyleDone.Render(s)
	}
	return StyleTitle.Render(s)
}

// RenderTaskTree renders tasks in order with their subtasks indented below.
// Collapsed tasks hide their subtasks. more is the number of tasks left out
// of the window and produces a "load more" hint.
func RenderTaskTree(tasks []models.Task, more int, now time.Time) string {
	var sb strings.Builder
	if len(tasks) == 0 && more == 0 {
		sb.WriteString(StyleSubtle.Render(" No tasks yet. Run `tasknest add` to create one.") + "\n")
		return sb.String()
	}

	for _, t := range tasks {
		mark := markExpanded
		if !t.IsExpanded() {
			mark = markFolded
		}
		if len(t.Subtasks) == 0 {
			mark = " "
		}

		parts := []string{
			" " + StyleSubtle.Render(mark),
			check(t.Completed),
			StyleID.Render(strconv.Itoa(t.ID)),
			title(t.Title, t.Completed),
		}
		if due := renderDue(t, now); due != "" {
			parts = append(parts, StyleSubtle.Render("·"), due)
		}
		if n := len(t.Subtasks); n > 0 {
			parts = append(parts, StyleSubtle.Render(fmt.Sprintf("· %d/%d", t.CompletedSubtasks(), n)))
		}
		sb.WriteString(strings.Join(parts, " ") + "\n")

		if !t.IsExpanded() {
			continue
		}
		for _, st := range t.Subtasks {
			fmt.Fprintf(&sb, "      %s %s %s\n",
				check(st.Completed),
				StyleID.Render(strconv.Itoa(st.ID)),
				title(st.Title, st.Completed))
		}
	}

	if more > 0 {
		sb.WriteString(StyleSubtle.Render(fmt.Sprintf(" … %d more. Use --all or a larger --limit to see them.", more)) + "\n")
	}
	return sb.String()
}

// RenderTaskTable renders one row per task and subtask with full details.
func RenderTaskTable(tasks []models.Task) string {
	table := &Table{
		Headers:  []string{"ID", "Parent", "Done", "Title", "Due", "Subtasks"},
		MaxWidth: 48,
	}
	for _, t := range tasks {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(t.ID),
			"-",
			yesNo(t.Completed),
			t.Title,
			dash(t.DueDate),
			fmt.Sprintf("%d/%d", t.CompletedSubtasks(), len(t.Subtasks)),
		})
		for _, st := range t.Subtasks {
			table.Rows = append(table.Rows, []string{
				strconv.Itoa(st.ID),
				strconv.Itoa(t.ID),
				yesNo(st.Completed),
				"  " + st.Title,
				"",
				"",
			})
		}
	}
	return table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
