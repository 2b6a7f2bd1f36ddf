package mcp

import (
	"testing"

	"github.com/josephgoksu/TaskNest/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatTaskList(t *testing.T) {
	assert.Equal(t, "No tasks.", FormatTaskList(nil, 0))

	tasks := []models.Task{{ID: 3, Title: "Ship", Completed: true, Subtasks: []models.Subtask{}}}
	got := FormatTaskList(tasks, 4)
	assert.Equal(t, "## Tasks (5)\n- [x] **3** Ship\n\n*4 more not shown.*", got)
}

func TestActionTitle(t *testing.T) {
	assert.Equal(t, "Reorder Subtasks", actionTitle("reorder_subtasks"))
	assert.Equal(t, "Set Due", actionTitle("set_due"))
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "## Error\n\n**Details**: boom", FormatError("boom"))
}
