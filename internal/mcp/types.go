// Package mcp provides types and utilities for the MCP server.
package mcp

// TaskAction defines the valid actions for the unified task tool.
type TaskAction string

const (
	TaskActionList            TaskAction = "list"
	TaskActionAdd             TaskAction = "add"
	TaskActionAddSubtask      TaskAction = "add_subtask"
	TaskActionToggle          TaskAction = "toggle"
	TaskActionEditTitle       TaskAction = "edit_title"
	TaskActionSetDue          TaskAction = "set_due"
	TaskActionReorder         TaskAction = "reorder"
	TaskActionReorderSubtasks TaskAction = "reorder_subtasks"
	TaskActionExpand          TaskAction = "expand"
	TaskActionRemove          TaskAction = "remove"
)

// ValidTaskActions returns all valid task actions.
func ValidTaskActions() []TaskAction {
	return []TaskAction{
		TaskActionList, TaskActionAdd, TaskActionAddSubtask, TaskActionToggle, TaskActionEditTitle,
		TaskActionSetDue, TaskActionReorder, TaskActionReorderSubtasks, TaskActionExpand, TaskActionRemove,
	}
}

// IsValid checks if the action is a valid task action.
func (a TaskAction) IsValid() bool {
	for _, v := range ValidTaskActions() {
		if a == v {
			return true
		}
	}
	return false
}

// TaskToolParams defines the parameters for the unified task tool.
type TaskToolParams struct {
	// Action specifies which operation to perform.
	Action TaskAction `json:"action" jsonschema:"one of: list, add, add_subtask, toggle, edit_title, set_due, reorder, reorder_subtasks, expand, remove"`

	// TaskID addresses a task. Required for every action except list, add and reorder.
	TaskID *int `json:"task_id,omitempty" jsonschema:"task id; required except for list, add and reorder"`

	// SubtaskID narrows toggle, edit_title and remove to one subtask.
	SubtaskID *int `json:"subtask_id,omitempty" jsonschema:"subtask id for toggle, edit_title or remove"`

	// Title is the new title for add, add_subtask and edit_title.
	Title *string `json:"title,omitempty" jsonschema:"title for add, add_subtask or edit_title"`

	// DueDate is YYYY-MM-DD for add and set_due; empty clears it in set_due.
	DueDate string `json:"due_date,omitempty" jsonschema:"YYYY-MM-DD; empty clears the date in set_due"`

	// IDs is the new order for reorder and reorder_subtasks.
	IDs []int `json:"ids,omitempty" jsonschema:"new order by id for reorder or reorder_subtasks"`

	// Titles is the new order by title, used when IDs is empty.
	Titles []string `json:"titles,omitempty" jsonschema:"new order by title when ids is not given"`

	// Limit caps how many tasks list shows. Zero shows all.
	Limit int `json:"limit,omitempty" jsonschema:"maximum tasks to list; 0 lists all"`
}

// TaskToolResult represents the response from the unified task tool.
type TaskToolResult struct {
	Action  string `json:"action"`
	Content string `json:"content"`
	// ID is set by add and add_subtask.
	ID    int    `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}
