package server

import (
	"encoding/json"

	"github.com/josephgoksu/TaskNest/models"
)

// TasksResponse carries the collection after a read or mutation.
type TasksResponse struct {
	Tasks []models.Task `json:"tasks"`
	// More counts tasks left out by a limit.
	More int `json:"more,omitempty"`
}

// CreatedResponse is returned by the add endpoints.
type CreatedResponse struct {
	ID    int           `json:"id"`
	Tasks []models.Task `json:"tasks"`
}

// AddTaskRequest optionally titles and dates the new task.
type AddTaskRequest struct {
	Title   string `json:"title,omitempty"`
	DueDate string `json:"dueDate,omitempty"`
}

// AddSubtaskRequest optionally titles the new subtask.
type AddSubtaskRequest struct {
	Title string `json:"title,omitempty"`
}

// UpdateTaskRequest edits a task. DueDate is tri-state: absent leaves the
// date alone, null clears it, a YYYY-MM-DD string sets it.
type UpdateTaskRequest struct {
	Title   *string         `json:"title"`
	DueDate json.RawMessage `json:"dueDate"`
}

// UpdateSubtaskRequest edits a subtask title.
type UpdateSubtaskRequest struct {
	Title *string `json:"title"`
}

// ReorderRequest lists the new order by id or by title; exactly one is set.
type ReorderRequest struct {
	IDs    []int    `json:"ids"`
	Titles []string `json:"titles"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
