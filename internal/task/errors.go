package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for malformed input: a replacement collection
	// that fails validation or a due date that does not parse.
	ErrInvalid = errors.New("invalid input")
)

// NotFoundError reports a task or subtask id that does not resolve in the
// current collection. SubtaskID is nil when the task itself is missing.
type NotFoundError struct {
	TaskID    int
	SubtaskID *int
}

func (e *NotFoundError) Error() string {
	if e.SubtaskID != nil {
		return fmt.Sprintf("subtask %d of task %d not found", *e.SubtaskID, e.TaskID)
	}
	return fmt.Sprintf("task %d not found", e.TaskID)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func taskNotFound(taskID int) error {
	return &NotFoundError{TaskID: taskID}
}

func subtaskNotFound(taskID, subtaskID int) error {
	return &NotFoundError{TaskID: taskID, SubtaskID: &subtaskID}
}
