package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the ISO-8601 calendar date layout used for due dates.
const DateLayout = "2006-01-02"

const (
	DefaultTaskTitle    = "New Task"
	DefaultSubtaskTitle = "New Subtask"
)

// Subtask is a child item of a task. Its ID is only unique within the parent.
type Subtask struct {
	ID        int    `json:"id" yaml:"id" toml:"id" validate:"min=1"`
	Title     string `json:"title" yaml:"title" toml:"title"`
	Completed bool   `json:"completed" yaml:"completed" toml:"completed"`
}

// Task represents a top-level to-do item.
type Task struct {
	ID        int       `json:"id" yaml:"id" toml:"id" validate:"min=1"`
	Title     string    `json:"title" yaml:"title" toml:"title"`
	Completed bool      `json:"completed" yaml:"completed" toml:"completed"`
	DueDate   string    `json:"dueDate" yaml:"dueDate" toml:"dueDate" validate:"omitempty,isodate"`
	Subtasks  []Subtask `json:"subtasks" yaml:"subtasks" toml:"subtasks" validate:"dive"`
	// Expanded is presentation state; nil means expanded.
	Expanded *bool `json:"expanded,omitempty" yaml:"expanded,omitempty" toml:"expanded,omitempty"`
}

// IsExpanded reports the effective expand/collapse state.
func (t Task) IsExpanded() bool {
	return t.Expanded == nil || *t.Expanded
}

// Due parses the due date. ok is false when no due date is set.
func (t Task) Due() (due time.Time, ok bool, err error) {
	if t.DueDate == "" {
		return time.Time{}, false, nil
	}
	due, err = time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse due date %q: %w", t.DueDate, err)
	}
	return due, true, nil
}

// CompletedSubtasks returns how many subtasks are done.
func (t Task) CompletedSubtasks() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// NewTask returns a task with default fields and the given id.
func NewTask(id int) Task {
	return Task{
		ID:       id,
		Title:    DefaultTaskTitle,
		Subtasks: []Subtask{},
	}
}

// NewSubtask returns a subtask with default fields and the given id.
func NewSubtask(id int) Subtask {
	return Subtask{
		ID:    id,
		Title: DefaultSubtaskTitle,
	}
}

// SeedTasks is the collection used when nothing has been persisted yet.
func SeedTasks() []Task {
	return []Task{
		{
			ID:        1,
			Title:     "Plan weekly schedule",
			Completed: false,
			DueDate:   "2025-06-30",
			Subtasks: []Subtask{
				{ID: 11, Title: "Work blocks", Completed: true},
				{ID: 12, Title: "Personal goals", Completed: false},
			},
		},
	}
}

// CloneTasks deep-copies a collection so callers can mutate the copy freely.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t
		out[i].Subtasks = make([]Subtask, len(t.Subtasks))
		copy(out[i].Subtasks, t.Subtasks)
		if t.Expanded != nil {
			v := *t.Expanded
			out[i].Expanded = &v
		}
	}
	return out
}

// FindTask returns the index of the task with the given id, or -1.
func FindTask(tasks []Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindSubtask returns the index of the subtask with the given id, or -1.
func FindSubtask(t *Task, id int) int {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return i
		}
	}
	return -1
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("isodate", validateISODate)
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
}

// ValidateCollection checks every task and the id uniqueness rules:
// task ids are unique across the collection, subtask ids within their parent.
func ValidateCollection(tasks []Task) error {
	seen := make(map[int]bool, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if err := ValidateStruct(t); err != nil {
			return fmt.Errorf("task %d: %w", t.ID, err)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true

		subSeen := make(map[int]bool, len(t.Subtasks))
		for _, s := range t.Subtasks {
			if subSeen[s.ID] {
				return fmt.Errorf("task %d: duplicate subtask id %d", t.ID, s.ID)
			}
			subSeen[s.ID] = true
		}
	}
	return nil
}
