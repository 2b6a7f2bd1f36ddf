// Package mcp provides handlers for unified MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/models"
)

// HandleTaskTool is the unified handler for all task operations.
// Domain failures (unknown ids, bad input) come back in TaskToolResult.Error;
// the returned error is reserved for persistence failures.
func HandleTaskTool(ctx context.Context, svc *task.Service, params TaskToolParams) (*TaskToolResult, error) {
	if !params.Action.IsValid() {
		return &TaskToolResult{
			Action: string(params.Action),
			Error:  fmt.Sprintf("invalid action %q, must be one of: %s", params.Action, joinActions()),
		}, nil
	}

	action := string(params.Action)
	switch params.Action {
	case TaskActionList:
		return handleTaskList(ctx, svc, params)
	case TaskActionAdd:
		return handleTaskAdd(ctx, svc, params)
	case TaskActionReorder:
		if len(params.IDs) == 0 && len(params.Titles) == 0 {
			return failure(action, "ids or titles is required for reorder"), nil
		}
		var (
			tasks []models.Task
			err   error
		)
		if len(params.IDs) > 0 {
			tasks, err = svc.ReorderTasks(ctx, params.IDs)
		} else {
			tasks, err = svc.ReorderTasksByTitle(ctx, params.Titles)
		}
		return mutationResult(action, "Tasks reordered.", tasks, err)
	}

	// Everything below addresses a task.
	if params.TaskID == nil {
		return failure(action, fmt.Sprintf("task_id is required for %s", action)), nil
	}
	taskID := *params.TaskID

	switch params.Action {
	case TaskActionAddSubtask:
		tasks, id, err := svc.AddSubtask(ctx, taskID)
		if err == nil && params.Title != nil {
			tasks, err = svc.EditTitle(ctx, taskID, &id, *params.Title)
		}
		res, rerr := mutationResult(action, fmt.Sprintf("Added subtask %d to task %d.", id, taskID), tasks, err)
		if res != nil && res.Error == "" {
			res.ID = id
		}
		return res, rerr

	case TaskActionToggle:
		tasks, err := svc.ToggleComplete(ctx, taskID, params.SubtaskID)
		return mutationResult(action, fmt.Sprintf("Toggled %s.", describe(taskID, params.SubtaskID)), tasks, err)

	case TaskActionEditTitle:
		if params.Title == nil {
			return failure(action, "title is required for edit_title"), nil
		}
		tasks, err := svc.EditTitle(ctx, taskID, params.SubtaskID, *params.Title)
		return mutationResult(action, fmt.Sprintf("Renamed %s.", describe(taskID, params.SubtaskID)), tasks, err)

	case TaskActionSetDue:
		due, err := task.ParseDueDate(params.DueDate)
		if err != nil {
			return failure(action, err.Error()), nil
		}
		tasks, err := svc.EditDueDate(ctx, taskID, due)
		msg := fmt.Sprintf("Cleared the due date of task %d.", taskID)
		if due != nil {
			msg = fmt.Sprintf("Task %d is due %s.", taskID, due.Format(models.DateLayout))
		}
		return mutationResult(action, msg, tasks, err)

	case TaskActionReorderSubtasks:
		if len(params.IDs) == 0 && len(params.Titles) == 0 {
			return failure(action, "ids or titles is required for reorder_subtasks"), nil
		}
		var (
			tasks []models.Task
			err   error
		)
		if len(params.IDs) > 0 {
			tasks, err = svc.ReorderSubtasks(ctx, taskID, params.IDs)
		} else {
			tasks, err = svc.ReorderSubtasksByTitle(ctx, taskID, params.Titles)
		}
		return mutationResult(action, fmt.Sprintf("Subtasks of task %d reordered.", taskID), tasks, err)

	case TaskActionExpand:
		tasks, err := svc.ToggleExpand(ctx, taskID)
		return mutationResult(action, fmt.Sprintf("Toggled expansion of task %d.", taskID), tasks, err)

	case TaskActionRemove:
		var (
			tasks []models.Task
			err   error
		)
		if params.SubtaskID != nil {
			tasks, err = svc.RemoveSubtask(ctx, taskID, *params.SubtaskID)
		} else {
			tasks, err = svc.RemoveTask(ctx, taskID)
		}
		return mutationResult(action, fmt.Sprintf("Removed %s.", describe(taskID, params.SubtaskID)), tasks, err)
	}

	// This should never happen due to IsValid() check above
	return failure(action, fmt.Sprintf("unsupported action: %s", action)), nil
}

// handleTaskList implements the 'list' action.
func handleTaskList(ctx context.Context, svc *task.Service, params TaskToolParams) (*TaskToolResult, error) {
	if params.Limit < 0 {
		return failure("list", "limit must not be negative"), nil
	}
	if _, err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	tasks, more := svc.Window(params.Limit)
	return &TaskToolResult{Action: "list", Content: FormatTaskList(tasks, more)}, nil
}

// handleTaskAdd implements the 'add' action, optionally titling and dating
// the new task.
func handleTaskAdd(ctx context.Context, svc *task.Service, params TaskToolParams) (*TaskToolResult, error) {
	due, err := task.ParseDueDate(params.DueDate)
	if err != nil {
		return failure("add", err.Error()), nil
	}
	tasks, id, err := svc.AddTask(ctx)
	if err == nil && params.Title != nil {
		tasks, err = svc.EditTitle(ctx, id, nil, *params.Title)
	}
	if err == nil && due != nil {
		tasks, err = svc.EditDueDate(ctx, id, due)
	}
	res, rerr := mutationResult("add", fmt.Sprintf("Added task %d.", id), tasks, err)
	if res != nil && res.Error == "" {
		res.ID = id
	}
	return res, rerr
}

// mutationResult turns a Service result into a tool result. Not-found and
// validation errors are reported to the caller; anything else is returned.
func mutationResult(action, message string, tasks []models.Task, err error) (*TaskToolResult, error) {
	if err != nil {
		if errors.Is(err, task.ErrNotFound) || errors.Is(err, task.ErrInvalid) {
			return failure(action, err.Error()), nil
		}
		return nil, err
	}
	return &TaskToolResult{Action: action, Content: FormatMutation(action, message, tasks)}, nil
}

func failure(action, msg string) *TaskToolResult {
	return &TaskToolResult{Action: action, Error: msg}
}

func describe(taskID int, subtaskID *int) string {
	if subtaskID != nil {
		return fmt.Sprintf("subtask %d of task %d", *subtaskID, taskID)
	}
	return fmt.Sprintf("task %d", taskID)
}

func joinActions() string {
	actions := ValidTaskActions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
