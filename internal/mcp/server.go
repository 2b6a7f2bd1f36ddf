package mcp

import (
	"context"
	"log/slog"

	"github.com/josephgoksu/TaskNest/internal/task"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const taskToolDescription = `Manage the task list. Use the action parameter to select an operation:
- list: show tasks (optional limit)
- add: add a task at the top (optional title, due_date)
- add_subtask: append a subtask (task_id; optional title)
- toggle: flip completion (task_id; optional subtask_id)
- edit_title: rename (task_id, title; optional subtask_id)
- set_due: set or clear a due date (task_id; due_date YYYY-MM-DD or empty)
- reorder: reorder tasks (ids or titles; unlisted tasks are removed)
- reorder_subtasks: reorder subtasks (task_id; ids or titles; unlisted subtasks are removed)
- expand: toggle whether a task's subtasks are shown (task_id)
- remove: delete a task, or one subtask (task_id; optional subtask_id)`

// NewServer builds an MCP server exposing svc through the unified task tool.
func NewServer(svc *task.Service, version string, logger *slog.Logger) *mcpsdk.Server {
	if logger == nil {
		logger = slog.Default()
	}
	impl := &mcpsdk.Implementation{
		Name:    "tasknest-mcp",
		Version: version,
	}
	serverOpts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			logger.Info("MCP connection established", "data", svc.Path())
		},
	}
	server := mcpsdk.NewServer(impl, serverOpts)

	taskTool := &mcpsdk.Tool{
		Name:        "task",
		Description: taskToolDescription,
	}
	mcpsdk.AddTool(server, taskTool, taskToolHandler(svc, logger))
	return server
}

func taskToolHandler(svc *task.Service, logger *slog.Logger) mcpsdk.ToolHandlerFor[TaskToolParams, any] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[TaskToolParams]) (*mcpsdk.CallToolResultFor[any], error) {
		result, err := HandleTaskTool(ctx, svc, params.Arguments)
		if err != nil {
			logger.Error("task tool failed", "action", params.Arguments.Action, "error", err)
			return errorResponse(FormatError(err.Error())), nil
		}
		if result.Error != "" {
			return errorResponse(FormatError(result.Error)), nil
		}
		return markdownResponse(result.Content), nil
	}
}

func markdownResponse(markdown string) *mcpsdk.CallToolResultFor[any] {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}
}

func errorResponse(markdown string) *mcpsdk.CallToolResultFor[any] {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
		IsError: true,
	}
}
