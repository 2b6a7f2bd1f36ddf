package mcp

import (
	"context"
	"testing"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/store"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *task.Service {
	t.Helper()
	p, err := store.NewFileTaskStore(store.FileStoreConfig{
		Path: "/data/tasks.json",
		Fs:   afero.NewMemMapFs(),
	})
	require.NoError(t, err)
	svc, err := task.Open(context.Background(), p)
	require.NoError(t, err)
	return svc
}

func intp(v int) *int       { return &v }
func strp(s string) *string { return &s }

func TestHandleTaskTool_InvalidAction(t *testing.T) {
	result, err := HandleTaskTool(context.Background(), nil, TaskToolParams{Action: "invalid_action"})
	require.NoError(t, err)
	assert.Equal(t, "invalid_action", result.Action)
	assert.Contains(t, result.Error, "must be one of: list, add,")
}

func TestHandleTaskTool_List(t *testing.T) {
	svc := newTestService(t)

	result, err := HandleTaskTool(context.Background(), svc, TaskToolParams{Action: TaskActionList})
	require.NoError(t, err)
	assert.Empty(t, result.Error)
	assert.Equal(t, "## Tasks (1)\n"+
		"- [ ] **1** Plan weekly schedule (due 2025-06-30) 1/2\n"+
		"  - [x] **11** Work blocks\n"+
		"  - [ ] **12** Personal goals", result.Content)

	result, err = HandleTaskTool(context.Background(), svc, TaskToolParams{Action: TaskActionList, Limit: -1})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Error)
}

func TestHandleTaskTool_AddAndSubtask(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	result, err := HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionAdd, Title: strp("Pay rent"), DueDate: "2025-07-01"})
	require.NoError(t, err)
	require.Empty(t, result.Error)
	assert.Equal(t, 2, result.ID)
	assert.Contains(t, result.Content, "## Add\n\nAdded task 2.")
	assert.Contains(t, result.Content, "**2** Pay rent (due 2025-07-01)")

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionAddSubtask, TaskID: intp(2), Title: strp("Transfer")})
	require.NoError(t, err)
	require.Empty(t, result.Error)
	assert.Equal(t, 21, result.ID)
	assert.Contains(t, result.Content, "## Add Subtask")
	assert.Equal(t, "Transfer", svc.Tasks()[0].Subtasks[0].Title)

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionAdd, DueDate: "soon"})
	require.NoError(t, err)
	assert.Contains(t, result.Error, "YYYY-MM-DD")
	assert.Len(t, svc.Tasks(), 2)
}

func TestHandleTaskTool_RequiresTaskID(t *testing.T) {
	for _, action := range []TaskAction{TaskActionAddSubtask, TaskActionToggle, TaskActionEditTitle,
		TaskActionSetDue, TaskActionReorderSubtasks, TaskActionExpand, TaskActionRemove} {
		result, err := HandleTaskTool(context.Background(), newTestService(t), TaskToolParams{Action: action})
		require.NoError(t, err)
		assert.Contains(t, result.Error, "task_id is required", action)
	}
}

func TestHandleTaskTool_Mutations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	result, err := HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionToggle, TaskID: intp(1), SubtaskID: intp(12)})
	require.NoError(t, err)
	require.Empty(t, result.Error)
	assert.Contains(t, result.Content, "Toggled subtask 12 of task 1.")
	assert.True(t, svc.Tasks()[0].Subtasks[1].Completed)

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionEditTitle, TaskID: intp(1), Title: strp("Plan month")})
	require.NoError(t, err)
	require.Empty(t, result.Error)
	assert.Equal(t, "Plan month", svc.Tasks()[0].Title)

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionEditTitle, TaskID: intp(1)})
	require.NoError(t, err)
	assert.Contains(t, result.Error, "title is required")

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionSetDue, TaskID: intp(1)})
	require.NoError(t, err)
	assert.Contains(t, result.Content, "Cleared the due date of task 1.")
	assert.Empty(t, svc.Tasks()[0].DueDate)

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionReorderSubtasks, TaskID: intp(1), Titles: []string{"Personal goals"}})
	require.NoError(t, err)
	require.Empty(t, result.Error)
	require.Len(t, svc.Tasks()[0].Subtasks, 1)
	assert.Equal(t, 12, svc.Tasks()[0].Subtasks[0].ID)

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionExpand, TaskID: intp(1)})
	require.NoError(t, err)
	require.Empty(t, result.Error)
	assert.False(t, svc.Tasks()[0].IsExpanded())

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionRemove, TaskID: intp(1), SubtaskID: intp(12)})
	require.NoError(t, err)
	require.Empty(t, result.Error)
	assert.Empty(t, svc.Tasks()[0].Subtasks)

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionReorder})
	require.NoError(t, err)
	assert.Contains(t, result.Error, "ids or titles")

	result, err = HandleTaskTool(ctx, svc, TaskToolParams{Action: TaskActionReorder, IDs: []int{7}})
	require.NoError(t, err)
	require.Empty(t, result.Error)
	assert.Empty(t, svc.Tasks())
	assert.Contains(t, result.Content, "No tasks.")
}

func TestHandleTaskTool_NotFound(t *testing.T) {
	svc := newTestService(t)
	result, err := HandleTaskTool(context.Background(), svc, TaskToolParams{Action: TaskActionRemove, TaskID: intp(9)})
	require.NoError(t, err)
	assert.Equal(t, "task 9 not found", result.Error)
	assert.Len(t, svc.Tasks(), 1)
}

func TestTaskToolHandler(t *testing.T) {
	svc := newTestService(t)
	handler := taskToolHandler(svc, nil)

	res, err := handler(context.Background(), nil, &mcpsdk.CallToolParamsFor[TaskToolParams]{
		Arguments: TaskToolParams{Action: TaskActionToggle, TaskID: intp(1)},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	assert.Contains(t, res.Content[0].(*mcpsdk.TextContent).Text, "Toggled task 1.")

	res, err = handler(context.Background(), nil, &mcpsdk.CallToolParamsFor[TaskToolParams]{
		Arguments: TaskToolParams{Action: TaskActionToggle, TaskID: intp(5)},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "## Error\n\n**Details**: task 5 not found", res.Content[0].(*mcpsdk.TextContent).Text)
}

func TestNewServer(t *testing.T) {
	assert.NotNil(t, NewServer(newTestService(t), "test", nil))
}
