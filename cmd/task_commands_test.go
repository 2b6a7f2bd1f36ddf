package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(tasks []models.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func subIDs(t models.Task) []int {
	out := make([]int, len(t.Subtasks))
	for i, st := range t.Subtasks {
		out[i] = st.ID
	}
	return out
}

func TestList_JSON(t *testing.T) {
	file := seedFile(t, testTasks())

	tasks := runJSON(t, "list", "--file", file)
	assert.Equal(t, []int{2, 1}, ids(tasks))
	assert.Equal(t, "2025-06-30", tasks[1].DueDate)

	tasks = runJSON(t, "list", "--file", file, "--limit", "1")
	assert.Equal(t, []int{2}, ids(tasks))
}

func TestList_MissingFileUsesSeed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.json")

	tasks := runJSON(t, "list", "--file", file)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Plan weekly schedule", tasks[0].Title)

	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err), "reading must not create the data file")
}

func TestList_Text(t *testing.T) {
	file := seedFile(t, testTasks())

	out, err := runCLI(t, "list", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Book flights")
	assert.Contains(t, out, "Personal goals")

	_, err = runCLI(t, "list", "--file", file, "--limit", "-1")
	assert.ErrorContains(t, err, "--limit")
}

func TestAdd_TaskAndSubtask(t *testing.T) {
	file := seedFile(t, testTasks())

	tasks := runJSON(t, "add", "--file", file, "--title", "Pay rent", "--due", "2025-07-01")
	require.Equal(t, []int{3, 2, 1}, ids(tasks))
	assert.Equal(t, "Pay rent", tasks[0].Title)
	assert.Equal(t, "2025-07-01", tasks[0].DueDate)

	tasks = runJSON(t, "sub", "--file", file, "3", "Call", "landlord")
	assert.Equal(t, []int{31}, subIDs(tasks[0]))
	assert.Equal(t, "Call landlord", tasks[0].Subtasks[0].Title)

	tasks = runJSON(t, "sub", "--file", file, "1")
	assert.Equal(t, []int{11, 12, 13}, subIDs(tasks[2]))
	assert.Equal(t, models.DefaultSubtaskTitle, tasks[2].Subtasks[2].Title)

	// Persisted: a fresh run sees the same collection.
	assert.Equal(t, tasks, runJSON(t, "list", "--file", file))
}

func TestAdd_Errors(t *testing.T) {
	file := seedFile(t, testTasks())

	_, err := runCLI(t, "add", "--file", file, "--due", "next week")
	assert.ErrorIs(t, err, task.ErrInvalid)

	_, err = runCLI(t, "sub", "--file", file, "9")
	assert.ErrorIs(t, err, task.ErrNotFound)

	// Nothing was written by the failed commands.
	assert.Equal(t, []int{2, 1}, ids(runJSON(t, "list", "--file", file)))
}

func TestDone_Toggles(t *testing.T) {
	file := seedFile(t, testTasks())

	out, err := runCLI(t, "done", "--file", file, "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Task 2 marked done.")

	out, err = runCLI(t, "done", "--file", file, "1", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "Subtask 11 of task 1 marked not done.")

	tasks := runJSON(t, "list", "--file", file)
	assert.True(t, tasks[0].Completed)
	assert.False(t, tasks[1].Subtasks[0].Completed)

	_, err = runCLI(t, "done", "--file", file, "abc")
	assert.ErrorContains(t, err, `invalid task id "abc"`)

	_, err = runCLI(t, "done", "--file", file, "1", "99")
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestExpand_Toggles(t *testing.T) {
	file := seedFile(t, testTasks())

	out, err := runCLI(t, "expand", "--file", file, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task 1 collapsed.")
	assert.NotContains(t, out, "Personal goals")

	tasks := runJSON(t, "expand", "--file", file, "1")
	assert.True(t, tasks[1].IsExpanded())
}

func TestEdit_TaskAndSubtask(t *testing.T) {
	file := seedFile(t, testTasks())

	tasks := runJSON(t, "edit", "--file", file, "2", "Book trains")
	assert.Equal(t, "Book trains", tasks[0].Title)

	tasks = runJSON(t, "edit", "--file", file, "1", "12", "Personal goals for July")
	assert.Equal(t, "Personal goals for July", tasks[1].Subtasks[1].Title)

	tasks = runJSON(t, "edit", "--file", file, "2", "")
	assert.Equal(t, "", tasks[0].Title)

	_, err := runCLI(t, "edit", "--file", file, "5", "x")
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestDue_SetAndClear(t *testing.T) {
	file := seedFile(t, testTasks())

	out, err := runCLI(t, "due", "--file", file, "2", "2025-08-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Task 2 is due 2025-08-15.")

	tasks := runJSON(t, "due", "--file", file, "1", "--clear")
	assert.Equal(t, "", tasks[1].DueDate)
	assert.Equal(t, "2025-08-15", tasks[0].DueDate)

	_, err = runCLI(t, "due", "--file", file, "1")
	assert.ErrorContains(t, err, "--clear")

	_, err = runCLI(t, "due", "--file", file, "1", "2025-02-30")
	assert.ErrorIs(t, err, task.ErrInvalid)
}

func TestMove_Reorders(t *testing.T) {
	file := seedFile(t, testTasks())

	tasks := runJSON(t, "move", "--file", file, "1", "2", "1", "7")
	assert.Equal(t, []int{1, 2}, ids(tasks))

	tasks = runJSON(t, "move", "--file", file, "--task", "1", "12", "11")
	assert.Equal(t, []int{12, 11}, subIDs(tasks[0]))

	tasks = runJSON(t, "move", "--file", file, "--by-title", "Book flights")
	assert.Equal(t, []int{2}, ids(tasks), "unlisted tasks are dropped")
}

func TestMove_ReportsDropped(t *testing.T) {
	file := seedFile(t, testTasks())

	out, err := runCLI(t, "move", "--file", file, "--task", "1", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "Subtasks of task 1 reordered. 1 not listed and removed.")
}

func TestRm_TaskAndSubtask(t *testing.T) {
	file := seedFile(t, testTasks())

	out, err := runCLI(t, "rm", "--file", file, "1", "11", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed subtask 11 "Work blocks" of task 1.`)

	tasks := runJSON(t, "rm", "--file", file, "2", "--yes")
	assert.Equal(t, []int{1}, ids(tasks))
	assert.Equal(t, []int{12}, subIDs(tasks[0]))

	_, err = runCLI(t, "rm", "--file", file, "2", "--yes")
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestBackupRestore(t *testing.T) {
	file := seedFile(t, testTasks())
	backup := filepath.Join(t.TempDir(), "backup.yaml")

	out, err := runCLI(t, "backup", "--file", file, backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Backed up 2 task(s)")

	runJSON(t, "rm", "--file", file, "1", "--yes")
	tasks := runJSON(t, "restore", "--file", file, backup, "--yes")
	assert.Equal(t, testTasks(), tasks)

	_, err = runCLI(t, "restore", "--file", file, filepath.Join(t.TempDir(), "missing.json"), "--yes")
	assert.Error(t, err)

	_, err = runCLI(t, "backup", "--file", file, backup, "--to", "neo4j")
	assert.ErrorContains(t, err, "not supported")
}

func TestExport(t *testing.T) {
	file := seedFile(t, testTasks())

	out, err := runCLI(t, "export", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "# Tasks")
	assert.Contains(t, out, "Book flights")

	dst := filepath.Join(t.TempDir(), "out", "tasks.json")
	_, err = runCLI(t, "export", "--file", file, "--as", "json", "--output", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	var exported []models.Task
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, []int{2, 1}, ids(exported))

	_, err = runCLI(t, "export", "--file", file, "--as", "pdf")
	assert.ErrorContains(t, err, "--output")

	_, err = runCLI(t, "export", "--file", file, "--as", "docx")
	assert.Error(t, err)
}

func TestCrashes_Empty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.json")

	out, err := runCLI(t, "crashes", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "No crash reports")
}
