package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_ValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{
			name:    "valid task",
			task:    Task{ID: 1, Title: "Valid", DueDate: "2025-06-30"},
			wantErr: false,
		},
		{
			name:    "empty title is allowed",
			task:    Task{ID: 2, Title: ""},
			wantErr: false,
		},
		{
			name:    "zero id",
			task:    Task{ID: 0, Title: "Zero"},
			wantErr: true,
		},
		{
			name:    "bad due date",
			task:    Task{ID: 3, Title: "Bad date", DueDate: "30/06/2025"},
			wantErr: true,
		},
		{
			name: "bad subtask id",
			task: Task{ID: 4, Title: "Parent", Subtasks: []Subtask{
				{ID: 0, Title: "child"},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.task)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollection(t *testing.T) {
	t.Run("seed is valid", func(t *testing.T) {
		assert.NoError(t, ValidateCollection(SeedTasks()))
	})

	t.Run("duplicate task ids", func(t *testing.T) {
		tasks := []Task{NewTask(1), NewTask(1)}
		assert.Error(t, ValidateCollection(tasks))
	})

	t.Run("duplicate subtask ids within a parent", func(t *testing.T) {
		task := NewTask(1)
		task.Subtasks = []Subtask{NewSubtask(11), NewSubtask(11)}
		assert.Error(t, ValidateCollection([]Task{task}))
	})

	t.Run("same subtask id under different parents", func(t *testing.T) {
		a := NewTask(1)
		a.Subtasks = []Subtask{NewSubtask(21)}
		b := NewTask(2)
		b.Subtasks = []Subtask{NewSubtask(21)}
		assert.NoError(t, ValidateCollection([]Task{a, b}))
	})
}

func TestTask_JSONFieldOrder(t *testing.T) {
	data, err := json.Marshal(SeedTasks()[0])
	require.NoError(t, err)

	want := `{"id":1,"title":"Plan weekly schedule","completed":false,"dueDate":"2025-06-30",` +
		`"subtasks":[{"id":11,"title":"Work blocks","completed":true},{"id":12,"title":"Personal goals","completed":false}]}`
	assert.Equal(t, want, string(data))
}

func TestTask_ExpandedDefaults(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"title":"x","completed":false,"dueDate":"","subtasks":[]}`), &task))
	assert.Nil(t, task.Expanded)
	assert.True(t, task.IsExpanded())

	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"title":"x","expanded":false}`), &task))
	assert.False(t, task.IsExpanded())
}

func TestCloneTasks_IsDeep(t *testing.T) {
	collapsed := false
	orig := SeedTasks()
	orig[0].Expanded = &collapsed

	clone := CloneTasks(orig)
	clone[0].Title = "changed"
	clone[0].Subtasks[0].Completed = false
	*clone[0].Expanded = true

	assert.Equal(t, "Plan weekly schedule", orig[0].Title)
	assert.True(t, orig[0].Subtasks[0].Completed)
	assert.False(t, *orig[0].Expanded)
}

func TestTask_Due(t *testing.T) {
	task := NewTask(1)
	_, ok, err := task.Due()
	require.NoError(t, err)
	assert.False(t, ok)

	task.DueDate = "2025-06-30"
	due, ok, err := task.Due()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30, due.Day())
}

func TestFindHelpers(t *testing.T) {
	tasks := SeedTasks()
	assert.Equal(t, 0, FindTask(tasks, 1))
	assert.Equal(t, -1, FindTask(tasks, 999))
	assert.Equal(t, 1, FindSubtask(&tasks[0], 12))
	assert.Equal(t, -1, FindSubtask(&tasks[0], 13))
	assert.Equal(t, 1, tasks[0].CompletedSubtasks())
}
