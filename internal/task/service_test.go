package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josephgoksu/TaskNest/models"
	"github.com/josephgoksu/TaskNest/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T) (*store.FileTaskStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	p, err := store.NewFileTaskStore(store.FileStoreConfig{Path: "/data/tasks.json", Fs: fs})
	require.NoError(t, err)
	return p, fs
}

func newTestService(t *testing.T, initial []models.Task) (*Service, *store.FileTaskStore) {
	t.Helper()
	p, _ := newMemStore(t)
	if initial != nil {
		require.NoError(t, p.Save(context.Background(), initial))
	}
	svc, err := Open(context.Background(), p)
	require.NoError(t, err)
	return svc, p
}

func ids(tasks []models.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func subIDs(t models.Task) []int {
	out := make([]int, len(t.Subtasks))
	for i, s := range t.Subtasks {
		out[i] = s.ID
	}
	return out
}

func intp(v int) *int { return &v }

// failingStore wraps a persister and fails every Save.
type failingStore struct {
	store.Persister
}

func (f failingStore) Save(context.Context, []models.Task) error {
	return &store.PersistenceError{Op: "save", Path: f.Path(), Err: errors.New("disk full")}
}

func TestOpen_SeedsWhenNothingPersisted(t *testing.T) {
	svc, p := newTestService(t, nil)
	assert.Equal(t, models.SeedTasks(), svc.Tasks())

	// The seed is not written until the first mutation.
	_, err := p.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrNoData)
}

func TestOpen_MalformedFileFails(t *testing.T) {
	p, fs := newMemStore(t)
	require.NoError(t, afero.WriteFile(fs, p.Path(), []byte("{not json"), 0o644))

	_, err := Open(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)
}

func TestAddTask(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection starts at 1", func(t *testing.T) {
		svc, _ := newTestService(t, []models.Task{})
		tasks, id, err := svc.AddTask(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, id)
		require.Len(t, tasks, 1)
		assert.Equal(t, models.DefaultTaskTitle, tasks[0].Title)
		assert.False(t, tasks[0].Completed)
		assert.Empty(t, tasks[0].DueDate)
		assert.Empty(t, tasks[0].Subtasks)
	})

	t.Run("max plus one, inserted at front", func(t *testing.T) {
		initial := []models.Task{models.NewTask(4), models.NewTask(9), models.NewTask(2)}
		svc, _ := newTestService(t, initial)
		tasks, id, err := svc.AddTask(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10, id)
		assert.Equal(t, []int{10, 4, 9, 2}, ids(tasks))
	})
}

func TestAddSubtask(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		existing []models.Subtask
		want     int
	}{
		{name: "first subtask is seeded from parent id", existing: nil, want: 51},
		{name: "max plus one", existing: []models.Subtask{{ID: 51}, {ID: 53}}, want: 54},
		{name: "below floor still uses floor", existing: []models.Subtask{{ID: 3}}, want: 51},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := models.NewTask(5)
			parent.Subtasks = append(parent.Subtasks, tt.existing...)
			svc, _ := newTestService(t, []models.Task{parent})

			tasks, id, err := svc.AddSubtask(ctx, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
			last := tasks[0].Subtasks[len(tasks[0].Subtasks)-1]
			assert.Equal(t, tt.want, last.ID, "new subtask is appended")
			assert.Equal(t, models.DefaultSubtaskTitle, last.Title)
		})
	}

	t.Run("missing task", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		_, _, err := svc.AddSubtask(ctx, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestToggleComplete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	original := svc.Tasks()

	tasks, err := svc.ToggleComplete(ctx, 1, nil)
	require.NoError(t, err)
	assert.True(t, tasks[0].Completed)

	tasks, err = svc.ToggleComplete(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, original, tasks, "two toggles restore the collection")

	tasks, err = svc.ToggleComplete(ctx, 1, intp(11))
	require.NoError(t, err)
	assert.False(t, tasks[0].Subtasks[0].Completed)
	assert.False(t, tasks[0].Completed, "parent untouched")
}

func TestNotFoundLeavesCollectionUnmodified(t *testing.T) {
	ctx := context.Background()
	svc, p := newTestService(t, models.SeedTasks())
	before := svc.Tasks()

	_, err := svc.ToggleComplete(ctx, 999, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 999, nf.TaskID)
	assert.Nil(t, nf.SubtaskID)

	_, err = svc.EditTitle(ctx, 1, intp(99), "x")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 1, nf.TaskID)
	require.NotNil(t, nf.SubtaskID)
	assert.Equal(t, 99, *nf.SubtaskID)
	assert.Equal(t, "subtask 99 of task 1 not found", err.Error())

	assert.Equal(t, before, svc.Tasks())
	persisted, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, persisted)
}

func TestEditTitle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	tasks, err := svc.EditTitle(ctx, 1, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "", tasks[0].Title, "empty titles are allowed")

	tasks, err = svc.EditTitle(ctx, 1, intp(12), "Gym <3")
	require.NoError(t, err)
	assert.Equal(t, "Gym <3", tasks[0].Subtasks[1].Title)
	assert.Equal(t, "Work blocks", tasks[0].Subtasks[0].Title)
}

func TestEditDueDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	due := time.Date(2026, time.March, 4, 15, 30, 0, 0, time.UTC)
	tasks, err := svc.EditDueDate(ctx, 1, &due)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", tasks[0].DueDate)

	tasks, err = svc.EditDueDate(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "", tasks[0].DueDate)

	_, err = svc.EditDueDate(ctx, 7, &due)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleExpand(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	require.True(t, svc.Tasks()[0].IsExpanded())

	tasks, err := svc.ToggleExpand(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, tasks[0].Expanded)
	assert.False(t, *tasks[0].Expanded)

	tasks, err = svc.ToggleExpand(ctx, 1)
	require.NoError(t, err)
	assert.True(t, tasks[0].IsExpanded())
}

func TestReorderTasks(t *testing.T) {
	ctx := context.Background()
	abc := func() []models.Task {
		a, b, c := models.NewTask(1), models.NewTask(2), models.NewTask(3)
		a.Title, b.Title, c.Title = "A", "B", "C"
		return []models.Task{a, b, c}
	}

	t.Run("preserves identity", func(t *testing.T) {
		svc, _ := newTestService(t, abc())
		tasks, err := svc.ReorderTasks(ctx, []int{3, 1, 2})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1, 2}, ids(tasks))
		assert.Equal(t, "C", tasks[0].Title)
		assert.Equal(t, "A", tasks[1].Title)
	})

	t.Run("missing key drops item", func(t *testing.T) {
		svc, _ := newTestService(t, abc())
		tasks, err := svc.ReorderTasks(ctx, []int{3, 1})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1}, ids(tasks))
	})

	t.Run("unknown and repeated keys ignored", func(t *testing.T) {
		svc, _ := newTestService(t, abc())
		tasks, err := svc.ReorderTasks(ctx, []int{2, 99, 2, 1, 3})
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1, 3}, ids(tasks))
	})

	t.Run("by title", func(t *testing.T) {
		svc, _ := newTestService(t, abc())
		tasks, err := svc.ReorderTasksByTitle(ctx, []string{"C", "A"})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1}, ids(tasks))
	})

	t.Run("duplicate titles keep the last", func(t *testing.T) {
		initial := abc()
		initial[2].Title = "A"
		svc, _ := newTestService(t, initial)
		tasks, err := svc.ReorderTasksByTitle(ctx, []string{"A", "B"})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2}, ids(tasks))
	})
}

func TestReorderSubtasks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	tasks, err := svc.ReorderSubtasks(ctx, 1, []int{12, 11})
	require.NoError(t, err)
	assert.Equal(t, []int{12, 11}, subIDs(tasks[0]))

	tasks, err = svc.ReorderSubtasksByTitle(ctx, 1, []string{"Work blocks"})
	require.NoError(t, err)
	assert.Equal(t, []int{11}, subIDs(tasks[0]))

	_, err = svc.ReorderSubtasks(ctx, 2, []int{21})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	initial := append(models.SeedTasks(), models.NewTask(2))
	svc, _ := newTestService(t, initial)

	tasks, err := svc.RemoveSubtask(ctx, 1, 11)
	require.NoError(t, err)
	assert.Equal(t, []int{12}, subIDs(tasks[0]))

	_, err = svc.RemoveSubtask(ctx, 1, 11)
	assert.ErrorIs(t, err, ErrNotFound)

	tasks, err = svc.RemoveTask(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ids(tasks))

	_, err = svc.RemoveTask(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveFailureLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	p, _ := newMemStore(t)
	svc, err := Open(ctx, failingStore{Persister: p})
	require.NoError(t, err)
	before := svc.Tasks()

	_, _, err = svc.AddTask(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)
	assert.Equal(t, before, svc.Tasks())
}

func TestSaveRejectsInvalidCollection(t *testing.T) {
	svc, _ := newTestService(t, nil)
	err := svc.Save(context.Background(), []models.Task{models.NewTask(1), models.NewTask(1)})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, models.SeedTasks(), svc.Tasks())
}

func TestMutationsPickUpExternalWrites(t *testing.T) {
	ctx := context.Background()
	p, _ := newMemStore(t)
	first, err := Open(ctx, p)
	require.NoError(t, err)
	second, err := Open(ctx, p)
	require.NoError(t, err)

	_, firstID, err := first.AddTask(ctx)
	require.NoError(t, err)
	tasks, secondID, err := second.AddTask(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, firstID)
	assert.Equal(t, 3, secondID, "second session sees the first session's task")
	assert.Equal(t, []int{3, 2, 1}, ids(tasks))
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	p, _ := newMemStore(t)
	svc, err := Open(ctx, p)
	require.NoError(t, err)

	changed, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, p.Save(ctx, []models.Task{models.NewTask(8)}))
	changed, err = svc.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []int{8}, ids(svc.Tasks()))
}

func TestWindow(t *testing.T) {
	var initial []models.Task
	for id := 1; id <= 7; id++ {
		initial = append(initial, models.NewTask(id))
	}
	svc, _ := newTestService(t, initial)

	tasks, more := svc.Window(5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(tasks))
	assert.Equal(t, 2, more)

	tasks, more = svc.Window(10)
	assert.Len(t, tasks, 7)
	assert.Zero(t, more)

	tasks, more = svc.Window(0)
	assert.Len(t, tasks, 7)
	assert.Zero(t, more)
}

func TestBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	_, _, err := svc.AddTask(ctx)
	require.NoError(t, err)
	want := svc.Tasks()

	fs := afero.NewMemMapFs()
	backup, err := store.NewFileTaskStore(store.FileStoreConfig{Path: "/backup/tasks.yaml", Format: store.FormatYAML, Fs: fs})
	require.NoError(t, err)
	require.NoError(t, svc.Backup(ctx, backup))

	_, err = svc.RemoveTask(ctx, 1)
	require.NoError(t, err)

	restored, err := svc.Restore(ctx, backup)
	require.NoError(t, err)
	assert.Equal(t, want, restored)

	empty, err := store.NewFileTaskStore(store.FileStoreConfig{Path: "/backup/none.json", Fs: fs})
	require.NoError(t, err)
	_, err = svc.Restore(ctx, empty)
	assert.ErrorIs(t, err, store.ErrNoData)
}

func TestSeedScenario(t *testing.T) {
	ctx := context.Background()
	p, _ := newMemStore(t)
	svc, err := Open(ctx, p)
	require.NoError(t, err)

	tasks, id, err := svc.AddSubtask(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 13, id)
	assert.Equal(t, []int{11, 12, 13}, subIDs(tasks[0]))

	tasks, err = svc.ReorderSubtasks(ctx, 1, []int{12, 13, 11})
	require.NoError(t, err)
	assert.Equal(t, []int{12, 13, 11}, subIDs(tasks[0]))
	assert.Equal(t, "Personal goals", tasks[0].Subtasks[0].Title)
	assert.Equal(t, models.DefaultSubtaskTitle, tasks[0].Subtasks[1].Title)
	assert.Equal(t, "Work blocks", tasks[0].Subtasks[2].Title)

	reopened, err := Open(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, tasks, reopened.Tasks())
}
