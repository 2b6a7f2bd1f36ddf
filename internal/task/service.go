package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/josephgoksu/TaskNest/models"
	"github.com/josephgoksu/TaskNest/store"
)

// Service owns one session's task collection and keeps it in sync with a
// store.Persister. Every successful mutation is persisted before it returns;
// a failed save leaves the in-memory collection as it was.
//
// Service is safe for concurrent use.
type Service struct {
	mu     sync.Mutex
	store  store.Persister
	logger *slog.Logger
	seed   func() []models.Task
	tasks  []models.Task
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for debug and warning output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed overrides the collection used when nothing has been persisted yet.
func WithSeed(seed func() []models.Task) Option {
	return func(s *Service) {
		if seed != nil {
			s.seed = seed
		}
	}
}

// Open creates a Service backed by p and loads the collection.
func Open(ctx context.Context, p store.Persister, opts ...Option) (*Service, error) {
	if p == nil {
		return nil, fmt.Errorf("persister is required")
	}
	s := &Service{
		store:  p,
		logger: slog.Default(),
		seed:   models.SeedTasks,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns where the collection is persisted.
func (s *Service) Path() string { return s.store.Path() }

// Tasks returns a copy of the current collection.
func (s *Service) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneTasks(s.tasks)
}

// Window returns the first n tasks and how many follow them. n <= 0 returns
// the whole collection.
func (s *Service) Window(n int) ([]models.Task, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || n >= len(s.tasks) {
		return models.CloneTasks(s.tasks), 0
	}
	return models.CloneTasks(s.tasks[:n]), len(s.tasks) - n
}

// Load reads the persisted collection, replacing the in-memory one. When
// nothing has been persisted yet the seed collection is used and not written.
func (s *Service) Load(ctx context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNoData):
		s.logger.Debug("no persisted tasks, using seed collection", "path", s.store.Path())
		tasks = s.seed()
	case err != nil:
		return nil, err
	}
	s.tasks = tasks
	return models.CloneTasks(tasks), nil
}

// Reload re-reads the persisted collection and reports whether it differs
// from the one held in memory.
func (s *Service) Reload(ctx context.Context) (bool, error) {
	before := s.Tasks()
	after, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	return !reflect.DeepEqual(before, after), nil
}

// Save overwrites the persisted collection with tasks.
func (s *Service) Save(ctx context.Context, tasks []models.Task) error {
	if err := models.ValidateCollection(tasks); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	next := models.CloneTasks(tasks)
	_, err := s.mutate(ctx, "save", func([]models.Task) ([]models.Task, error) {
		return next, nil
	})
	return err
}

// Backup writes the current collection to dst.
func (s *Service) Backup(ctx context.Context, dst store.Persister) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.store.Lock(ctx)
	if err != nil {
		return err
	}
	defer s.release(unlock)

	if err := s.refreshLocked(ctx); err != nil {
		return err
	}
	if err := dst.Save(ctx, s.tasks); err != nil {
		return err
	}
	s.logger.Info("backup written", "path", dst.Path(), "tasks", len(s.tasks))
	return nil
}

// Restore replaces the collection with the one persisted in src.
func (s *Service) Restore(ctx context.Context, src store.Persister) ([]models.Task, error) {
	tasks, err := src.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			return nil, fmt.Errorf("restore from %s: %w", src.Path(), err)
		}
		return nil, err
	}
	if err := s.Save(ctx, tasks); err != nil {
		return nil, err
	}
	s.logger.Info("collection restored", "path", src.Path(), "tasks", len(tasks))
	return s.Tasks(), nil
}

// AddTask inserts a new task at the front of the collection and returns its id.
func (s *Service) AddTask(ctx context.Context) ([]models.Task, int, error) {
	var id int
	tasks, err := s.mutate(ctx, "add_task", func(tasks []models.Task) ([]models.Task, error) {
		id = nextTaskID(tasks)
		return append([]models.Task{models.NewTask(id)}, tasks...), nil
	})
	if err != nil {
		return nil, 0, err
	}
	return tasks, id, nil
}

// AddSubtask appends a new subtask to taskID and returns its id.
func (s *Service) AddSubtask(ctx context.Context, taskID int) ([]models.Task, int, error) {
	var id int
	tasks, err := s.mutate(ctx, "add_subtask", func(tasks []models.Task) ([]models.Task, error) {
		i := models.FindTask(tasks, taskID)
		if i < 0 {
			return nil, taskNotFound(taskID)
		}
		id = nextSubtaskID(tasks[i])
		tasks[i].Subtasks = append(tasks[i].Subtasks, models.NewSubtask(id))
		return tasks, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return tasks, id, nil
}

// ToggleComplete flips the completed flag of a task, or of one of its
// subtasks when subtaskID is non-nil.
func (s *Service) ToggleComplete(ctx context.Context, taskID int, subtaskID *int) ([]models.Task, error) {
	return s.mutate(ctx, "toggle_complete", func(tasks []models.Task) ([]models.Task, error) {
		t, st, err := resolve(tasks, taskID, subtaskID)
		if err != nil {
			return nil, err
		}
		if st != nil {
			st.Completed = !st.Completed
		} else {
			t.Completed = !t.Completed
		}
		return tasks, nil
	})
}

// EditTitle sets the title of a task or subtask. Any string is accepted.
func (s *Service) EditTitle(ctx context.Context, taskID int, subtaskID *int, title string) ([]models.Task, error) {
	return s.mutate(ctx, "edit_title", func(tasks []models.Task) ([]models.Task, error) {
		t, st, err := resolve(tasks, taskID, subtaskID)
		if err != nil {
			return nil, err
		}
		if st != nil {
			st.Title = title
		} else {
			t.Title = title
		}
		return tasks, nil
	})
}

// EditDueDate sets a task's due date. A nil date clears it.
func (s *Service) EditDueDate(ctx context.Context, taskID int, due *time.Time) ([]models.Task, error) {
	return s.mutate(ctx, "edit_due_date", func(tasks []models.Task) ([]models.Task, error) {
		t, _, err := resolve(tasks, taskID, nil)
		if err != nil {
			return nil, err
		}
		if due == nil {
			t.DueDate = ""
		} else {
			t.DueDate = due.Format(models.DateLayout)
		}
		return tasks, nil
	})
}

// ToggleExpand flips a task's expanded flag.
func (s *Service) ToggleExpand(ctx context.Context, taskID int) ([]models.Task, error) {
	return s.mutate(ctx, "toggle_expand", func(tasks []models.Task) ([]models.Task, error) {
		t, _, err := resolve(tasks, taskID, nil)
		if err != nil {
			return nil, err
		}
		expanded := !t.IsExpanded()
		t.Expanded = &expanded
		return tasks, nil
	})
}

// ReorderTasks rebuilds the collection in the order of ids. Unknown and
// repeated ids are ignored; tasks not listed are dropped.
func (s *Service) ReorderTasks(ctx context.Context, ids []int) ([]models.Task, error) {
	return s.mutate(ctx, "reorder_tasks", func(tasks []models.Task) ([]models.Task, error) {
		return reorder(tasks, func(t models.Task) int { return t.ID }, ids), nil
	})
}

// ReorderTasksByTitle is ReorderTasks keyed by title. With duplicate titles
// only the last task carrying each title survives.
func (s *Service) ReorderTasksByTitle(ctx context.Context, titles []string) ([]models.Task, error) {
	return s.mutate(ctx, "reorder_tasks", func(tasks []models.Task) ([]models.Task, error) {
		return reorder(tasks, func(t models.Task) string { return t.Title }, titles), nil
	})
}

// ReorderSubtasks rebuilds one task's subtask list in the order of ids.
func (s *Service) ReorderSubtasks(ctx context.Context, taskID int, ids []int) ([]models.Task, error) {
	return s.mutate(ctx, "reorder_subtasks", func(tasks []models.Task) ([]models.Task, error) {
		t, _, err := resolve(tasks, taskID, nil)
		if err != nil {
			return nil, err
		}
		t.Subtasks = reorder(t.Subtasks, func(st models.Subtask) int { return st.ID }, ids)
		return tasks, nil
	})
}

// ReorderSubtasksByTitle is ReorderSubtasks keyed by title.
func (s *Service) ReorderSubtasksByTitle(ctx context.Context, taskID int, titles []string) ([]models.Task, error) {
	return s.mutate(ctx, "reorder_subtasks", func(tasks []models.Task) ([]models.Task, error) {
		t, _, err := resolve(tasks, taskID, nil)
		if err != nil {
			return nil, err
		}
		t.Subtasks = reorder(t.Subtasks, func(st models.Subtask) string { return st.Title }, titles)
		return tasks, nil
	})
}

// RemoveTask deletes a task and its subtasks.
func (s *Service) RemoveTask(ctx context.Context, taskID int) ([]models.Task, error) {
	return s.mutate(ctx, "remove_task", func(tasks []models.Task) ([]models.Task, error) {
		i := models.FindTask(tasks, taskID)
		if i < 0 {
			return nil, taskNotFound(taskID)
		}
		return append(tasks[:i], tasks[i+1:]...), nil
	})
}

// RemoveSubtask deletes one subtask from a task.
func (s *Service) RemoveSubtask(ctx context.Context, taskID, subtaskID int) ([]models.Task, error) {
	return s.mutate(ctx, "remove_subtask", func(tasks []models.Task) ([]models.Task, error) {
		t, _, err := resolve(tasks, taskID, nil)
		if err != nil {
			return nil, err
		}
		j := models.FindSubtask(t, subtaskID)
		if j < 0 {
			return nil, subtaskNotFound(taskID, subtaskID)
		}
		t.Subtasks = append(t.Subtasks[:j], t.Subtasks[j+1:]...)
		return tasks, nil
	})
}

// mutate runs one read-modify-write cycle: lock, refresh from storage, apply
// fn to a copy, save, and only then commit the copy in memory.
func (s *Service) mutate(ctx context.Context, op string, fn func([]models.Task) ([]models.Task, error)) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.store.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer s.release(unlock)

	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}

	next, err := fn(models.CloneTasks(s.tasks))
	if err != nil {
		return nil, err
	}
	if next == nil {
		next = []models.Task{}
	}
	if err := s.store.Save(ctx, next); err != nil {
		s.logger.Warn("save failed, collection unchanged", "op", op, "path", s.store.Path(), "error", err)
		return nil, err
	}
	s.tasks = next
	s.logger.Debug("tasks saved", "op", op, "path", s.store.Path(), "count", len(next))
	return models.CloneTasks(next), nil
}

// refreshLocked picks up writes made by other processes. With nothing
// persisted yet, the in-memory collection is kept.
func (s *Service) refreshLocked(ctx context.Context) error {
	tasks, err := s.store.Load(ctx)
	if errors.Is(err, store.ErrNoData) {
		return nil
	}
	if err != nil {
		return err
	}
	s.tasks = tasks
	return nil
}

func (s *Service) release(unlock func() error) {
	if err := unlock(); err != nil {
		s.logger.Warn("failed to release store lock", "path", s.store.Path(), "error", err)
	}
}

// resolve locates a task, and a subtask within it when subtaskID is set.
// The returned pointers alias tasks.
func resolve(tasks []models.Task, taskID int, subtaskID *int) (*models.Task, *models.Subtask, error) {
	i := models.FindTask(tasks, taskID)
	if i < 0 {
		return nil, nil, taskNotFound(taskID)
	}
	t := &tasks[i]
	if subtaskID == nil {
		return t, nil, nil
	}
	j := models.FindSubtask(t, *subtaskID)
	if j < 0 {
		return nil, nil, subtaskNotFound(taskID, *subtaskID)
	}
	return t, &t.Subtasks[j], nil
}
