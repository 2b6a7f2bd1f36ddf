package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/josephgoksu/TaskNest/models"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jConfig locates a Neo4j database.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string // empty means the server default
}

// Neo4jTaskStore persists the collection as a graph:
// (:TaskNestTask)-[:HAS_SUBTASK]->(:TaskNestSubtask), ordered by a position
// property. Save replaces the whole graph in one write transaction.
//
// Neo4j offers no advisory locks, so Lock only serializes writers within
// this process.
type Neo4jTaskStore struct {
	driver neo4j.DriverWithContext
	cfg    Neo4jConfig
	mu     sync.Mutex
}

const (
	cypherLoadMeta = `MATCH (m:TaskNestMeta {name: 'collection'}) RETURN m.savedAt AS savedAt`

	cypherLoadTasks = `
		MATCH (t:TaskNestTask)
		OPTIONAL MATCH (t)-[:HAS_SUBTASK]->(s:TaskNestSubtask)
		WITH t, s ORDER BY s.position
		WITH t, collect(s {.id, .title, .completed}) AS subtasks
		RETURN t.id AS id, t.title AS title, t.completed AS completed,
		       t.dueDate AS dueDate, t.expanded AS expanded, subtasks
		ORDER BY t.position`

	cypherClear = `
		MATCH (n) WHERE n:TaskNestTask OR n:TaskNestSubtask
		DETACH DELETE n`

	cypherCreate = `
		UNWIND $tasks AS t
		CREATE (task:TaskNestTask {id: t.id, position: t.position, title: t.title,
		                           completed: t.completed, dueDate: t.dueDate})
		SET task.expanded = t.expanded
		WITH task, t
		UNWIND t.subtasks AS s
		CREATE (task)-[:HAS_SUBTASK]->(:TaskNestSubtask {id: s.id, position: s.position,
		                                                 title: s.title, completed: s.completed})`

	cypherMarkSaved = `
		MERGE (m:TaskNestMeta {name: 'collection'})
		SET m.savedAt = $savedAt`
)

// NewNeo4jTaskStore connects to Neo4j and verifies the connection.
func NewNeo4jTaskStore(ctx context.Context, cfg Neo4jConfig) (*Neo4jTaskStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j URI is required")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("connect to %s: %w", cfg.URI, err)
	}
	return &Neo4jTaskStore{driver: driver, cfg: cfg}, nil
}

// Path returns the database URI, suffixed with the database name if set.
func (s *Neo4jTaskStore) Path() string {
	if s.cfg.Database != "" {
		return s.cfg.URI + "/" + s.cfg.Database
	}
	return s.cfg.URI
}

func (s *Neo4jTaskStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.cfg.Database})
}

// Load reads the graph back into an ordered collection.
func (s *Neo4jTaskStore) Load(ctx context.Context) ([]models.Task, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		meta, err := tx.Run(ctx, cypherLoadMeta, nil)
		if err != nil {
			return nil, err
		}
		metaRecords, err := meta.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(metaRecords) == 0 {
			return nil, ErrNoData
		}

		res, err := tx.Run(ctx, cypherLoadTasks, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]map[string]any, len(records))
		for i, r := range records {
			rows[i] = r.AsMap()
		}
		return rows, nil
	})
	if errors.Is(err, ErrNoData) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, persistErr("load", s.Path(), err)
	}

	tasks, err := tasksFromRows(result.([]map[string]any))
	if err != nil {
		return nil, persistErr("load", s.Path(), err)
	}
	if err := models.ValidateCollection(tasks); err != nil {
		return nil, persistErr("load", s.Path(), fmt.Errorf("invalid task data: %w", err))
	}
	return tasks, nil
}

// Save replaces the stored graph with tasks.
func (s *Neo4jTaskStore) Save(ctx context.Context, tasks []models.Task) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, cypherClear, nil); err != nil {
			return nil, fmt.Errorf("clear graph: %w", err)
		}
		if len(tasks) > 0 {
			if _, err := tx.Run(ctx, cypherCreate, map[string]any{"tasks": taskParams(tasks)}); err != nil {
				return nil, fmt.Errorf("create tasks: %w", err)
			}
		}
		if _, err := tx.Run(ctx, cypherMarkSaved, map[string]any{
			"savedAt": time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return nil, fmt.Errorf("update meta: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return persistErr("save", s.Path(), err)
	}
	return nil
}

// Lock serializes read-modify-write cycles within this process.
func (s *Neo4jTaskStore) Lock(ctx context.Context) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistErr("lock", s.Path(), err)
	}
	s.mu.Lock()
	return func() error { s.mu.Unlock(); return nil }, nil
}

// Close closes the driver.
func (s *Neo4jTaskStore) Close() error {
	return s.driver.Close(context.Background())
}

// taskParams converts the collection into Cypher parameters.
func taskParams(tasks []models.Task) []any {
	out := make([]any, 0, len(tasks))
	for pos, t := range tasks {
		subs := make([]any, 0, len(t.Subtasks))
		for subPos, st := range t.Subtasks {
			subs = append(subs, map[string]any{
				"id":        int64(st.ID),
				"position":  int64(subPos),
				"title":     st.Title,
				"completed": st.Completed,
			})
		}
		var expanded any
		if t.Expanded != nil {
			expanded = *t.Expanded
		}
		out = append(out, map[string]any{
			"id":        int64(t.ID),
			"position":  int64(pos),
			"title":     t.Title,
			"completed": t.Completed,
			"dueDate":   t.DueDate,
			"expanded":  expanded,
			"subtasks":  subs,
		})
	}
	return out
}

// tasksFromRows converts query rows (see cypherLoadTasks) into tasks.
func tasksFromRows(rows []map[string]any) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		id, err := asInt(row["id"])
		if err != nil {
			return nil, fmt.Errorf("task id: %w", err)
		}
		t := models.Task{
			ID:        id,
			Title:     asString(row["title"]),
			Completed: asBool(row["completed"]),
			DueDate:   asString(row["dueDate"]),
			Subtasks:  []models.Subtask{},
		}
		if v, ok := row["expanded"].(bool); ok {
			t.Expanded = &v
		}

		subs, _ := row["subtasks"].([]any)
		for _, raw := range subs {
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("task %d: unexpected subtask value %T", id, raw)
			}
			sid, err := asInt(m["id"])
			if err != nil {
				return nil, fmt.Errorf("task %d subtask id: %w", id, err)
			}
			t.Subtasks = append(t.Subtasks, models.Subtask{
				ID:        sid,
				Title:     asString(m["title"]),
				Completed: asBool(m["completed"]),
			})
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
