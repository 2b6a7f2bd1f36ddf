package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/josephgoksu/TaskNest/models"
	_ "modernc.org/sqlite"
)

// locker is implemented by fileLocker and mysqlLocker.
type locker interface {
	lock(ctx context.Context) (func() error, error)
	close() error
}

// dialect holds what differs between the SQL backends.
type dialect struct {
	driver string
	schema []string
}

var sqliteDialect = dialect{
	driver: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS tasknest_meta (
			name TEXT PRIMARY KEY,
			val TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasknest_tasks (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			due_date TEXT NOT NULL DEFAULT '',
			expanded INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS tasknest_subtasks (
			task_id INTEGER NOT NULL,
			id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (task_id, id),
			FOREIGN KEY (task_id) REFERENCES tasknest_tasks(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasknest_tasks_position ON tasknest_tasks(position)`,
		`CREATE INDEX IF NOT EXISTS idx_tasknest_subtasks_position ON tasknest_subtasks(task_id, position)`,
	},
}

var mysqlDialect = dialect{
	driver: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS tasknest_meta (
			name VARCHAR(64) PRIMARY KEY,
			val VARCHAR(255) NOT NULL
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS tasknest_tasks (
			id BIGINT PRIMARY KEY,
			position INT NOT NULL,
			title TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			due_date VARCHAR(10) NOT NULL DEFAULT '',
			expanded BOOLEAN NULL,
			INDEX idx_tasknest_tasks_position (position)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS tasknest_subtasks (
			task_id BIGINT NOT NULL,
			id BIGINT NOT NULL,
			position INT NOT NULL,
			title TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (task_id, id),
			INDEX idx_tasknest_subtasks_position (task_id, position),
			FOREIGN KEY (task_id) REFERENCES tasknest_tasks(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	},
}

// SQLTaskStore persists the collection in SQLite or MySQL tables.
// Collection and subtask order are kept in explicit position columns.
type SQLTaskStore struct {
	db       *sql.DB
	dialect  dialect
	location string
	locker   locker
}

// NewSQLiteTaskStore opens (creating if needed) the SQLite database at dbPath.
func NewSQLiteTaskStore(dbPath string) (*SQLTaskStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open(sqliteDialect.driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps transactions and PRAGMAs on the same handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return newSQLTaskStore(db, sqliteDialect, dbPath, newFileLocker(dbPath, true))
}

// NewMySQLTaskStore connects to the MySQL database named by dsn, e.g.
// "user:pass@tcp(127.0.0.1:3306)/tasknest".
func NewMySQLTaskStore(ctx context.Context, dsn string) (*SQLTaskStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse MySQL DSN: %w", err)
	}
	location := redactDSN(cfg)

	db, err := sql.Open(mysqlDialect.driver, cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to %s: %w", location, err)
	}

	lockName := "tasknest:" + cfg.DBName
	return newSQLTaskStore(db, mysqlDialect, location, &mysqlLocker{db: db, name: lockName})
}

func newSQLTaskStore(db *sql.DB, d dialect, location string, l locker) (*SQLTaskStore, error) {
	s := &SQLTaskStore{db: db, dialect: d, location: location, locker: l}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// redactDSN renders a DSN without its password, for logs and errors.
func redactDSN(cfg *mysql.Config) string {
	c := cfg.Clone()
	if c.Passwd != "" {
		c.Passwd = "xxxxx"
	}
	return c.FormatDSN()
}

// initSchema creates the database tables if they don't exist.
func (s *SQLTaskStore) initSchema() error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the database path, or the DSN without its password.
func (s *SQLTaskStore) Path() string { return s.location }

// Load reads the collection ordered by position. A database that has never
// been saved to reports ErrNoData.
func (s *SQLTaskStore) Load(ctx context.Context) ([]models.Task, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx, `SELECT val FROM tasknest_meta WHERE name = 'saved_at'`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, persistErr("load", s.location, fmt.Errorf("query meta: %w", err))
	}

	tasks, index, err := s.loadTasks(ctx)
	if err != nil {
		return nil, persistErr("load", s.location, err)
	}
	if err := s.loadSubtasks(ctx, tasks, index); err != nil {
		return nil, persistErr("load", s.location, err)
	}

	if err := models.ValidateCollection(tasks); err != nil {
		return nil, persistErr("load", s.location, fmt.Errorf("invalid task data: %w", err))
	}
	return tasks, nil
}

func (s *SQLTaskStore) loadTasks(ctx context.Context) ([]models.Task, map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, completed, due_date, expanded
		FROM tasknest_tasks ORDER BY position
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []models.Task{}
	index := make(map[int]int)
	for rows.Next() {
		var t models.Task
		var expanded sql.NullBool
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.DueDate, &expanded); err != nil {
			return nil, nil, fmt.Errorf("scan task: %w", err)
		}
		if expanded.Valid {
			v := expanded.Bool
			t.Expanded = &v
		}
		t.Subtasks = []models.Subtask{}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, index, nil
}

func (s *SQLTaskStore) loadSubtasks(ctx context.Context, tasks []models.Task, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, id, title, completed
		FROM tasknest_subtasks ORDER BY task_id, position
	`)
	if err != nil {
		return fmt.Errorf("query subtasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var taskID int
		var st models.Subtask
		if err := rows.Scan(&taskID, &st.ID, &st.Title, &st.Completed); err != nil {
			return fmt.Errorf("scan subtask: %w", err)
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Subtasks = append(tasks[i].Subtasks, st)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate subtasks: %w", err)
	}
	return nil
}

// Save replaces every row in a single transaction.
func (s *SQLTaskStore) Save(ctx context.Context, tasks []models.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("save", s.location, fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM tasknest_subtasks`,
		`DELETE FROM tasknest_tasks`,
		`DELETE FROM tasknest_meta WHERE name = 'saved_at'`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return persistErr("save", s.location, fmt.Errorf("clear tables: %w", err))
		}
	}

	for pos, t := range tasks {
		var expanded any
		if t.Expanded != nil {
			expanded = *t.Expanded
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasknest_tasks (id, position, title, completed, due_date, expanded)
			VALUES (?, ?, ?, ?, ?, ?)
		`, t.ID, pos, t.Title, t.Completed, t.DueDate, expanded); err != nil {
			return persistErr("save", s.location, fmt.Errorf("insert task %d: %w", t.ID, err))
		}
		for subPos, st := range t.Subtasks {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tasknest_subtasks (task_id, id, position, title, completed)
				VALUES (?, ?, ?, ?, ?)
			`, t.ID, st.ID, subPos, st.Title, st.Completed); err != nil {
				return persistErr("save", s.location, fmt.Errorf("insert subtask %d/%d: %w", t.ID, st.ID, err))
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tasknest_meta (name, val) VALUES ('saved_at', ?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return persistErr("save", s.location, fmt.Errorf("update meta: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return persistErr("save", s.location, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Lock acquires the cross-process lock for a read-modify-write cycle.
func (s *SQLTaskStore) Lock(ctx context.Context) (func() error, error) {
	unlock, err := s.locker.lock(ctx)
	if err != nil {
		return nil, persistErr("lock", s.location, err)
	}
	return unlock, nil
}

// Close closes the database and releases the lock.
func (s *SQLTaskStore) Close() error {
	lockErr := s.locker.close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return lockErr
}

// mysqlLocker serializes writers with a MySQL named lock held on a
// dedicated connection for the duration of the cycle.
type mysqlLocker struct {
	db   *sql.DB
	name string
}

// mysqlLockTimeout is passed to GET_LOCK, in seconds.
const mysqlLockTimeout = 10

func (l *mysqlLocker) lock(ctx context.Context) (func() error, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}
	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, `SELECT GET_LOCK(?, ?)`, l.name, mysqlLockTimeout).Scan(&got); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("acquire named lock %s: %w", l.name, err)
	}
	if !got.Valid || got.Int64 != 1 {
		_ = conn.Close()
		return nil, fmt.Errorf("acquire named lock %s: timed out", l.name)
	}
	return func() error {
		defer func() { _ = conn.Close() }()
		_, err := conn.ExecContext(context.Background(), `SELECT RELEASE_LOCK(?)`, l.name)
		return err
	}, nil
}

func (l *mysqlLocker) close() error { return nil }
