// Package logger builds the process logger and handles crash reporting for TaskNest.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
)

var level = new(slog.LevelVar)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means warn.
	Level string
	// File, when set, also receives every record as JSON.
	File string
	// Writer receives text records. Nil means stderr.
	Writer io.Writer
}

// ParseLevel maps a level name onto slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}

// SetLevel changes the level of every logger built by New.
func SetLevel(l slog.Level) { level.Set(l) }

// New returns a logger that fans out to a text handler and, when opts.File
// is set, a JSON file handler. Every record carries a per-process session id.
// The returned closer closes the log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	l, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	level.Set(l)

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f
	}

	logger := slog.New(slogmulti.Fanout(handlers...)).With("session", SessionID())
	return logger, closer, nil
}

var sessionID = uuid.NewString()

// SessionID identifies this process in logs and crash reports.
func SessionID() string { return sessionID }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
