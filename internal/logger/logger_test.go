package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelWarn,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNew_TextAndFileFanout(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "tasknest.log")

	log, closer, err := New(Options{Level: "info", File: logFile, Writer: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("task added", "id", 3)
	require.NoError(t, closer.Close())

	text := buf.String()
	assert.NotContains(t, text, "hidden")
	assert.Contains(t, text, "task added")
	assert.Contains(t, text, "session="+SessionID())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "task added", rec["msg"])
	assert.Equal(t, float64(3), rec["id"])
	assert.Equal(t, SessionID(), rec["session"])
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Level: "error", Writer: &buf})
	require.NoError(t, err)

	log.Warn("first")
	SetLevel(slog.LevelDebug)
	log.Debug("second")

	assert.NotContains(t, buf.String(), "first")
	assert.Contains(t, buf.String(), "second")
}
