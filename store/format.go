package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/josephgoksu/TaskNest/models"
	yaml "gopkg.in/yaml.v3"
)

// Format names a persisted data format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatSQLite Format = "sqlite"
	FormatMySQL  Format = "mysql"
	FormatNeo4j  Format = "neo4j"
)

// IsFile reports whether f is a single-document file format.
func (f Format) IsFile() bool {
	return f == FormatJSON || f == FormatYAML || f == FormatTOML
}

// ParseFormat validates a format name, case-insensitively. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatTOML, FormatSQLite, FormatMySQL, FormatNeo4j:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported data format %q (supported: json, yaml, toml, sqlite, mysql, neo4j)", s)
	}
}

// FormatFromPath infers the format from a file extension, falling back to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatJSON
	}
}

// tomlDocument wraps the collection because TOML has no top-level arrays.
type tomlDocument struct {
	Tasks []models.Task `toml:"tasks"`
}

// encode serializes the collection with stable field order and indentation.
func encode(format Format, tasks []models.Task) ([]byte, error) {
	tasks = normalize(models.CloneTasks(tasks))
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tasks); err != nil {
			return nil, fmt.Errorf("marshal JSON: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return nil, fmt.Errorf("marshal YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal YAML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(tomlDocument{Tasks: tasks}); err != nil {
			return nil, fmt.Errorf("marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}
}

// decode parses a persisted document. Malformed input is reported, not repaired.
func decode(format Format, data []byte) ([]models.Task, error) {
	var tasks []models.Task
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("unmarshal YAML: %w", err)
		}
	case FormatTOML:
		var doc tomlDocument
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("unmarshal TOML: %w", err)
		}
		tasks = doc.Tasks
	default:
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}
	tasks = normalize(tasks)
	if err := models.ValidateCollection(tasks); err != nil {
		return nil, fmt.Errorf("invalid task data: %w", err)
	}
	return tasks, nil
}

// normalize replaces nil slices with empty ones so documents always carry
// "subtasks": [] and a missing collection reads back as empty.
func normalize(tasks []models.Task) []models.Task {
	if tasks == nil {
		return []models.Task{}
	}
	for i := range tasks {
		if tasks[i].Subtasks == nil {
			tasks[i].Subtasks = []models.Subtask{}
		}
	}
	return tasks
}
