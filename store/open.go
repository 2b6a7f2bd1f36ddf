package store

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
)

// Config selects and configures a Persister.
type Config struct {
	Path     string // data file, or SQLite database file
	Format   Format
	Checksum bool
	Fs       afero.Fs
	DSN      string // MySQL data source name
	Neo4j    Neo4jConfig
}

// Open returns the Persister for cfg.Format.
func Open(ctx context.Context, cfg Config) (Persister, error) {
	format, err := ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSQLite:
		return NewSQLiteTaskStore(cfg.Path)
	case FormatMySQL:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("format mysql requires data.dsn")
		}
		return NewMySQLTaskStore(ctx, cfg.DSN)
	case FormatNeo4j:
		return NewNeo4jTaskStore(ctx, cfg.Neo4j)
	default:
		return NewFileTaskStore(FileStoreConfig{
			Path:     cfg.Path,
			Format:   format,
			Checksum: cfg.Checksum,
			Fs:       cfg.Fs,
		})
	}
}
