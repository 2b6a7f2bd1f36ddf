package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/TaskNest/store"
	"github.com/josephgoksu/TaskNest/types"
	"github.com/spf13/viper"
)

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// Load unmarshals the current viper state into an AppConfig, resolves the
// data file and format, and validates the result.
func Load() (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Data.File == "" {
		cfg.Data.File = GetDataFilePath()
	}
	if strings.TrimSpace(cfg.Data.Format) == "" {
		cfg.Data.Format = string(store.FormatFromPath(cfg.Data.File))
	} else {
		format, err := store.ParseFormat(cfg.Data.Format)
		if err != nil {
			return types.AppConfig{}, err
		}
		cfg.Data.Format = string(format)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := validate.Struct(cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Data.Format == string(store.FormatNeo4j) && cfg.Data.Neo4j.URI == "" {
		return types.AppConfig{}, fmt.Errorf("invalid configuration: format neo4j requires data.neo4j.uri")
	}
	return cfg, nil
}

// StoreConfig maps the data section onto a persister configuration.
func StoreConfig(cfg types.AppConfig) store.Config {
	return store.Config{
		Path:     cfg.Data.File,
		Format:   store.Format(cfg.Data.Format),
		Checksum: cfg.Data.Checksum,
		DSN:      cfg.Data.DSN,
		Neo4j: store.Neo4jConfig{
			URI:      cfg.Data.Neo4j.URI,
			Username: cfg.Data.Neo4j.Username,
			Password: cfg.Data.Neo4j.Password,
			Database: cfg.Data.Neo4j.Database,
		},
	}
}
