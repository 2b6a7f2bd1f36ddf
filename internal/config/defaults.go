// Package config provides centralized configuration constants for TaskNest.
// All default values should be defined here to ensure a single source of truth.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppDirName is the per-project and per-user data directory name.
	AppDirName = ".tasknest"

	// ConfigName is the config file base name, e.g. .tasknest.yaml
	ConfigName = ".tasknest"

	// EnvPrefix prefixes environment overrides, e.g. TASKNEST_DATA_FORMAT
	EnvPrefix = "TASKNEST"

	// DataFileName is the default data file name inside the data directory.
	DataFileName = "tasks.json"
)

// Defaults for every configuration key.
const (
	DefaultDataFormat = "json"
	DefaultPageSize   = 5
	DefaultLogLevel   = "warn"
	DefaultServerAddr = "127.0.0.1:8765"
)

// SetDefaults registers the default value of every key.
// An empty data.format is inferred from the data file extension.
func SetDefaults() {
	viper.SetDefault("data.file", "")
	viper.SetDefault("data.format", "")
	viper.SetDefault("data.checksum", false)
	viper.SetDefault("data.dsn", "")
	viper.SetDefault("data.neo4j.uri", "")
	viper.SetDefault("data.neo4j.username", "neo4j")
	viper.SetDefault("data.neo4j.password", "")
	viper.SetDefault("data.neo4j.database", "")
	viper.SetDefault("ui.pageSize", DefaultPageSize)
	viper.SetDefault("ui.color", true)
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.file", "")
	viper.SetDefault("server.addr", DefaultServerAddr)
}

// newEnvKeyReplacer maps nested keys to env names: data.file -> DATA_FILE.
func newEnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// BindEnv wires TASKNEST_* environment variables into viper.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(newEnvKeyReplacer())
}
