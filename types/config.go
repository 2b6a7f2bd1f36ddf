/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool         `mapstructure:"verbose"`
	Config  string       `mapstructure:"config"`
	Data    DataConfig   `mapstructure:"data" validate:"required"`
	UI      UIConfig     `mapstructure:"ui"`
	Log     LogConfig    `mapstructure:"log"`
	Server  ServerConfig `mapstructure:"server"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	File     string `mapstructure:"file" validate:"required"`
	Format   string `mapstructure:"format" validate:"required,oneof=json yaml toml sqlite mysql neo4j"`
	Checksum bool   `mapstructure:"checksum"`
	// DSN is the MySQL data source name, e.g. user:pass@tcp(host:3306)/tasks
	DSN   string      `mapstructure:"dsn" validate:"required_if=Format mysql"`
	Neo4j Neo4jConfig `mapstructure:"neo4j"`
}

// Neo4jConfig locates the graph database used by the neo4j format
type Neo4jConfig struct {
	URI      string `mapstructure:"uri" validate:"omitempty,uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// UIConfig holds terminal rendering settings
type UIConfig struct {
	// PageSize is how many tasks a listing shows before "load more".
	PageSize int  `mapstructure:"pageSize" validate:"min=1,max=1000"`
	Color    bool `mapstructure:"color"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	// File, when set, receives JSON log records in addition to stderr.
	File string `mapstructure:"file"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}
