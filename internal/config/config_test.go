package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/josephgoksu/TaskNest/store"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	SetDefaults()
	t.Cleanup(viper.Reset)
}

func withHome(t *testing.T, dir string) {
	t.Helper()
	orig := GetGlobalConfigDir
	GetGlobalConfigDir = func() (string, error) { return filepath.Join(dir, AppDirName), nil }
	t.Cleanup(func() { GetGlobalConfigDir = orig })
}

func TestGetDataFilePath_Explicit(t *testing.T) {
	resetViper(t)
	viper.Set("data.file", "/srv/tasks.yaml")
	assert.Equal(t, "/srv/tasks.yaml", GetDataFilePath())
}

func TestGetDataFilePath_LocalProjectDir(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir(AppDirName, 0o755))
	t.Setenv("XDG_DATA_HOME", "/xdg")

	assert.Equal(t, filepath.Join(AppDirName, "tasks.json"), GetDataFilePath())
}

func TestGetDataFilePath_XDG(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/xdg")
	viper.Set("data.format", "toml")

	assert.Equal(t, filepath.Join("/xdg", "tasknest", "tasks.toml"), GetDataFilePath())
}

func TestGetDataFilePath_GlobalFallback(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	home := t.TempDir()
	withHome(t, home)

	assert.Equal(t, filepath.Join(home, AppDirName, "tasks.json"), GetDataFilePath())
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)
	viper.Set("data.file", "/tmp/x/tasks.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Data.Format)
	assert.False(t, cfg.Data.Checksum)
	assert.Equal(t, DefaultPageSize, cfg.UI.PageSize)
	assert.True(t, cfg.UI.Color)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
}

func TestLoad_InfersFormatFromExtension(t *testing.T) {
	resetViper(t)
	viper.Set("data.file", "/tmp/x/tasks.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Data.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper(t)
	BindEnv()
	t.Setenv("TASKNEST_DATA_FILE", "/env/tasks.yml")
	t.Setenv("TASKNEST_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/env/tasks.yml", cfg.Data.File)
	assert.Equal(t, "yaml", cfg.Data.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	resetViper(t)
	viper.Set("data.file", "/tmp/tasks.json")

	viper.Set("data.format", "xml")
	_, err := Load()
	assert.Error(t, err)

	viper.Set("data.format", "json")
	viper.Set("ui.pageSize", 0)
	_, err = Load()
	assert.Error(t, err)
}

func TestGetCrashLogDir(t *testing.T) {
	assert.Equal(t, filepath.Join("/a/b", "crash_logs"), GetCrashLogDir("/a/b/tasks.json"))
}

func TestLoad_DatabaseFormats(t *testing.T) {
	resetViper(t)
	viper.Set("data.file", "/tmp/tasks.json")

	viper.Set("data.format", "mysql")
	_, err := Load()
	assert.Error(t, err)

	viper.Set("data.dsn", "tasks:secret@tcp(localhost:3306)/tasks")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Data.Format)

	viper.Set("data.format", "neo4j")
	_, err = Load()
	assert.ErrorContains(t, err, "data.neo4j.uri")

	viper.Set("data.neo4j.uri", "neo4j://localhost:7687")
	cfg, err = Load()
	require.NoError(t, err)

	sc := StoreConfig(cfg)
	assert.Equal(t, store.FormatNeo4j, sc.Format)
	assert.Equal(t, "neo4j://localhost:7687", sc.Neo4j.URI)
	assert.Equal(t, "neo4j", sc.Neo4j.Username)
	assert.Equal(t, "tasks:secret@tcp(localhost:3306)/tasks", sc.DSN)
}
