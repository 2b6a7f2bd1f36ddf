package config

import (
	"os"
	"path/filepath"

	"github.com/josephgoksu/TaskNest/store"
	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global data directory (~/.tasknest).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, AppDirName), nil
}

// defaultFileName picks the data file name for a format.
func defaultFileName(format string) string {
	switch store.Format(format) {
	case store.FormatYAML:
		return "tasks.yaml"
	case store.FormatTOML:
		return "tasks.toml"
	case store.FormatSQLite:
		return "tasks.db"
	default:
		return DataFileName
	}
}

// GetDataFilePath returns the path of the task data file.
// Resolution order (first match wins):
// 1. Explicit config via "data.file" (Viper/env/flag)
// 2. Local project directory: .tasknest/ (if exists)
// 3. XDG_DATA_HOME/tasknest/
// 4. Global fallback: ~/.tasknest/
func GetDataFilePath() string {
	if path := viper.GetString("data.file"); path != "" {
		return path
	}

	name := defaultFileName(viper.GetString("data.format"))

	if info, err := os.Stat(AppDirName); err == nil && info.IsDir() {
		return filepath.Join(AppDirName, name)
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "tasknest", name)
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}

// GetCrashLogDir returns where crash reports are written: next to the data file.
func GetCrashLogDir(dataFile string) string {
	return filepath.Join(filepath.Dir(dataFile), "crash_logs")
}
