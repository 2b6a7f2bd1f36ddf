/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/josephgoksu/TaskNest/internal/config"
	"github.com/josephgoksu/TaskNest/internal/logger"
	"github.com/josephgoksu/TaskNest/internal/ui"
	"github.com/josephgoksu/TaskNest/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"

	// appConfig is the validated configuration for the running command.
	appConfig types.AppConfig
	appLogger = slog.Default()
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tasknest",
	Short: "TaskNest - a nested to-do list for the terminal",
	Long: `TaskNest keeps an ordered list of tasks, each with optional subtasks and a due date.
Every change is written to the data file immediately, so the list survives restarts
and can be shared by the CLI, the HTTP API and MCP clients at the same time.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		PrintError(userMessage(err), err)
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.tasknest/.tasknest.yaml or $HOME/.tasknest.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.Bool("json", false, "print machine-readable JSON")
	pf.String("file", "", "task data file (overrides data.file)")
	pf.String("format", "", "data format: json, yaml, toml, sqlite, mysql or neo4j (default: from the file extension)")
}

// flagKeys maps persistent flags onto configuration keys.
var flagKeys = map[string]string{
	"config":  "config",
	"verbose": "verbose",
	"json":    "json",
	"file":    "data.file",
	"format":  "data.format",
}

// bindFlags binds persistent flags into viper. It runs on every invocation
// so bindings survive viper.Reset.
func bindFlags(cmd *cobra.Command) {
	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = viper.BindPFlag(key, f)
		}
	})
}

// setup loads configuration and wires logging, crash reporting and styling
// before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	bindFlags(cmd)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	l, closer, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logger.SetLevel(slog.LevelDebug)
	}
	appLogger, logCloser = l, closer

	logger.SetBasePath(filepath.Dir(cfg.Data.File))
	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath(), args)
	logger.SetDataFile(cfg.Data.File)

	ui.SetColor(cfg.UI.Color && !isJSON() && ui.IsInteractive(os.Stdout))
	appLogger.Debug("configuration loaded",
		"config", viper.ConfigFileUsed(), "data", cfg.Data.File, "format", cfg.Data.Format)
	return nil
}
