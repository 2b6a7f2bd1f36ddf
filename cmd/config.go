package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/josephgoksu/TaskNest/internal/config"
	"github.com/spf13/viper"
)

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's okay if it doesn't exist.
	_ = godotenv.Load()

	// Environment handling must be set up before reading the config file.
	config.BindEnv()
	config.SetDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		if _, err := os.Stat(config.AppDirName); err == nil {
			// Project-specific config directory exists. Prioritize it.
			viper.AddConfigPath(config.AppDirName) // ./.tasknest/.tasknest.yaml
		}
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home) // $HOME/.tasknest.yaml
		}
		viper.AddConfigPath(".") // ./.tasknest.yaml
		viper.SetConfigName(config.ConfigName)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			LogError("No config file found. Using defaults and environment variables", nil)
		case cfgFile != "":
			fmt.Fprintln(os.Stderr, "Error: could not read config file:", cfgFile, "-", err)
		default:
			// Config file was found but another error was produced (e.g., parsing error).
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
		return
	}
	LogError("Using config file: "+viper.ConfigFileUsed(), nil)
}
