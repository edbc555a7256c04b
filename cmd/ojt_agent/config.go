package main

import (
	"fmt"

	"github.com/jonathan/ojt-matcher/internal/config"
	"github.com/jonathan/ojt-matcher/internal/logging"
	"github.com/rs/zerolog"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
}

// loadAppConfig reads the optional config file, applies the environment and
// fills defaults.
func loadAppConfig(path string) (config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	merged := cfg.MergeWithDefaults(config.Config{})
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logging.Configure(logging.Config{
		Level:  logging.Level(cfg.LogLevel),
		Pretty: cfg.PrettyLogs,
	})
}

func requireDatabaseURL(cfg config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required: set DATABASE_URL or database_url in the config file")
	}
	return nil
}
