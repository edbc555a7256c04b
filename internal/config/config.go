// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied by MergeWithDefaults.
const (
	DefaultPort     = 8080
	DefaultLogLevel = "info"
	DefaultPageSize = 10
	DefaultSMTPPort = 587
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or come from the environment.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`

	LogLevel   string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	PrettyLogs bool   `json:"pretty_logs,omitempty" yaml:"pretty_logs,omitempty"`

	PageSize int `json:"page_size,omitempty" yaml:"page_size,omitempty"` // candidates per page

	// Notifications
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty" yaml:"notifications_enabled,omitempty"`
	SMTPHost             string `json:"smtp_host,omitempty" yaml:"smtp_host,omitempty"`
	SMTPPort             int    `json:"smtp_port,omitempty" yaml:"smtp_port,omitempty"`
	SMTPUser             string `json:"smtp_user,omitempty" yaml:"smtp_user,omitempty"`
	SMTPPassword         string `json:"smtp_password,omitempty" yaml:"smtp_password,omitempty"`
	SMTPFrom             string `json:"smtp_from,omitempty" yaml:"smtp_from,omitempty"`
}

// LoadConfig loads configuration from a file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from the environment. DATABASE_URL, PORT and the
// SMTP_* variables are honored when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTPHost = v
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		c.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTPPassword = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		c.SMTPFrom = v
	}
	if n, ok := getEnvInt("PORT"); ok {
		c.Port = n
	}
	if n, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTPPort = n
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.SMTPPort < 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("config error: 'smtp_port' must be between 0 and 65535")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("config error: 'page_size' must be non-negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config error: unknown log level %q", c.LogLevel)
	}
	if c.NotificationsEnabled && c.SMTPHost != "" && c.SMTPFrom == "" {
		return fmt.Errorf("config error: 'smtp_from' is required when 'smtp_host' is set")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then from the package defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = firstNonEmpty(defaults.LogLevel, DefaultLogLevel)
	}
	if result.SMTPHost == "" {
		result.SMTPHost = defaults.SMTPHost
	}
	if result.SMTPUser == "" {
		result.SMTPUser = defaults.SMTPUser
	}
	if result.SMTPPassword == "" {
		result.SMTPPassword = defaults.SMTPPassword
	}
	if result.SMTPFrom == "" {
		result.SMTPFrom = defaults.SMTPFrom
	}

	if result.Port == 0 {
		result.Port = firstPositive(defaults.Port, DefaultPort)
	}
	if result.PageSize == 0 {
		result.PageSize = firstPositive(defaults.PageSize, DefaultPageSize)
	}
	if result.SMTPPort == 0 {
		result.SMTPPort = firstPositive(defaults.SMTPPort, DefaultSMTPPort)
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
