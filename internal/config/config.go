// Package config handles vdbctl configuration: the optional vdbctl.toml file
// in the skill root and the environment-variable contract (.env loading,
// API key access and masking).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the optional per-skill configuration file.
const ConfigFileName = "vdbctl.toml"

// LogLevel specifies the logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat specifies the log output format.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// ServiceConfig holds settings for the remote VideoDB service.
type ServiceConfig struct {
	// BaseURL is the API endpoint. Overridden by VIDEO_DB_BASE_URL when set.
	BaseURL string `toml:"base_url"`

	// RequestTimeout bounds every single API call.
	RequestTimeout time.Duration `toml:"request_timeout"`

	// DefaultCollection, when set, is used instead of the account default.
	DefaultCollection string `toml:"default_collection"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  LogLevel  `toml:"level"`
	Format LogFormat `toml:"format"`
	File   string    `toml:"file"`
}

// Config is the main configuration struct for vdbctl.
type Config struct {
	Service ServiceConfig `toml:"service"`
	Logging LoggingConfig `toml:"logging"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:        "https://api.videodb.io",
			RequestTimeout: 120 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
			File:   "",
		},
	}
}

// Load loads configuration from file, merging with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// LoadFromRoot loads configuration from the skill root directory.
func LoadFromRoot(root string) (*Config, error) {
	return Load(filepath.Join(root, ConfigFileName))
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service base_url is required")
	}
	if c.Service.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

// LogFile returns the absolute log file path, or "" when file logging is off.
func (c *Config) LogFile(baseDir string) string {
	if c.Logging.File == "" {
		return ""
	}
	if filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(baseDir, c.Logging.File)
}
