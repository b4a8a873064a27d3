// Package config holds minerdash settings: where the snapshot lives, which entry to show,
// and the optional integrations.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"minerdash/internal/database/relational"
	"minerdash/internal/snapshot"
)

// Config contains configurable parameters for every minerdash entry point.
// Use Default() to get sensible defaults, then override as needed.
type Config struct {
	// Snapshot selection
	DataPath      string `yaml:"data_path" env:"MINERDASH_DATA"`   // Path to the static data file (default: "assets/data/miners.json")
	SnapshotIndex int    `yaml:"snapshot_index" env:"MINERDASH_INDEX"` // Entry shown by the dashboard (default: 19)

	// Fleet store
	DuckDBPath          string        `yaml:"duckdb_path" env:"MINERDASH_DUCKDB"` // "" keeps the fleet table in memory
	DuckDBThreads       int           `yaml:"duckdb_threads"`
	DuckDBMemoryLimitGB int           `yaml:"duckdb_memory_limit_gb"`
	DuckDBTimeout       time.Duration `yaml:"duckdb_timeout"` // Bounds the initial connect; 0 waits indefinitely

	// MCP server
	ServerName    string `yaml:"server_name"`
	ServerVersion string `yaml:"server_version"`

	// Gemini (optional; ask tool is disabled without a key)
	GeminiAPIKey string        `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	GeminiModel  string        `yaml:"gemini_model" env:"GEMINI_MODEL"`
	AskTimeout   time.Duration `yaml:"ask_timeout"`

	// UI
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		DataPath:      "assets/data/miners.json",
		SnapshotIndex: snapshot.DefaultIndex,

		ServerName:    "minerdash",
		ServerVersion: "1.0.0",

		GeminiModel: "flash",
		AskTimeout:  60 * time.Second,

		LoadTimeout: 10 * time.Second,
	}
}

// Load reads an optional YAML file over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, cfg.Validate()
}

// WithDataPath returns a copy of the config with a different data file.
func (c Config) WithDataPath(path string) Config {
	c.DataPath = path
	return c
}

// WithSnapshotIndex returns a copy of the config showing a different entry.
func (c Config) WithSnapshotIndex(i int) Config {
	c.SnapshotIndex = i
	return c
}

// WithGemini returns a copy of the config with Gemini credentials.
func (c Config) WithGemini(apiKey, model string) Config {
	c.GeminiAPIKey = apiKey
	c.GeminiModel = model
	return c
}

// AskEnabled reports whether the Gemini tool should be offered.
func (c Config) AskEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Source builds the snapshot source described by the config.
func (c Config) Source() snapshot.Source {
	return snapshot.NewFileSource(c.DataPath, c.SnapshotIndex)
}

// DuckDBOptions translates the fleet store settings into client options.
// Zero values are left out so DuckDB keeps its own defaults.
func (c Config) DuckDBOptions() []relational.DuckDBOption {
	var opts []relational.DuckDBOption
	if c.DuckDBThreads > 0 {
		opts = append(opts, relational.WithThreads(c.DuckDBThreads))
	}
	if c.DuckDBMemoryLimitGB > 0 {
		opts = append(opts, relational.WithMemoryLimit(c.DuckDBMemoryLimitGB))
	}
	if c.DuckDBTimeout > 0 {
		opts = append(opts, relational.WithTimeout(c.DuckDBTimeout))
	}
	return opts
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.DataPath == "" {
		return &ConfigError{Field: "DataPath", Message: "must not be empty"}
	}
	if c.SnapshotIndex < 0 {
		return &ConfigError{Field: "SnapshotIndex", Message: "must not be negative"}
	}
	if c.DuckDBThreads < 0 {
		return &ConfigError{Field: "DuckDBThreads", Message: "must not be negative"}
	}
	if c.DuckDBMemoryLimitGB < 0 {
		return &ConfigError{Field: "DuckDBMemoryLimitGB", Message: "must not be negative"}
	}
	if c.DuckDBTimeout < 0 {
		return &ConfigError{Field: "DuckDBTimeout", Message: "must not be negative"}
	}
	if c.LoadTimeout <= 0 {
		return &ConfigError{Field: "LoadTimeout", Message: "must be positive"}
	}
	if c.AskEnabled() && c.AskTimeout <= 0 {
		return &ConfigError{Field: "AskTimeout", Message: "must be positive when Gemini is enabled"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

// IsConfigError reports whether err came from validation.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
