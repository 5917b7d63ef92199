// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package posfind

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/poiesic/posfind/search"
)

// Config holds the settings for a catalog database and the services built on it.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	// Path is the BadgerDB directory. Created if missing.
	Path string `yaml:"path" env:"POSFIND_DB_PATH" env-default:"./posfind.db"`
	// InMemory keeps the catalog in memory only; Path is ignored.
	InMemory bool `yaml:"in_memory" env:"POSFIND_DB_IN_MEMORY" env-default:"false"`
}

// SearchConfig holds matcher settings.
type SearchConfig struct {
	// Language is the BCP 47 tag whose collation breaks ranking ties.
	Language string `yaml:"language" env:"POSFIND_SEARCH_LANGUAGE" env-default:"und"`
	// CacheSize bounds the normalization cache. 0 disables it.
	CacheSize int `yaml:"cache_size" env:"POSFIND_SEARCH_CACHE_SIZE" env-default:"4096"`
	// MissingPhraseLast ranks products that only match word by word after
	// products containing the whole query.
	MissingPhraseLast bool `yaml:"missing_phrase_last" env:"POSFIND_SEARCH_MISSING_PHRASE_LAST" env-default:"false"`
	// MaxHits is the default result limit. 0 means unlimited.
	MaxHits int `yaml:"max_hits" env:"POSFIND_SEARCH_MAX_HITS" env-default:"0"`
}

// ImportConfig holds catalog import settings.
type ImportConfig struct {
	// PoolSize is the number of concurrent batch writers. 0 picks NumCPU/2.
	PoolSize   int           `yaml:"pool_size"   env:"POSFIND_IMPORT_POOL_SIZE"   env-default:"0"`
	BatchSize  int           `yaml:"batch_size"  env:"POSFIND_IMPORT_BATCH_SIZE"  env-default:"100"`
	MaxRetries int           `yaml:"max_retries" env:"POSFIND_IMPORT_MAX_RETRIES" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"POSFIND_IMPORT_RETRY_DELAY" env-default:"20ms"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"POSFIND_LOG_LEVEL" env-default:"info"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDatabasePath sets the BadgerDB directory.
func WithDatabasePath(path string) ConfigOption {
	return func(c *Config) {
		c.Database.Path = path
	}
}

// WithInMemory keeps the catalog in memory only.
func WithInMemory() ConfigOption {
	return func(c *Config) {
		c.Database.InMemory = true
	}
}

// WithLanguage sets the collation language used to break ranking ties.
func WithLanguage(tag string) ConfigOption {
	return func(c *Config) {
		c.Search.Language = tag
	}
}

// WithCacheSize sets the normalization cache size.
func WithCacheSize(size int) ConfigOption {
	return func(c *Config) {
		c.Search.CacheSize = size
	}
}

// WithMissingPhraseLast ranks word-by-word matches after whole-phrase matches.
func WithMissingPhraseLast(enabled bool) ConfigOption {
	return func(c *Config) {
		c.Search.MissingPhraseLast = enabled
	}
}

// WithMaxHits sets the default result limit.
func WithMaxHits(maxHits int) ConfigOption {
	return func(c *Config) {
		c.Search.MaxHits = maxHits
	}
}

// WithPoolSize sets the number of concurrent import writers.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.Import.PoolSize = size
	}
}

// WithBatchSize sets the number of products per import transaction.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.Import.BatchSize = size
	}
}

// WithMaxRetries sets how many times a conflicting import write is attempted.
func WithMaxRetries(attempts int) ConfigOption {
	return func(c *Config) {
		c.Import.MaxRetries = attempts
	}
}

// WithRetryDelay sets the base delay between import retries.
func WithRetryDelay(delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.Import.RetryDelay = delay
	}
}

// WithLogLevel sets the log level name.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.Log.Level = level
	}
}

// DefaultConfig returns a Config with the same defaults LoadConfig applies.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./posfind.db",
		},
		Search: SearchConfig{
			Language:  "und",
			CacheSize: 4096,
		},
		Import: ImportConfig{
			BatchSize:  100,
			MaxRetries: 5,
			RetryDelay: 20 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithDatabasePath("/var/lib/posfind"),
//	    WithLanguage("fr"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfig reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// With an empty path only the environment and defaults are read.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if !c.Database.InMemory && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if _, err := search.ParseLanguage(c.Search.Language); err != nil {
		return fmt.Errorf("%w: search.language: %w", ErrInvalidConfig, err)
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("%w: search.cache_size must be >= 0 (got %d)", ErrInvalidConfig, c.Search.CacheSize)
	}
	if c.Search.MaxHits < 0 {
		return fmt.Errorf("%w: search.max_hits must be >= 0 (got %d)", ErrInvalidConfig, c.Search.MaxHits)
	}
	if c.Import.PoolSize < 0 {
		return fmt.Errorf("%w: import.pool_size must be >= 0 (got %d)", ErrInvalidConfig, c.Import.PoolSize)
	}
	if c.Import.BatchSize < 1 {
		return fmt.Errorf("%w: import.batch_size must be > 0 (got %d)", ErrInvalidConfig, c.Import.BatchSize)
	}
	if c.Import.MaxRetries < 1 {
		return fmt.Errorf("%w: import.max_retries must be > 0 (got %d)", ErrInvalidConfig, c.Import.MaxRetries)
	}
	if c.Import.RetryDelay < 0 {
		return fmt.Errorf("%w: import.retry_delay must be >= 0 (got %s)", ErrInvalidConfig, c.Import.RetryDelay)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, level)
	}
}
