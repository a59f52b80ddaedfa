// Package config holds the application configuration, loaded from
// environment variables with sensible local-first defaults.
package config

import (
	"fmt"
	"time"

	"github.com/timewise-app/timewise/internal/env"
)

// Storage backend names.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	// Storage configuration. The fs backend keeps the snapshot in a
	// single JSON file; sqlite keeps it in a local database file.
	StorageBackend string `env:"TIMEWISE_STORAGE_BACKEND" default:"fs"`
	StoragePath    string `env:"TIMEWISE_STORAGE_PATH" default:"./timewise-data/timewise.json"`

	// TickInterval is the refresh interval of the live elapsed-time
	// display.
	TickInterval time.Duration `env:"TIMEWISE_TICK_INTERVAL" default:"1s"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Validate is called by env.Parse after loading.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFS, BackendSQLite:
	default:
		return fmt.Errorf("unknown TIMEWISE_STORAGE_BACKEND: %s", c.StorageBackend)
	}

	if c.StoragePath == "" {
		return fmt.Errorf("TIMEWISE_STORAGE_PATH is required")
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("TIMEWISE_TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}

	return nil
}
