package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/graphcompiler/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Mapping config.FieldMapping

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// RedisURL enables the shared manifest store when set.
	RedisURL string
	CacheTTL time.Duration
	// CacheSize bounds the plans kept in process; 0 means
	// plancache.DefaultCapacity.
	CacheSize int
}

// NewConfig validates cfg and returns a copy. Empty log settings default to
// info level text output.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.HealthcheckPort < 0 {
		return nil, errors.New("healthcheck port must not be negative")
	}
	if cfg.CacheTTL < 0 {
		return nil, errors.New("cache TTL must not be negative")
	}
	if cfg.CacheSize < 0 {
		return nil, errors.New("cache size must not be negative")
	}
	if err := cfg.Mapping.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
