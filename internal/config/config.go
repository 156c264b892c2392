// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package config loads Waypoint's layered configuration.
//
// Values are resolved in three layers, later layers winning:
//
//  1. Struct defaults (defaultConfig)
//  2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/waypoint/config.yaml)
//  3. Environment variables, through the explicit mapping in envTransformFunc
//
// The merged result is validated before it is returned; an invalid
// configuration is fatal at startup.
package config

import "time"

// Store drivers accepted by DatabaseConfig.Driver.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Import    ImportConfig    `koanf:"import"`
}

// DatabaseConfig selects the store and configures the embedded DuckDB one.
type DatabaseConfig struct {
	// Driver is duckdb (embedded, single process) or postgres.
	Driver string `koanf:"driver"`

	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads is the DuckDB worker thread count; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`

	// SeedDemoData loads a small demo catalog and rating set into an empty store.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// PostgresConfig configures the PostgreSQL store.
type PostgresConfig struct {
	DSN            string        `koanf:"dsn"`
	MaxConns       int32         `koanf:"max_conns"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// BreakerFailures consecutive failures open the store circuit breaker.
	BreakerFailures uint32 `koanf:"breaker_failures"`
	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds scoring and similarity-cache settings.
type RecommendConfig struct {
	DefaultTopK      int `koanf:"default_top_k"`
	MaxTopK          int `koanf:"max_top_k"`
	PublishBatchSize int `koanf:"publish_batch_size"`

	// RecalcInterval is how often the worker polls the invalidation queue.
	RecalcInterval  time.Duration `koanf:"recalc_interval"`
	RecalcOnStartup bool          `koanf:"recalc_on_startup"`
	RecalcTimeout   time.Duration `koanf:"recalc_timeout"`

	// TriggerRate and TriggerBurst throttle early cycles requested by rating writes.
	TriggerRate  float64 `koanf:"trigger_rate"`
	TriggerBurst int     `koanf:"trigger_burst"`
}

// ImportConfig configures the startup CSV import. Empty paths disable it.
type ImportConfig struct {
	AttractionsPath string `koanf:"attractions_path"`
	RatingsPath     string `koanf:"ratings_path"`
	BatchSize       int    `koanf:"batch_size"`
	Delimiter       string `koanf:"delimiter"`
}

// Enabled reports whether any import file is configured.
func (c ImportConfig) Enabled() bool {
	return c.AttractionsPath != "" || c.RatingsPath != ""
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
