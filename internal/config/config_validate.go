// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks the merged configuration. Error messages name the
// environment variable an operator would set to fix the problem.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DB_DRIVER=duckdb")
		}
		if c.Database.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must be >= 0")
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
		if c.Postgres.MaxConns <= 0 {
			return fmt.Errorf("POSTGRES_MAX_CONNS must be positive")
		}
		if c.Postgres.BreakerFailures == 0 {
			return fmt.Errorf("POSTGRES_BREAKER_FAILURES must be positive")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be one of: duckdb, postgres (got %q)", c.Database.Driver)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
			}
		}
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultTopK <= 0 {
		return fmt.Errorf("RECOMMEND_TOP_K must be positive")
	}
	if r.MaxTopK < r.DefaultTopK {
		return fmt.Errorf("RECOMMEND_MAX_TOP_K must be >= RECOMMEND_TOP_K")
	}
	if r.PublishBatchSize <= 0 {
		return fmt.Errorf("RECOMMEND_BATCH_SIZE must be positive")
	}
	if r.RecalcInterval <= 0 {
		return fmt.Errorf("RECALC_INTERVAL must be positive")
	}
	if r.RecalcTimeout <= 0 {
		return fmt.Errorf("RECALC_TIMEOUT must be positive")
	}
	if r.TriggerRate <= 0 {
		return fmt.Errorf("RECALC_TRIGGER_RATE must be positive")
	}
	if r.TriggerBurst < 1 {
		return fmt.Errorf("RECALC_TRIGGER_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateImport() error {
	if !c.Import.Enabled() {
		return nil
	}
	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be positive")
	}
	if utf8.RuneCountInString(c.Import.Delimiter) != 1 {
		return fmt.Errorf("IMPORT_DELIMITER must be a single character")
	}
	return nil
}

func (c *Config) validateLogging() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
