// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/waypoint/config.yaml",
	"/etc/waypoint/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths are keys that arrive from the environment as comma lists.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:    DriverDuckDB,
			Path:      "/data/waypoint.duckdb",
			MaxMemory: "2GB",
			Threads:   0,
		},
		Postgres: PostgresConfig{
			MaxConns:        10,
			ConnectTimeout:  10 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Server: ServerConfig{
			Port:        3857,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			DefaultTopK:      5,
			MaxTopK:          100,
			PublishBatchSize: 1000,
			RecalcInterval:   30 * time.Second,
			RecalcOnStartup:  true,
			RecalcTimeout:    30 * time.Minute,
			TriggerRate:      1.0,
			TriggerBurst:     1,
		},
		Import: ImportConfig{
			BatchSize: 500,
			Delimiter: ";",
		},
	}
}

// LoadWithKoanf merges defaults, the config file and environment variables,
// then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// processSliceFields splits comma-separated environment values into slices.
// Values that already are slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	"db_driver":         "database.driver",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	"database_url":              "postgres.dsn",
	"postgres_max_conns":        "postgres.max_conns",
	"postgres_connect_timeout":  "postgres.connect_timeout",
	"postgres_breaker_failures": "postgres.breaker_failures",
	"postgres_breaker_timeout":  "postgres.breaker_timeout",

	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"recommend_top_k":      "recommend.default_top_k",
	"recommend_max_top_k":  "recommend.max_top_k",
	"recommend_batch_size": "recommend.publish_batch_size",
	"recalc_interval":      "recommend.recalc_interval",
	"recalc_on_startup":    "recommend.recalc_on_startup",
	"recalc_timeout":       "recommend.recalc_timeout",
	"recalc_trigger_rate":  "recommend.trigger_rate",
	"recalc_trigger_burst": "recommend.trigger_burst",

	"import_attractions_path": "import.attractions_path",
	"import_ratings_path":     "import.ratings_path",
	"import_batch_size":       "import.batch_size",
	"import_delimiter":        "import.delimiter",
}

// envTransformFunc maps an environment variable to its koanf path.
// Unmapped variables return "" and are ignored, so unrelated process
// environment never leaks into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
