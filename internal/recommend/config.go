// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package recommend

import "fmt"

// Config contains engine limits.
type Config struct {
	// DefaultTopK is used when a caller passes topK <= 0.
	DefaultTopK int `json:"default_top_k"`

	// MaxTopK caps any requested topK.
	MaxTopK int `json:"max_top_k"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultTopK: 5,
		MaxTopK:     100,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DefaultTopK <= 0 {
		return fmt.Errorf("default_top_k must be positive, got %d", c.DefaultTopK)
	}
	if c.MaxTopK < c.DefaultTopK {
		return fmt.Errorf("max_top_k (%d) must be >= default_top_k (%d)", c.MaxTopK, c.DefaultTopK)
	}
	return nil
}

// clampTopK resolves a requested topK against the configured bounds.
func (c *Config) clampTopK(k int) int {
	if k <= 0 {
		return c.DefaultTopK
	}
	if k > c.MaxTopK {
		return c.MaxTopK
	}
	return k
}
