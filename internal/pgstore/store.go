// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/waypoint/internal/config"
	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// DefaultPublishBatchSize is the number of rows per COPY in ReplaceSimilarityTable.
const DefaultPublishBatchSize = 1000

const (
	defaultMaxConns       = 10
	defaultConnectTimeout = 10 * time.Second
)

// Store is the PostgreSQL implementation of recommend.Store. Rating
// mutations are observed by triggers, which append invalidation markers and
// refresh the aggregate rating.
type Store struct {
	pool             *pgxpool.Pool
	cb               *gobreaker.CircuitBreaker[any]
	publishBatchSize int
}

var (
	_ recommend.Store        = (*Store)(nil)
	_ recommend.RecalcLocker = (*Store)(nil)
)

// New connects to PostgreSQL, verifies the connection and ensures the schema.
func New(ctx context.Context, cfg *config.PostgresConfig) (*Store, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	if poolCfg.MaxConns <= 0 {
		poolCfg.MaxConns = defaultMaxConns
	}
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &Store{
		pool:             pool,
		cb:               newBreaker(cfg.BreakerFailures, cfg.BreakerTimeout),
		publishBatchSize: DefaultPublishBatchSize,
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logging.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("PostgreSQL store connected")
	return s, nil
}

// SetPublishBatchSize sets the number of rows per COPY. Values <= 0
// restore the default.
func (s *Store) SetPublishBatchSize(n int) {
	if n <= 0 {
		n = DefaultPublishBatchSize
	}
	s.publishBatchSize = n
}

// Ping verifies connectivity through the circuit breaker.
func (s *Store) Ping(ctx context.Context) error {
	return guardedErr(s, func() error {
		return s.pool.Ping(ctx)
	})
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// BreakerState returns the circuit breaker state ("closed", "half-open", "open").
func (s *Store) BreakerState() string {
	return s.cb.State().String()
}
