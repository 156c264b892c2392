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

	"github.com/jackc/pgx/v5/pgconn"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/metrics"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// BreakerName labels the store circuit breaker in metrics.
const BreakerName = "postgres-store"

const (
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
)

// newBreaker opens after failures consecutive failures and probes again
// after timeout. Caller mistakes (not found, constraint violations) and
// cancellations do not count as failures.
func newBreaker(failures uint32, timeout time.Duration) *gobreaker.CircuitBreaker[any] {
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}

	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= failures
			if trip {
				logging.Warn().
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening PostgreSQL store circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordCircuitBreakerState(name, from.String(), to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isCallerError(err)
		},
	})
}

// isCallerError reports errors caused by the request rather than the server.
func isCallerError(err error) bool {
	if errors.Is(err, recommend.ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, errInvalidRating) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 22 data exception, class 23 integrity constraint violation.
		return len(pgErr.Code) == 5 && (pgErr.Code[:2] == "22" || pgErr.Code[:2] == "23")
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// guarded runs fn through the store circuit breaker.
func guarded[T any](s *Store, fn func() (T, error)) (T, error) {
	var zero T

	v, err := s.cb.Execute(func() (any, error) {
		res, err := fn()
		return res, err
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordCircuitBreakerRequest(BreakerName, "rejected")
			return zero, fmt.Errorf("postgres store unavailable: %w", err)
		case isCallerError(err):
			metrics.RecordCircuitBreakerRequest(BreakerName, "success")
		default:
			metrics.RecordCircuitBreakerRequest(BreakerName, "failure")
		}
		return zero, err
	}
	metrics.RecordCircuitBreakerRequest(BreakerName, "success")

	res, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", v)
	}
	return res, nil
}

// guardedErr is guarded for operations without a result.
func guardedErr(s *Store, fn func() error) error {
	_, err := guarded(s, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
