// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

/*
database_connection.go - Connection Management, Recovery and Transactions

Connection Recovery:
reconnect() re-opens the database with exponential backoff when a query
fails with a connection error (connection refused, broken pipe, bad
connection, database is closed). Query errors never trigger a reconnect.

Transactions:
withTx() runs a function inside a transaction and retries it on DuckDB
optimistic concurrency conflicts, which happen when two writers touch the
same rows (for example two users rating the same attraction at once).
INTERNAL errors are never retried.

Connection Pool Configuration:
  - MaxOpenConns: Based on CPU count for parallelism
  - MaxIdleConns: 2 for efficient connection reuse
  - ConnMaxLifetime: 1 hour to prevent stale connections
  - ConnMaxIdleTime: 5 minutes for idle connection cleanup
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/tomtom215/waypoint/internal/logging"
)

// maxTxRetries bounds conflict retries in withTx.
const maxTxRetries = 5

// withTx runs fn in a transaction, committing on success and rolling back on
// error. Transaction conflicts are retried with exponential backoff.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := db.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("operation timed out or canceled: %w", ctx.Err())
		}
		if isInternalError(err) {
			return fmt.Errorf("FATAL: DuckDB internal error: %w", err)
		}
		if !isTransactionConflict(err) {
			if isConnectionError(err) {
				if rcErr := db.reconnect(); rcErr != nil {
					logging.Error().Err(rcErr).Msg("Database reconnect failed")
				}
			}
			return err
		}

		backoff := time.Millisecond * time.Duration(1<<uint(attempt)) // 1ms, 2ms, 4ms, ...
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (db *DB) runTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// reconnect attempts to re-establish database connection with exponential backoff
func (db *DB) reconnect() error {
	db.reconnectMu.Lock()
	defer db.reconnectMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err == nil {
		return nil // Connection is alive
	}

	if db.conn != nil {
		closeWithLog(db.conn, "database connection")
	}

	var lastErr error
	for attempt := 0; attempt < db.maxReconnectTries; attempt++ {
		if attempt > 0 {
			delay := db.reconnectDelay * time.Duration(1<<uint(attempt-1))
			time.Sleep(delay)
		}

		if err := db.attemptReconnect(); err != nil {
			lastErr = fmt.Errorf("reconnect attempt %d failed: %w", attempt+1, err)
			continue
		}

		logging.Info().Int("attempt", attempt+1).Msg("Database connection re-established")
		return nil
	}

	return fmt.Errorf("failed to reconnect after %d attempts: %w", db.maxReconnectTries, lastErr)
}

// attemptReconnect tries to establish a new database connection
func (db *DB) attemptReconnect() error {
	conn, err := sql.Open("duckdb", connectionString(db.cfg))
	if err != nil {
		return fmt.Errorf("failed to open: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := conn.PingContext(pingCtx); err != nil {
		pingCancel()
		closeQuietly(conn)
		return fmt.Errorf("failed to ping: %w", err)
	}
	pingCancel()

	db.conn = conn

	if err := db.configureConnectionPool(); err != nil {
		closeQuietly(conn)
		return fmt.Errorf("failed to configure pool: %w", err)
	}

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

// isConnectionError checks if an error indicates database connection loss
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "bad connection") ||
		strings.Contains(errMsg, "database is closed")
}

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() error {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
	return nil
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "cannot update a table that has been altered")
}

// isInternalError checks if an error is a DuckDB INTERNAL error
func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "INTERNAL Error")
}
