// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/waypoint/internal/logging"
)

// recalcLockKey identifies the similarity writer lock in pg_locks.
const recalcLockKey int64 = 0x57505f524543 // "WP_REC"

// ReadPendingMarkers returns pending marker ids in ascending order.
func (s *Store) ReadPendingMarkers(ctx context.Context) ([]int64, error) {
	return guarded(s, func() ([]int64, error) {
		rows, err := s.pool.Query(ctx, `SELECT id FROM user_similarity_recalc_queue ORDER BY id`)
		if err != nil {
			return nil, fmt.Errorf("failed to query recalc queue: %w", err)
		}
		defer rows.Close()

		ids := make([]int64, 0)
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return nil, fmt.Errorf("failed to scan marker: %w", err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate recalc queue: %w", err)
		}
		return ids, nil
	})
}

// DeleteMarkersUpTo removes markers with id <= id.
func (s *Store) DeleteMarkersUpTo(ctx context.Context, id int64) (int64, error) {
	return guarded(s, func() (int64, error) {
		tag, err := s.pool.Exec(ctx, `DELETE FROM user_similarity_recalc_queue WHERE id <= $1`, id)
		if err != nil {
			return 0, fmt.Errorf("delete recalc markers up to %d: %w", id, err)
		}
		return tag.RowsAffected(), nil
	})
}

// CountPendingMarkers returns the number of pending markers.
func (s *Store) CountPendingMarkers(ctx context.Context) (int64, error) {
	return guarded(s, func() (int64, error) {
		var n int64
		if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_similarity_recalc_queue`).Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to count recalc markers: %w", err)
		}
		return n, nil
	})
}

// EnqueueRecalc appends a marker outside any rating write.
func (s *Store) EnqueueRecalc(ctx context.Context) error {
	return guardedErr(s, func() error {
		if _, err := s.pool.Exec(ctx, `INSERT INTO user_similarity_recalc_queue DEFAULT VALUES`); err != nil {
			return fmt.Errorf("enqueue recalc marker: %w", err)
		}
		return nil
	})
}

// TryLockRecalc takes the session-level advisory lock that makes one process
// the similarity writer across all replicas. The lock lives on a dedicated
// pooled connection until release is called.
func (s *Store) TryLockRecalc(ctx context.Context) (release func(), acquired bool, err error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection for recalc lock: %w", err)
	}

	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, recalcLockKey).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try recalc lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	release = func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, `SELECT pg_advisory_unlock($1)`, recalcLockKey); err != nil {
			// The session lock would outlive us on a pooled connection.
			logging.Warn().Err(err).Msg("Failed to release recalc lock, closing connection")
			conn.Hijack().Close(unlockCtx) //nolint:errcheck
			return
		}
		conn.Release()
	}
	return release, true, nil
}
