// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/waypoint/internal/database/query"
	"github.com/tomtom215/waypoint/internal/metrics"
)

// enqueueMarker appends an invalidation marker inside the caller's
// transaction, so the marker commits or rolls back with the rating write.
func enqueueMarker(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO user_similarity_recalc_queue DEFAULT VALUES`); err != nil {
		return fmt.Errorf("enqueue recalc marker: %w", err)
	}
	return nil
}

// EnqueueRecalc appends a marker outside any rating write, forcing the next
// worker cycle to recompute.
func (db *DB) EnqueueRecalc(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.withTx(ctx, func(tx *sql.Tx) error {
		return enqueueMarker(ctx, tx)
	})
}

// ReadPendingMarkers returns pending marker ids in ascending order.
func (db *DB) ReadPendingMarkers(ctx context.Context) ([]int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `SELECT id FROM user_similarity_recalc_queue ORDER BY id`)
	if err != nil {
		metrics.RecordDBQuery("select", "user_similarity_recalc_queue", time.Since(start), err)
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
	err = rows.Err()
	metrics.RecordDBQuery("select", "user_similarity_recalc_queue", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate recalc queue: %w", err)
	}
	return ids, nil
}

// DeleteMarkersUpTo removes markers with id <= id and returns how many were
// removed. Markers above id are untouched.
func (db *DB) DeleteMarkersUpTo(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = deleteMarkersUpTo(ctx, tx, id)
		return err
	})
	return n, err
}

func deleteMarkersUpTo(ctx context.Context, tx *sql.Tx, id int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM user_similarity_recalc_queue WHERE id <= ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete recalc markers up to %d: %w", id, err)
	}
	return res.RowsAffected()
}

// markerDeleteBatch caps the ids bound into one DELETE ... IN statement.
const markerDeleteBatch = 1000

// deleteMarkers removes exactly the listed markers.
func deleteMarkers(ctx context.Context, tx *sql.Tx, ids []int64) (int64, error) {
	var total int64
	for lo := 0; lo < len(ids); lo += markerDeleteBatch {
		batch := ids[lo:min(lo+markerDeleteBatch, len(ids))]
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM user_similarity_recalc_queue WHERE id IN (`+query.Placeholders(len(batch))+`)`, args...)
		if err != nil {
			return 0, fmt.Errorf("delete %d recalc markers: %w", len(batch), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// CountPendingMarkers returns the number of pending markers.
func (db *DB) CountPendingMarkers(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_similarity_recalc_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recalc markers: %w", err)
	}
	return n, nil
}
