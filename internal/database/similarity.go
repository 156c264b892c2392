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
	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/metrics"
	"github.com/tomtom215/waypoint/internal/recommend"
)

var similarityColumns = []string{"user_id_low", "user_id_high", "similarity"}

// ReadSimilarityTable returns the published table ordered by pair.
func (db *DB) ReadSimilarityTable(ctx context.Context) ([]recommend.SimilarityEntry, error) {
	return db.querySimilarities(ctx,
		`SELECT user_id_low, user_id_high, similarity FROM user_similarity ORDER BY user_id_low, user_id_high`)
}

// ReadUserSimilarities returns the entries in which userID is either side.
func (db *DB) ReadUserSimilarities(ctx context.Context, userID int64) ([]recommend.SimilarityEntry, error) {
	return db.querySimilarities(ctx, `SELECT user_id_low, user_id_high, similarity FROM user_similarity
		WHERE user_id_low = ? OR user_id_high = ?
		ORDER BY user_id_low, user_id_high`, userID, userID)
}

func (db *DB) querySimilarities(ctx context.Context, q string, args ...any) ([]recommend.SimilarityEntry, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		metrics.RecordDBQuery("select", "user_similarity", time.Since(start), err)
		return nil, fmt.Errorf("failed to query user similarity: %w", err)
	}
	defer rows.Close()

	entries := make([]recommend.SimilarityEntry, 0)
	for rows.Next() {
		var e recommend.SimilarityEntry
		if err := rows.Scan(&e.UserLow, &e.UserHigh, &e.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan similarity: %w", err)
		}
		entries = append(entries, e)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "user_similarity", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate user similarity: %w", err)
	}
	return entries, nil
}

// ReplaceSimilarityTable swaps the whole table for entries in one
// transaction and deletes the markers listed in drained in the same
// transaction. Readers see either the old or the new table. Entries must be
// canonical (UserLow < UserHigh); values are rounded to three decimals.
func (db *DB) ReplaceSimilarityTable(ctx context.Context, entries []recommend.SimilarityEntry, drained []int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	batchSize := db.publishBatchSize

	var deleted int64
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_similarity`); err != nil {
			return fmt.Errorf("clear user similarity: %w", err)
		}

		for lo := 0; lo < len(entries); lo += batchSize {
			hi := lo + batchSize
			if hi > len(entries) {
				hi = len(entries)
			}
			if err := insertSimilarityBatch(ctx, tx, entries[lo:hi]); err != nil {
				return err
			}
		}

		n, err := deleteMarkers(ctx, tx, drained)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	metrics.RecordDBQuery("replace", "user_similarity", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to replace similarity table: %w", err)
	}

	logging.Ctx(ctx).Debug().
		Int("entries", len(entries)).
		Int64("markers_drained", deleted).
		Dur("duration", time.Since(start)).
		Msg("Similarity table replaced")
	return nil
}

func insertSimilarityBatch(ctx context.Context, tx *sql.Tx, batch []recommend.SimilarityEntry) error {
	args := make([]any, 0, len(batch)*len(similarityColumns))
	for _, e := range batch {
		if e.UserLow >= e.UserHigh {
			return fmt.Errorf("non-canonical similarity pair (%d, %d)", e.UserLow, e.UserHigh)
		}
		args = append(args, e.UserLow, e.UserHigh, recommend.RoundSimilarity(e.Similarity))
	}
	q := query.InsertValues("user_similarity", similarityColumns, len(batch))
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert similarity batch of %d: %w", len(batch), err)
	}
	return nil
}
