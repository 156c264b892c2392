// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/recommend"
)

var similarityColumns = []string{"user_id_low", "user_id_high", "similarity"}

// ReadSimilarityTable returns the published table ordered by pair.
func (s *Store) ReadSimilarityTable(ctx context.Context) ([]recommend.SimilarityEntry, error) {
	return s.querySimilarities(ctx, `SELECT user_id_low, user_id_high, similarity::float8
		FROM user_similarity ORDER BY user_id_low, user_id_high`)
}

// ReadUserSimilarities returns the entries in which userID is either side.
func (s *Store) ReadUserSimilarities(ctx context.Context, userID int64) ([]recommend.SimilarityEntry, error) {
	return s.querySimilarities(ctx, `SELECT user_id_low, user_id_high, similarity::float8
		FROM user_similarity
		WHERE user_id_low = $1 OR user_id_high = $1
		ORDER BY user_id_low, user_id_high`, userID)
}

func (s *Store) querySimilarities(ctx context.Context, q string, args ...any) ([]recommend.SimilarityEntry, error) {
	return guarded(s, func() ([]recommend.SimilarityEntry, error) {
		rows, err := s.pool.Query(ctx, q, args...)
		if err != nil {
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
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate user similarity: %w", err)
		}
		return entries, nil
	})
}

// ReplaceSimilarityTable swaps the whole table for entries and deletes the
// markers listed in drained in one transaction. Rows are loaded with COPY in
// batches. Marker ids are matched exactly: under READ COMMITTED a lower id can
// commit after the cycle read the queue, and that marker must survive.
func (s *Store) ReplaceSimilarityTable(ctx context.Context, entries []recommend.SimilarityEntry, drained []int64) error {
	start := time.Now()
	batchSize := s.publishBatchSize

	deleted, err := guarded(s, func() (int64, error) {
		var deleted int64
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			// DELETE rather than TRUNCATE keeps concurrent readers on the old snapshot.
			if _, err := tx.Exec(ctx, `DELETE FROM user_similarity`); err != nil {
				return fmt.Errorf("clear user similarity: %w", err)
			}

			for lo := 0; lo < len(entries); lo += batchSize {
				hi := min(lo+batchSize, len(entries))
				rows := make([][]any, 0, hi-lo)
				for _, e := range entries[lo:hi] {
					if e.UserLow >= e.UserHigh {
						return fmt.Errorf("non-canonical similarity pair (%d, %d)", e.UserLow, e.UserHigh)
					}
					rows = append(rows, []any{e.UserLow, e.UserHigh, recommend.RoundSimilarity(e.Similarity)})
				}
				if _, err := tx.CopyFrom(ctx, pgx.Identifier{"user_similarity"}, similarityColumns, pgx.CopyFromRows(rows)); err != nil {
					return fmt.Errorf("copy similarity batch of %d: %w", len(rows), err)
				}
			}

			if len(drained) > 0 {
				tag, err := tx.Exec(ctx, `DELETE FROM user_similarity_recalc_queue WHERE id = ANY($1)`, drained)
				if err != nil {
					return fmt.Errorf("delete %d recalc markers: %w", len(drained), err)
				}
				deleted = tag.RowsAffected()
			}
			return nil
		})
		return deleted, err
	})
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
