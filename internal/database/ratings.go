// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/metrics"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// ReadRatings returns every rating row ordered by (user_id, attraction_id).
func (db *DB) ReadRatings(ctx context.Context) ([]recommend.Rating, error) {
	return db.queryRatings(ctx, `SELECT user_id, attraction_id, rating FROM ratings ORDER BY user_id, attraction_id`)
}

// ListUserRatings returns the ratings of one user ordered by attraction_id.
func (db *DB) ListUserRatings(ctx context.Context, userID int64) ([]recommend.Rating, error) {
	return db.queryRatings(ctx, `SELECT user_id, attraction_id, rating FROM ratings WHERE user_id = ? ORDER BY attraction_id`, userID)
}

func (db *DB) queryRatings(ctx context.Context, q string, args ...any) ([]recommend.Rating, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		metrics.RecordDBQuery("select", "ratings", time.Since(start), err)
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]recommend.Rating, 0)
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.AttractionID, &r.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate ratings: %w", err)
	}
	return ratings, nil
}

// UpsertRating inserts or replaces a user's rating. In the same transaction
// it refreshes the attraction's aggregate rating and enqueues an invalidation
// marker. Unknown attractions yield recommend.ErrNotFound.
func (db *DB) UpsertRating(ctx context.Context, r recommend.Rating) error {
	if err := validateRating(r); err != nil {
		return err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := attractionExists(ctx, tx, r.AttractionID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("attraction %d: %w", r.AttractionID, recommend.ErrNotFound)
		}
		if err := upsertRating(ctx, tx, r); err != nil {
			return err
		}
		if err := refreshAggregateRating(ctx, tx, r.AttractionID); err != nil {
			return err
		}
		return enqueueMarker(ctx, tx)
	})
	metrics.RecordDBQuery("upsert", "ratings", time.Since(start), err)
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Debug().
		Int64("user_id", r.UserID).
		Int64("attraction_id", r.AttractionID).
		Int("rating", r.Rating).
		Msg("Rating stored")
	return nil
}

func upsertRating(ctx context.Context, tx *sql.Tx, r recommend.Rating) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO ratings (attraction_id, user_id, rating)
		VALUES (?, ?, ?)
		ON CONFLICT (attraction_id, user_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			updated_at = ?`,
		r.AttractionID, r.UserID, r.Rating, time.Now())
	if err != nil {
		return fmt.Errorf("upsert rating (%d, %d): %w", r.UserID, r.AttractionID, err)
	}
	return nil
}

// DeleteRating removes a rating, refreshes the aggregate and enqueues a
// marker. A missing rating yields recommend.ErrNotFound.
func (db *DB) DeleteRating(ctx context.Context, userID, attractionID int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM ratings WHERE user_id = ? AND attraction_id = ?`, userID, attractionID)
		if err != nil {
			return fmt.Errorf("delete rating: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("rating (%d, %d): %w", userID, attractionID, recommend.ErrNotFound)
		}
		if err := refreshAggregateRating(ctx, tx, attractionID); err != nil {
			return err
		}
		return enqueueMarker(ctx, tx)
	})
	metrics.RecordDBQuery("delete", "ratings", time.Since(start), err)
	return err
}

// ImportRatings upserts a batch of ratings in one transaction. Rows for
// unknown attractions or with out-of-range values are skipped. Duplicate
// (user, attraction) rows keep the last occurrence. One marker is enqueued
// when anything was written.
func (db *DB) ImportRatings(ctx context.Context, ratings []recommend.Rating) (imported, skipped int, err error) {
	if len(ratings) == 0 {
		return 0, 0, nil
	}
	start := time.Now()

	type key struct{ user, attraction int64 }
	last := make(map[key]int, len(ratings))
	for i, r := range ratings {
		if validateRating(r) != nil {
			skipped++
			continue
		}
		if _, dup := last[key{r.UserID, r.AttractionID}]; dup {
			skipped++
		}
		last[key{r.UserID, r.AttractionID}] = i
	}
	order := make([]int, 0, len(last))
	for _, i := range last {
		order = append(order, i)
	}
	sort.Ints(order)

	var written, missing int
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		written, missing = 0, 0
		touched := make(map[int64]struct{})
		for _, i := range order {
			r := ratings[i]
			ok, err := attractionExists(ctx, tx, r.AttractionID)
			if err != nil {
				return err
			}
			if !ok {
				missing++
				continue
			}
			if err := upsertRating(ctx, tx, r); err != nil {
				return err
			}
			touched[r.AttractionID] = struct{}{}
			written++
		}
		for id := range touched {
			if err := refreshAggregateRating(ctx, tx, id); err != nil {
				return err
			}
		}
		if written > 0 {
			return enqueueMarker(ctx, tx)
		}
		return nil
	})
	metrics.RecordDBQuery("upsert", "ratings", time.Since(start), err)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to import ratings: %w", err)
	}
	return written, skipped + missing, nil
}

func validateRating(r recommend.Rating) error {
	if r.Rating < recommend.MinRatingValue || r.Rating > recommend.MaxRatingValue {
		return fmt.Errorf("rating must be between %d and %d, got %d",
			recommend.MinRatingValue, recommend.MaxRatingValue, r.Rating)
	}
	return nil
}
