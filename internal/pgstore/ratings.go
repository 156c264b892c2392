// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package pgstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/recommend"
)

var errInvalidRating = errors.New("invalid rating")

const upsertRatingSQL = `INSERT INTO ratings (attraction_id, user_id, rating)
	VALUES ($1, $2, $3)
	ON CONFLICT (attraction_id, user_id) DO UPDATE SET
		rating = EXCLUDED.rating,
		updated_at = now()`

func validateRating(r recommend.Rating) error {
	if r.Rating < recommend.MinRatingValue || r.Rating > recommend.MaxRatingValue {
		return fmt.Errorf("%w: must be between %d and %d, got %d",
			errInvalidRating, recommend.MinRatingValue, recommend.MaxRatingValue, r.Rating)
	}
	return nil
}

// ReadRatings returns every rating ordered by (user_id, attraction_id).
func (s *Store) ReadRatings(ctx context.Context) ([]recommend.Rating, error) {
	return s.queryRatings(ctx, `SELECT user_id, attraction_id, rating FROM ratings ORDER BY user_id, attraction_id`)
}

// ListUserRatings returns the ratings of one user ordered by attraction_id.
func (s *Store) ListUserRatings(ctx context.Context, userID int64) ([]recommend.Rating, error) {
	return s.queryRatings(ctx, `SELECT user_id, attraction_id, rating FROM ratings WHERE user_id = $1 ORDER BY attraction_id`, userID)
}

func (s *Store) queryRatings(ctx context.Context, q string, args ...any) ([]recommend.Rating, error) {
	return guarded(s, func() ([]recommend.Rating, error) {
		rows, err := s.pool.Query(ctx, q, args...)
		if err != nil {
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
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate ratings: %w", err)
		}
		return ratings, nil
	})
}

// UpsertRating inserts or replaces a rating. Unknown attractions yield
// recommend.ErrNotFound.
func (s *Store) UpsertRating(ctx context.Context, r recommend.Rating) error {
	if err := validateRating(r); err != nil {
		return err
	}
	err := guardedErr(s, func() error {
		_, err := s.pool.Exec(ctx, upsertRatingSQL, r.AttractionID, r.UserID, r.Rating)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("attraction %d: %w", r.AttractionID, recommend.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("upsert rating (%d, %d): %w", r.UserID, r.AttractionID, err)
		}
		return nil
	})
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

// DeleteRating removes a rating. A missing rating yields recommend.ErrNotFound.
func (s *Store) DeleteRating(ctx context.Context, userID, attractionID int64) error {
	return guardedErr(s, func() error {
		tag, err := s.pool.Exec(ctx, `DELETE FROM ratings WHERE user_id = $1 AND attraction_id = $2`, userID, attractionID)
		if err != nil {
			return fmt.Errorf("delete rating: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("rating (%d, %d): %w", userID, attractionID, recommend.ErrNotFound)
		}
		return nil
	})
}

// ImportRatings upserts a batch through a COPY staging table and a single
// INSERT ... SELECT, so the statement trigger enqueues one marker. Rows for
// unknown attractions or with out-of-range values are skipped; duplicate
// (user, attraction) rows keep the last occurrence.
func (s *Store) ImportRatings(ctx context.Context, ratings []recommend.Rating) (imported, skipped int, err error) {
	if len(ratings) == 0 {
		return 0, 0, nil
	}

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

	if len(order) == 0 {
		return 0, skipped, nil
	}

	rows := make([][]any, len(order))
	for n, i := range order {
		r := ratings[i]
		rows[n] = []any{r.AttractionID, r.UserID, int32(r.Rating)}
	}

	written, err := guarded(s, func() (int, error) {
		var written int64
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `CREATE TEMP TABLE ratings_stage (
				attraction_id BIGINT, user_id BIGINT, rating INTEGER
			) ON COMMIT DROP`); err != nil {
				return fmt.Errorf("create staging table: %w", err)
			}
			if _, err := tx.CopyFrom(ctx, pgx.Identifier{"ratings_stage"},
				[]string{"attraction_id", "user_id", "rating"}, pgx.CopyFromRows(rows)); err != nil {
				return fmt.Errorf("copy ratings: %w", err)
			}
			tag, err := tx.Exec(ctx, `INSERT INTO ratings (attraction_id, user_id, rating)
				SELECT s.attraction_id, s.user_id, s.rating
				FROM ratings_stage s
				JOIN attractions a ON a.id = s.attraction_id
				ON CONFLICT (attraction_id, user_id) DO UPDATE SET
					rating = EXCLUDED.rating,
					updated_at = now()`)
			if err != nil {
				return fmt.Errorf("merge ratings: %w", err)
			}
			written = tag.RowsAffected()
			return nil
		})
		return int(written), err
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to import ratings: %w", err)
	}
	return written, skipped + len(rows) - written, nil
}
