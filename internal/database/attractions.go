// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/waypoint/internal/database/query"
	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/metrics"
	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
)

const attractionColumns = `id, name, city, type, transport, price, working_hours, rating, image_url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttraction(s rowScanner) (recommend.Attraction, error) {
	var (
		a      recommend.Attraction
		rating sql.NullFloat64
	)
	if err := s.Scan(&a.ID, &a.Name, &a.City, &a.Type, &a.Transport, &a.Price, &a.WorkingHours, &rating, &a.ImageURL); err != nil {
		return a, err
	}
	if rating.Valid {
		v := rating.Float64
		a.Rating = &v
	}
	return a, nil
}

// ReadAttractions returns the full catalog ordered by id.
func (db *DB) ReadAttractions(ctx context.Context) ([]recommend.Attraction, error) {
	return db.ListAttractions(ctx, models.AttractionFilter{})
}

// ListAttractions returns the attractions matching filter, ordered by id.
func (db *DB) ListAttractions(ctx context.Context, filter models.AttractionFilter) ([]recommend.Attraction, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	wb := query.NewWhereBuilder().
		AddEqualFold("city", filter.City).
		AddContainsFold("type", filter.Type).
		AddContainsFold("name", filter.Name)
	where, args := wb.BuildWithPrefix()

	q := fmt.Sprintf("SELECT %s FROM attractions %s ORDER BY id", attractionColumns, where)
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		metrics.RecordDBQuery("select", "attractions", time.Since(start), err)
		return nil, fmt.Errorf("failed to query attractions: %w", err)
	}
	defer rows.Close()

	items := make([]recommend.Attraction, 0)
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attraction: %w", err)
		}
		items = append(items, a)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "attractions", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate attractions: %w", err)
	}
	return items, nil
}

// GetAttraction returns one attraction or recommend.ErrNotFound.
func (db *DB) GetAttraction(ctx context.Context, id int64) (*recommend.Attraction, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM attractions WHERE id = ?", attractionColumns), id)
	a, err := scanAttraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attraction %d: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attraction %d: %w", id, err)
	}
	return &a, nil
}

// CreateAttraction inserts a catalog entry and returns its id. The aggregate
// rating is never taken from the caller; it starts NULL.
func (db *DB) CreateAttraction(ctx context.Context, a *recommend.Attraction) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	var id int64
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		return insertAttraction(ctx, tx, a, &id)
	})
	metrics.RecordDBQuery("insert", "attractions", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to create attraction: %w", err)
	}

	logging.Ctx(ctx).Debug().Int64("attraction_id", id).Str("name", a.Name).Msg("Attraction created")
	return id, nil
}

func insertAttraction(ctx context.Context, tx *sql.Tx, a *recommend.Attraction, id *int64) error {
	if err := tx.QueryRowContext(ctx, `INSERT INTO attractions
		(name, city, type, transport, price, working_hours, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		a.Name, a.City, a.Type, a.Transport, a.Price, a.WorkingHours, a.ImageURL,
	).Scan(id); err != nil {
		return err
	}
	a.ID = *id
	a.Rating = nil
	return nil
}

// ImportAttractions inserts a batch of attractions in one transaction and
// returns the number inserted. Ids are assigned by the store in input order.
func (db *DB) ImportAttractions(ctx context.Context, items []recommend.Attraction) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	start := time.Now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		for i := range items {
			if err := insertAttraction(ctx, tx, &items[i], &id); err != nil {
				return fmt.Errorf("insert attraction %q: %w", items[i].Name, err)
			}
		}
		return nil
	})
	metrics.RecordDBQuery("insert", "attractions", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to import attractions: %w", err)
	}
	return len(items), nil
}

// DeleteAttraction removes an attraction and its ratings. When ratings were
// removed an invalidation marker is enqueued in the same transaction.
func (db *DB) DeleteAttraction(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM ratings WHERE attraction_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete ratings: %w", err)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM attractions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete attraction: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("attraction %d: %w", id, recommend.ErrNotFound)
		}

		if removed > 0 {
			return enqueueMarker(ctx, tx)
		}
		return nil
	})
	metrics.RecordDBQuery("delete", "attractions", time.Since(start), err)
	return err
}

// refreshAggregateRating recomputes attractions.rating from ratings.
func refreshAggregateRating(ctx context.Context, tx *sql.Tx, attractionID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE attractions
		SET rating = (SELECT ROUND(AVG(rating), 1) FROM ratings WHERE attraction_id = ?)
		WHERE id = ?`, attractionID, attractionID)
	if err != nil {
		return fmt.Errorf("refresh aggregate rating for %d: %w", attractionID, err)
	}
	return nil
}

func attractionExists(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM attractions WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check attraction %d: %w", id, err)
	}
	return n > 0, nil
}

// CountAttractions returns the catalog size.
func (db *DB) CountAttractions(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM attractions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count attractions: %w", err)
	}
	return n, nil
}
