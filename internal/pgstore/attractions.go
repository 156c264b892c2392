// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/waypoint/internal/database/query"
	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
)

const attractionColumns = `id, name, city, type, transport, price, working_hours, rating::float8, image_url`

const insertAttractionSQL = `INSERT INTO attractions
	(name, city, type, transport, price, working_hours, image_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id`

func scanAttraction(row pgx.Row) (recommend.Attraction, error) {
	var a recommend.Attraction
	err := row.Scan(&a.ID, &a.Name, &a.City, &a.Type, &a.Transport, &a.Price, &a.WorkingHours, &a.Rating, &a.ImageURL)
	return a, err
}

// ReadAttractions returns the full catalog ordered by id.
func (s *Store) ReadAttractions(ctx context.Context) ([]recommend.Attraction, error) {
	return s.ListAttractions(ctx, models.AttractionFilter{})
}

// ListAttractions returns the attractions matching filter, ordered by id.
func (s *Store) ListAttractions(ctx context.Context, filter models.AttractionFilter) ([]recommend.Attraction, error) {
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
	q = query.Rebind(q)

	return guarded(s, func() ([]recommend.Attraction, error) {
		rows, err := s.pool.Query(ctx, q, args...)
		if err != nil {
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
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate attractions: %w", err)
		}
		return items, nil
	})
}

// GetAttraction returns one attraction or recommend.ErrNotFound.
func (s *Store) GetAttraction(ctx context.Context, id int64) (*recommend.Attraction, error) {
	return guarded(s, func() (*recommend.Attraction, error) {
		a, err := scanAttraction(s.pool.QueryRow(ctx,
			fmt.Sprintf("SELECT %s FROM attractions WHERE id = $1", attractionColumns), id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("attraction %d: %w", id, recommend.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get attraction %d: %w", id, err)
		}
		return &a, nil
	})
}

// CountAttractions returns the catalog size.
func (s *Store) CountAttractions(ctx context.Context) (int64, error) {
	return guarded(s, func() (int64, error) {
		var n int64
		if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attractions`).Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to count attractions: %w", err)
		}
		return n, nil
	})
}

// CreateAttraction inserts a catalog entry and returns its id. The aggregate
// rating starts NULL.
func (s *Store) CreateAttraction(ctx context.Context, a *recommend.Attraction) (int64, error) {
	id, err := guarded(s, func() (int64, error) {
		var id int64
		err := s.pool.QueryRow(ctx, insertAttractionSQL,
			a.Name, a.City, a.Type, a.Transport, a.Price, a.WorkingHours, a.ImageURL).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to create attraction: %w", err)
		}
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	a.ID = id
	a.Rating = nil

	logging.Ctx(ctx).Debug().Int64("attraction_id", id).Str("name", a.Name).Msg("Attraction created")
	return id, nil
}

// ImportAttractions inserts items in one transaction using a pipelined batch
// and writes the assigned ids back into items, in input order.
func (s *Store) ImportAttractions(ctx context.Context, items []recommend.Attraction) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	return guarded(s, func() (int, error) {
		err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			batch := &pgx.Batch{}
			for i := range items {
				a := &items[i]
				batch.Queue(insertAttractionSQL,
					a.Name, a.City, a.Type, a.Transport, a.Price, a.WorkingHours, a.ImageURL)
			}

			br := tx.SendBatch(ctx, batch)
			for i := range items {
				if err := br.QueryRow().Scan(&items[i].ID); err != nil {
					br.Close() //nolint:errcheck
					return fmt.Errorf("insert attraction %q: %w", items[i].Name, err)
				}
				items[i].Rating = nil
			}
			return br.Close()
		})
		if err != nil {
			return 0, fmt.Errorf("failed to import attractions: %w", err)
		}
		return len(items), nil
	})
}

// DeleteAttraction removes an attraction. Its ratings go with it through the
// foreign key, and the ratings trigger enqueues a marker.
func (s *Store) DeleteAttraction(ctx context.Context, id int64) error {
	return guardedErr(s, func() error {
		tag, err := s.pool.Exec(ctx, `DELETE FROM attractions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete attraction %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("attraction %d: %w", id, recommend.ErrNotFound)
		}
		return nil
	})
}
