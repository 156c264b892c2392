// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

/*
database_schema.go - Database Schema Management

Tables:
  - attractions: the catalog. rating is the derived aggregate, refreshed as
    ROUND(AVG(rating), 1) in the same transaction as every rating mutation.
  - ratings: one row per (user_id, attraction_id); last write wins.
  - user_similarity: the published similarity cache, one row per unordered
    user pair stored as (user_id_low, user_id_high) with low < high.
  - user_similarity_recalc_queue: invalidation markers. DuckDB has no
    triggers, so every rating mutation inserts its marker in the same
    transaction as the write.

The DDL is applied through the versioned migrations in migrations.go.

user_similarity deliberately carries no primary key: the table is replaced
wholesale by DELETE + INSERT inside one transaction, and DuckDB checks index
constraints eagerly within a transaction. Pair uniqueness is guaranteed by
the similarity computer.

Similarity values are rounded to three decimals in Go before insert and
stored as DOUBLE, which keeps scanning into float64 exact.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

const (
	createAttractionsSequence = `CREATE SEQUENCE IF NOT EXISTS attractions_id_seq START 1`

	createAttractionsTable = `CREATE TABLE IF NOT EXISTS attractions (
	id BIGINT PRIMARY KEY DEFAULT nextval('attractions_id_seq'),
	name TEXT NOT NULL,
	city TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT '',
	transport TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL DEFAULT '',
	working_hours TEXT NOT NULL DEFAULT '',
	rating DOUBLE,
	image_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

	createRatingsTable = `CREATE TABLE IF NOT EXISTS ratings (
	attraction_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (attraction_id, user_id)
)`

	createSimilarityTable = `CREATE TABLE IF NOT EXISTS user_similarity (
	user_id_low BIGINT NOT NULL,
	user_id_high BIGINT NOT NULL,
	similarity DOUBLE NOT NULL,
	CHECK (user_id_low < user_id_high)
)`

	createRecalcQueueSequence = `CREATE SEQUENCE IF NOT EXISTS user_similarity_recalc_queue_id_seq START 1`

	createRecalcQueueTable = `CREATE TABLE IF NOT EXISTS user_similarity_recalc_queue (
	id BIGINT PRIMARY KEY DEFAULT nextval('user_similarity_recalc_queue_id_seq'),
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createIndexes creates secondary indexes for the read paths.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

// getIndexQueries returns the index creation SQL statements
func (db *DB) getIndexQueries() []string {
	return []string{
		// ListUserRatings and the per-user matrix row
		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
		// Catalog filters
		`CREATE INDEX IF NOT EXISTS idx_attractions_city ON attractions(city)`,
	}
}
