// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/waypoint/internal/logging"
)

// schemaLockKey serializes schema setup across replicas starting together.
const schemaLockKey int64 = 0x57505f534348 // "WP_SCH"

const createAttractionsTable = `
CREATE TABLE IF NOT EXISTS attractions (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	city          TEXT NOT NULL DEFAULT '',
	type          TEXT NOT NULL DEFAULT '',
	transport     TEXT NOT NULL DEFAULT '',
	price         TEXT NOT NULL DEFAULT '',
	working_hours TEXT NOT NULL DEFAULT '',
	rating        NUMERIC(2,1),
	image_url     TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createRatingsTable = `
CREATE TABLE IF NOT EXISTS ratings (
	attraction_id BIGINT NOT NULL REFERENCES attractions(id) ON DELETE CASCADE,
	user_id       BIGINT NOT NULL,
	rating        INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (attraction_id, user_id)
)`

const createRatingsUserIndex = `CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings (user_id)`

const createSimilarityTable = `
CREATE TABLE IF NOT EXISTS user_similarity (
	user_id_low  BIGINT NOT NULL,
	user_id_high BIGINT NOT NULL,
	similarity   NUMERIC(4,3) NOT NULL,
	PRIMARY KEY (user_id_low, user_id_high),
	CHECK (user_id_low < user_id_high)
)`

const createSimilarityHighIndex = `CREATE INDEX IF NOT EXISTS idx_user_similarity_high ON user_similarity (user_id_high)`

const createRecalcQueueTable = `
CREATE TABLE IF NOT EXISTS user_similarity_recalc_queue (
	id         BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Any change to ratings appends one marker per statement.
const createRecalcTriggerFunction = `
CREATE OR REPLACE FUNCTION notify_user_similarity_recalc()
RETURNS trigger AS $$
BEGIN
	INSERT INTO user_similarity_recalc_queue DEFAULT VALUES;
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`

const dropRecalcTrigger = `DROP TRIGGER IF EXISTS trg_user_similarity_recalc ON ratings`

const createRecalcTrigger = `
CREATE TRIGGER trg_user_similarity_recalc
AFTER INSERT OR UPDATE OR DELETE ON ratings
FOR EACH STATEMENT
EXECUTE FUNCTION notify_user_similarity_recalc()`

// The aggregate is refreshed per changed row, for the touched attraction only.
const createRatingTriggerFunction = `
CREATE OR REPLACE FUNCTION update_attraction_rating()
RETURNS trigger AS $$
DECLARE
	target BIGINT;
BEGIN
	IF TG_OP = 'DELETE' THEN
		target := OLD.attraction_id;
	ELSE
		target := NEW.attraction_id;
	END IF;

	UPDATE attractions
	SET rating = (SELECT ROUND(AVG(r.rating), 1) FROM ratings r WHERE r.attraction_id = target)
	WHERE id = target;

	IF TG_OP = 'UPDATE' AND OLD.attraction_id <> NEW.attraction_id THEN
		UPDATE attractions
		SET rating = (SELECT ROUND(AVG(r.rating), 1) FROM ratings r WHERE r.attraction_id = OLD.attraction_id)
		WHERE id = OLD.attraction_id;
	END IF;
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`

const dropRatingTrigger = `DROP TRIGGER IF EXISTS update_attraction_rating_trigger ON ratings`

const createRatingTrigger = `
CREATE TRIGGER update_attraction_rating_trigger
AFTER INSERT OR UPDATE OR DELETE ON ratings
FOR EACH ROW
EXECUTE FUNCTION update_attraction_rating()`

func schemaStatements() []string {
	return []string{
		createAttractionsTable,
		createRatingsTable,
		createRatingsUserIndex,
		createSimilarityTable,
		createSimilarityHighIndex,
		createRecalcQueueTable,
		createRecalcTriggerFunction,
		dropRecalcTrigger,
		createRecalcTrigger,
		createRatingTriggerFunction,
		dropRatingTrigger,
		createRatingTrigger,
	}
}

// ensureSchema creates tables, indexes and triggers in one transaction.
// It is safe to run on every start.
func (s *Store) ensureSchema(ctx context.Context) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
			return fmt.Errorf("acquire schema lock: %w", err)
		}
		for i, stmt := range schemaStatements() {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	logging.Debug().Int("statements", len(schemaStatements())).Msg("PostgreSQL schema ready")
	return nil
}
