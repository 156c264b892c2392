// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package database is the embedded DuckDB store for Waypoint.
//
// # Overview
//
// DB implements recommend.Store over four tables:
//   - attractions: the catalog, with the derived aggregate rating
//   - ratings: one row per (attraction_id, user_id), last write wins
//   - user_similarity: the published similarity cache, one row per
//     unordered user pair with user_id_low < user_id_high
//   - user_similarity_recalc_queue: invalidation markers
//
// # Invalidation Markers
//
// DuckDB has no triggers, so every rating mutation (UpsertRating,
// DeleteRating, ImportRatings, DeleteAttraction with ratings) appends a marker
// and refreshes attractions.rating inside its own transaction. A rating write
// that commits always leaves a marker behind.
//
// # Publishing
//
// ReplaceSimilarityTable clears user_similarity, inserts the new entries in
// multi-row batches and deletes the markers the cycle consumed, all in one
// transaction. A failed publish leaves both the previous table and
// the markers in place, so the next cycle retries.
//
// # Organization
//
//   - database.go: lifecycle (New, Close, Ping)
//   - database_connection.go: transactions with conflict retry and reconnect
//   - database_schema.go, migrations.go: schema and versioned migrations
//   - attractions.go, ratings.go: catalog and rating access
//   - similarity.go, recalc_queue.go: similarity cache and markers
//   - seed.go: demo data
//   - query: parameterized WHERE and INSERT builders
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.UpsertRating(ctx, recommend.Rating{UserID: 1, AttractionID: 10, Rating: 5}); err != nil {
//	    return err
//	}
//
// # Concurrency
//
// All exported methods are safe for concurrent use. DuckDB reports write
// conflicts between concurrent transactions; withTx retries those with a
// short backoff.
package database
