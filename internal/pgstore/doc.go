// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package pgstore is the PostgreSQL store for Waypoint, selected with
// database.driver = "postgres".
//
// It implements recommend.Store and recommend.RecalcLocker on a pgx
// connection pool:
//
//   - Triggers on ratings append one invalidation marker per statement and
//     refresh attractions.rating as ROUND(AVG(rating), 1) per changed row.
//   - ReplaceSimilarityTable deletes the old rows, COPYs the new ones in
//     batches and drains the markers the cycle read, in one transaction.
//   - TryLockRecalc holds pg_try_advisory_lock on a dedicated connection so
//     only one replica recomputes at a time.
//   - Every call goes through a sony/gobreaker circuit breaker; not-found and
//     constraint errors do not count toward tripping it.
//
// Integration tests run against a real server started by testcontainers-go
// and need the integration build tag.
package pgstore
