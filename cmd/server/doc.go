// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package main is the entry point for the Waypoint server.
//
// Waypoint serves an attraction catalog with two kinds of recommendations:
// content-based scoring against stated preferences, and user-based
// collaborative filtering over a precomputed user-user cosine similarity
// table. Rating writes enqueue an invalidation marker; a supervised worker
// drains the queue and republishes the table.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml, environment)
//  2. Logging: zerolog, bridged to slog for the supervisor
//  3. Store: embedded DuckDB (DB_DRIVER=duckdb) or PostgreSQL (DB_DRIVER=postgres)
//  4. Engine: content scorer, cosine similarity computer and user-based predictor
//  5. Supervisor tree: startup import (data), recalculation worker (worker),
//     HTTP server (api)
//
// # Configuration
//
// Commonly used environment variables:
//   - DB_DRIVER, DUCKDB_PATH, DATABASE_URL
//   - SEED_DEMO_DATA: load a small demo catalog into an empty store
//   - IMPORT_ATTRACTIONS_PATH, IMPORT_RATINGS_PATH: CSV files loaded at startup
//   - RECALC_INTERVAL, RECALC_ON_STARTUP: recalculation worker schedule
//   - CORS_ORIGINS, RATE_LIMIT_REQUESTS, DISABLE_RATE_LIMIT
//   - LOG_LEVEL, LOG_FORMAT
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains
// in-flight requests (10s timeout), a running recalculation cycle is
// abandoned without publishing, and the store is closed.
//
// # Example Usage
//
//	export DB_DRIVER=duckdb
//	export DUCKDB_PATH=/data/waypoint.duckdb
//	export SEED_DEMO_DATA=true
//	./waypoint
//
//	curl -X POST localhost:3857/api/v1/recommendations/content \
//	  -d '{"city":"Moscow","transport":"walking","top_k":5}'
//
// @title Waypoint API
// @version 1.0
// @description Attraction catalog with content-based and collaborative recommendations.
// @description
// @description Rating writes enqueue invalidation markers; the user similarity table is
// @description rebuilt by a background worker or on demand via `POST /recalc`.
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3857
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health and readiness probes
//
// @tag.name Catalog
// @tag.description Attraction CRUD
//
// @tag.name Ratings
// @tag.description User ratings; every write invalidates the similarity table
//
// @tag.name Recommendations
// @tag.description Content-based and collaborative rankings
//
// @tag.name Recalculation
// @tag.description Similarity table maintenance
package main
