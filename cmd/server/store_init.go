// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/waypoint/internal/api"
	"github.com/tomtom215/waypoint/internal/config"
	"github.com/tomtom215/waypoint/internal/database"
	catalogimport "github.com/tomtom215/waypoint/internal/import"
	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/pgstore"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// appStore is the full surface the server needs from a store. Both the
// embedded DuckDB store and the PostgreSQL store satisfy it.
type appStore interface {
	api.CatalogStore
	recommend.Store
	catalogimport.Store
	database.DemoSeeder
	SetPublishBatchSize(n int)
	Close() error
}

var (
	_ appStore = (*database.DB)(nil)
	_ appStore = (*pgstore.Store)(nil)
)

// initStore opens the store selected by cfg.Database.Driver, applies the
// publish batch size and seeds demo data when asked to.
func initStore(ctx context.Context, cfg *config.Config) (appStore, error) {
	var store appStore
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		s, err := pgstore.New(ctx, &cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		store = s
		logging.Info().Int32("max_conns", cfg.Postgres.MaxConns).Msg("PostgreSQL store initialized")
	default:
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open duckdb store: %w", err)
		}
		store = db
		logging.Info().Str("path", cfg.Database.Path).Msg("DuckDB store initialized")
	}

	store.SetPublishBatchSize(cfg.Recommend.PublishBatchSize)

	if cfg.Database.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := database.SeedDemoData(ctx, store); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}
	return store, nil
}
