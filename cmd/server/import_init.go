// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package main

import (
	"github.com/tomtom215/waypoint/internal/config"
	catalogimport "github.com/tomtom215/waypoint/internal/import"
	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/supervisor"
	"github.com/tomtom215/waypoint/internal/supervisor/services"
)

// initImport registers the startup file import in the data layer. onComplete
// runs after a successful import; the server uses it to nudge the
// recalculation worker.
func initImport(cfg *config.Config, store catalogimport.Store, tree *supervisor.SupervisorTree, onComplete func()) {
	if !cfg.Import.Enabled() {
		logging.Info().Msg("Startup import disabled (IMPORT_ATTRACTIONS_PATH and IMPORT_RATINGS_PATH unset)")
		return
	}

	importer := catalogimport.NewImporter(&cfg.Import, store)
	logging.Info().
		Str("attractions_path", cfg.Import.AttractionsPath).
		Str("ratings_path", cfg.Import.RatingsPath).
		Int("batch_size", cfg.Import.BatchSize).
		Msg("Importer created")

	service := services.NewImportService(importer, func(stats *catalogimport.ImportStats) {
		logging.Info().
			Int64("attractions", stats.AttractionsImported).
			Int64("imported", stats.Imported).
			Int64("skipped", stats.Skipped).
			Msg("Startup import finished")
		if onComplete != nil {
			onComplete()
		}
	})
	tree.AddDataService(service)
	logging.Info().Msg("Import service added to supervisor tree")
}
