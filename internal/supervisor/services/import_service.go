// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package services

import (
	"context"

	"github.com/thejerf/suture/v4"

	catalogimport "github.com/tomtom215/waypoint/internal/import"
	"github.com/tomtom215/waypoint/internal/logging"
)

// ImporterInterface abstracts the file importer's lifecycle for supervisor
// integration.
type ImporterInterface interface {
	// Import blocks until the import is complete or ctx is canceled.
	Import(ctx context.Context) (*catalogimport.ImportStats, error)

	// IsRunning returns whether an import is currently in progress.
	IsRunning() bool

	// Stop cancels a running import operation.
	Stop() error
}

// ImportService runs the startup file import once as a supervised service.
//
// The import runs when the service starts. A successful import calls
// onComplete, which the server uses to nudge the recalculation worker, and
// the service then idles until shutdown. A failed import is logged and the
// service asks not to be restarted, so a bad file does not loop.
type ImportService struct {
	importer   ImporterInterface
	onComplete func(*catalogimport.ImportStats)
	name       string
}

// NewImportService creates a new import service wrapper. onComplete may be nil.
//
// Example usage:
//
//	imp := catalogimport.NewImporter(&cfg.Import, store)
//	svc := services.NewImportService(imp, func(*catalogimport.ImportStats) { recalc.Trigger() })
//	tree.AddDataService(svc)
func NewImportService(importer ImporterInterface, onComplete func(*catalogimport.ImportStats)) *ImportService {
	return &ImportService{
		importer:   importer,
		onComplete: onComplete,
		name:       "file-import",
	}
}

// Serve implements suture.Service.
func (s *ImportService) Serve(ctx context.Context) error {
	logging.Info().Msg("Starting startup file import")

	stats, err := s.importer.Import(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logging.Info().Msg("Import canceled due to shutdown")
			return ctx.Err()
		}
		logging.Error().Err(err).Msg("Import failed")
		return suture.ErrDoNotRestart
	}

	summary := stats.ToSummary(false)
	logging.Info().
		Int64("attractions", summary.AttractionsImported).
		Int64("ratings", summary.RatingsImported).
		Int64("skipped", summary.Skipped).
		Float64("elapsed_seconds", summary.ElapsedSeconds).
		Msg("Import completed")

	if s.onComplete != nil {
		s.onComplete(stats)
	}

	// Wait for shutdown after import completes
	<-ctx.Done()

	if s.importer.IsRunning() {
		if err := s.importer.Stop(); err != nil {
			logging.Warn().Err(err).Msg("Failed to stop import")
		}
	}
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *ImportService) String() string {
	return s.name
}

// Importer returns the underlying importer instance.
func (s *ImportService) Importer() ImporterInterface {
	return s.importer
}
