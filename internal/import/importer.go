// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package catalogimport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/waypoint/internal/config"
	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/metrics"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// DefaultBatchSize is used when the configured batch size is not positive.
const DefaultBatchSize = 500

// ErrImportRunning is returned by Import while another import is in progress.
var ErrImportRunning = errors.New("import already in progress")

// ErrImportCanceled is returned when Stop interrupts an import.
var ErrImportCanceled = errors.New("import canceled")

// Store defines the write side the importer needs.
type Store interface {
	// ImportAttractions inserts items in one transaction and returns the count.
	ImportAttractions(ctx context.Context, items []recommend.Attraction) (int, error)

	// ImportRatings upserts ratings, skipping rows for unknown attractions.
	ImportRatings(ctx context.Context, ratings []recommend.Rating) (imported, skipped int, err error)
}

// Importer loads the configured attractions and ratings files into a Store.
type Importer struct {
	cfg    *config.ImportConfig
	store  Store
	mapper *Mapper

	// State
	mu       sync.RWMutex
	running  bool
	stats    *ImportStats
	stopChan chan struct{}
}

// NewImporter creates a new file importer.
func NewImporter(cfg *config.ImportConfig, store Store) *Importer {
	return &Importer{
		cfg:      cfg,
		store:    store,
		mapper:   NewMapper(),
		stopChan: make(chan struct{}),
	}
}

// Import reads the attractions file, then the ratings file. Paths left
// empty are skipped. A store failure aborts the current file.
func (i *Importer) Import(ctx context.Context) (*ImportStats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrImportRunning
	}
	i.running = true
	i.stats = &ImportStats{StartTime: time.Now()}
	stopChan := i.stopChan
	i.mu.Unlock()

	err := i.importAll(ctx, stopChan)
	stats := i.finish()
	if err != nil {
		return stats, err
	}

	logging.Info().
		Int64("imported", stats.Imported).
		Int64("attractions", stats.AttractionsImported).
		Int64("ratings", stats.RatingsImported).
		Int64("skipped", stats.Skipped).
		Int64("errors", stats.Errors).
		Dur("duration", stats.Duration()).
		Msg("Import completed")

	return stats, nil
}

func (i *Importer) importAll(ctx context.Context, stopChan <-chan struct{}) error {
	if err := i.countTotal(); err != nil {
		return err
	}

	logging.Info().
		Int64("total_records", i.GetStats().TotalRecords).
		Str("attractions_path", i.cfg.AttractionsPath).
		Str("ratings_path", i.cfg.RatingsPath).
		Msg("Starting import")

	if i.cfg.AttractionsPath != "" {
		if err := i.importFile(ctx, stopChan, KindAttractions, i.cfg.AttractionsPath, AttractionColumns); err != nil {
			return err
		}
	}
	if i.cfg.RatingsPath != "" {
		if err := i.importFile(ctx, stopChan, KindRatings, i.cfg.RatingsPath, RatingColumns); err != nil {
			return err
		}
	}
	return nil
}

// finish marks the import as done and returns the final statistics.
func (i *Importer) finish() *ImportStats {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.running = false
	i.stats.CurrentFile = ""
	i.stats.EndTime = time.Now()
	stats := *i.stats
	return &stats
}

func (i *Importer) countTotal() error {
	var total int64
	for _, path := range []string{i.cfg.AttractionsPath, i.cfg.RatingsPath} {
		if path == "" {
			continue
		}
		n, err := CountRows(path, i.cfg.Delimiter)
		if err != nil {
			return err
		}
		total += n
	}

	i.mu.Lock()
	i.stats.TotalRecords = total
	i.mu.Unlock()
	return nil
}

// importFile streams one file in batches into the store.
func (i *Importer) importFile(ctx context.Context, stopChan <-chan struct{}, kind, path string, required []string) error {
	reader, err := OpenCSV(path, i.cfg.Delimiter, required...)
	if err != nil {
		return fmt.Errorf("import %s: %w", kind, err)
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("path", path).Msg("Error closing import file")
		}
	}()

	i.mu.Lock()
	i.stats.CurrentFile = path
	i.mu.Unlock()

	batchSize := i.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	malformed := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopChan:
			return ErrImportCanceled
		default:
		}

		rows, err := reader.ReadBatch(batchSize)
		if err != nil {
			return fmt.Errorf("import %s: %w", kind, err)
		}

		// Lines the CSV reader dropped since the previous batch.
		dropped := reader.Skipped() - malformed
		malformed = reader.Skipped()

		if len(rows) == 0 {
			i.updateStats(kind, dropped, 0, dropped, false)
			return nil
		}

		if err := i.processBatch(ctx, kind, rows, dropped); err != nil {
			return fmt.Errorf("import %s: %w", kind, err)
		}
	}
}

// processBatch maps and writes one batch, then updates statistics.
func (i *Importer) processBatch(ctx context.Context, kind string, rows []Row, dropped int) error {
	var (
		imported int
		skipped  int
		err      error
	)

	switch kind {
	case KindAttractions:
		items, invalid := i.mapper.FilterAttractions(rows)
		skipped = invalid
		if len(items) > 0 {
			imported, err = i.store.ImportAttractions(ctx, items)
		}
	case KindRatings:
		ratings, invalid := i.mapper.FilterRatings(rows)
		skipped = invalid
		if len(ratings) > 0 {
			var rejected int
			imported, rejected, err = i.store.ImportRatings(ctx, ratings)
			skipped += rejected
		}
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}

	if err != nil {
		i.updateStats(kind, len(rows)+dropped, 0, dropped, true)
		metrics.RecordImport(kind, 0, len(rows)+dropped)
		return err
	}

	skipped += dropped
	i.updateStats(kind, len(rows)+dropped, imported, skipped, false)
	metrics.RecordImport(kind, imported, skipped)

	stats := i.GetStats()
	logging.Info().
		Str("kind", kind).
		Float64("progress_percent", stats.Progress()).
		Int64("processed", stats.Processed).
		Int64("total_records", stats.TotalRecords).
		Int64("imported", stats.Imported).
		Int64("skipped", stats.Skipped).
		Float64("records_per_second", stats.RecordsPerSecond()).
		Msg("Import progress")
	return nil
}

func (i *Importer) updateStats(kind string, processed, imported, skipped int, failed bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.stats.Processed += int64(processed)
	i.stats.Imported += int64(imported)
	i.stats.Skipped += int64(skipped)
	if failed {
		i.stats.Errors++
	}
	switch kind {
	case KindAttractions:
		i.stats.AttractionsImported += int64(imported)
	case KindRatings:
		i.stats.RatingsImported += int64(imported)
	}
}

// Stop cancels a running import operation.
func (i *Importer) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return fmt.Errorf("no import in progress")
	}

	close(i.stopChan)
	i.stopChan = make(chan struct{}) // Reset for next import

	return nil
}

// GetStats returns the current import statistics.
func (i *Importer) GetStats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return &ImportStats{}
	}

	// Return a copy
	stats := *i.stats
	return &stats
}

// IsRunning returns whether an import is currently in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}
