// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package catalogimport

import (
	"time"
)

// Record kinds handled by the importer.
const (
	KindAttractions = "attractions"
	KindRatings     = "ratings"
)

// ImportStats holds statistics about an import operation.
type ImportStats struct {
	// TotalRecords is the number of data rows across all configured files.
	TotalRecords int64

	// Processed is the number of rows handled so far (including skipped).
	Processed int64

	// Imported is the number of rows written by the store.
	Imported int64

	// Skipped is the number of rows rejected by parsing, validation or the store.
	Skipped int64

	// Errors is the number of batches the store failed to write.
	Errors int64

	AttractionsImported int64
	RatingsImported     int64

	// CurrentFile is the file being read, empty once the import ends.
	CurrentFile string

	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the duration of the import operation.
func (s *ImportStats) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the import progress as a percentage (0-100).
func (s *ImportStats) Progress() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.TotalRecords) * 100
}

// RecordsPerSecond returns the import rate.
func (s *ImportStats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

// ProgressSummary provides a human-readable summary of import progress.
type ProgressSummary struct {
	Status              string    `json:"status"`
	Progress            float64   `json:"progress"`
	TotalRecords        int64     `json:"total_records"`
	Processed           int64     `json:"processed"`
	Imported            int64     `json:"imported"`
	Skipped             int64     `json:"skipped"`
	Errors              int64     `json:"errors"`
	AttractionsImported int64     `json:"attractions_imported"`
	RatingsImported     int64     `json:"ratings_imported"`
	CurrentFile         string    `json:"current_file,omitempty"`
	RecordsPerSec       float64   `json:"records_per_second"`
	ElapsedSeconds      float64   `json:"elapsed_seconds"`
	StartTime           time.Time `json:"start_time"`
}

// ToSummary converts ImportStats to a ProgressSummary with calculated fields.
func (s *ImportStats) ToSummary(running bool) *ProgressSummary {
	summary := &ProgressSummary{
		Progress:            s.Progress(),
		TotalRecords:        s.TotalRecords,
		Processed:           s.Processed,
		Imported:            s.Imported,
		Skipped:             s.Skipped,
		Errors:              s.Errors,
		AttractionsImported: s.AttractionsImported,
		RatingsImported:     s.RatingsImported,
		CurrentFile:         s.CurrentFile,
		RecordsPerSec:       s.RecordsPerSecond(),
		ElapsedSeconds:      s.Duration().Seconds(),
		StartTime:           s.StartTime,
	}

	switch {
	case running:
		summary.Status = "running"
	case s.EndTime.IsZero():
		summary.Status = "pending"
	default:
		summary.Status = "completed"
	}

	return summary
}
