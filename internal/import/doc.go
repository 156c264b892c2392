// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package catalogimport loads attractions and ratings from delimited text files.
//
// The import runs once at startup when file paths are configured and writes
// through the same store used by the HTTP API, so every imported rating batch
// enqueues a similarity recalculation marker like any other rating write.
//
// # File Formats
//
// Both files carry a header row. Columns are matched by name, case-insensitively,
// and the delimiter defaults to a semicolon.
//
// Attractions:
//
//	name;city;type;transport;price;working_hours[;image_url]
//
// Ratings:
//
//	attraction_id;user_id;rating
//
// Rows that cannot be parsed, lack a required column, or fail validation are
// skipped and counted. A ratings row that references an unknown attraction is
// skipped by the store.
//
// # Ordering
//
// Attractions are imported before ratings so that a single run can load both a
// fresh catalog and ratings against it.
//
// # Example Usage
//
//	imp := catalogimport.NewImporter(&cfg.Import, store)
//	stats, err := imp.Import(ctx)
//	if err != nil {
//	    logging.Error().Err(err).Msg("Import failed")
//	}
//	logging.Info().Int64("imported", stats.Imported).Msg("Import done")
package catalogimport
