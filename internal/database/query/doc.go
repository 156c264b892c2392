// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package query provides SQL query building utilities for the database package.
//
// # WhereBuilder
//
// WhereBuilder constructs parameterized WHERE clauses for catalog filters:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEqualFold("city", "Moscow")
//	wb.AddIn("id", []any{1, 2, 3})
//	whereClause, args := wb.Build()
//	// Result: "lower(city) = lower(?) AND id IN (?, ?, ?)"
//	// Args: ["Moscow", 1, 2, 3]
//
// Empty values are skipped so optional HTTP filters can be passed through
// unconditionally.
//
// # Multi-row inserts
//
// InsertValues renders a single INSERT with one placeholder tuple per row,
// which the database package uses to publish the similarity table in batches:
//
//	sql := query.InsertValues("user_similarity", []string{"user_id_low", "user_id_high", "similarity"}, 3)
//	// INSERT INTO user_similarity (user_id_low, user_id_high, similarity) VALUES (?, ?, ?), (?, ?, ?), (?, ?, ?)
//
// Column and table names are never taken from user input; only values are
// parameterized.
package query
