// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package recommend is the attraction recommendation core.
//
// # Architecture
//
// Two independent paths produce ranked attractions:
//
//   - Content-based: every attraction and the caller's stated preferences are
//     encoded into one shared feature space and ranked by cosine similarity.
//     Stateless and synchronous.
//   - Collaborative (user-based): predictions for a user's unrated attractions
//     are similarity-weighted averages of other users' ratings, where the
//     user-user similarities come from a precomputed table held by the store.
//
// The similarity table is a derived artifact. Every rating mutation leaves a
// recalculation marker in the store; RunRecalcCycle drains the markers that
// exist when it starts, rebuilds the user-item matrix from a fresh read of the
// ratings, recomputes all pairwise similarities and replaces the table in one
// transaction. Markers written while a cycle runs survive for the next cycle.
//
// Scoring algorithms live in the algorithms subpackage and are attached to the
// Engine by the caller:
//
//	engine, err := recommend.NewEngine(cfg, logger)
//	engine.SetStore(db)
//	engine.SetContentScorer(algorithms.NewContentScorer())
//	engine.SetSimilarityComputer(algorithms.NewCosineSimilarityComputer(0))
//	engine.SetPredictor(algorithms.NewUserBasedPredictor())
//
// # Thread Safety
//
// Engine methods are safe for concurrent use. At most one recalculation cycle
// runs at a time per Engine; a store implementing RecalcLocker extends that
// guarantee across processes. Readers never observe a partially replaced
// similarity table because the store publishes it transactionally.
package recommend
