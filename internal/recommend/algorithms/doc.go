// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package algorithms implements the scoring components attached to a
// recommend.Engine.
//
//   - FeatureEncoder and OpenInPeriod turn attractions and preferences into
//     sparse named features.
//   - ContentScorer ranks attractions by cosine similarity to a preference vector.
//   - CosineSimilarityComputer builds the canonical user-user similarity table.
//   - UserBasedPredictor turns that table into collaborative predictions.
//
// # Thread Safety
//
// All components are stateless after construction and safe for concurrent use.
package algorithms
