// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package recommend

import "errors"

// Data availability conditions. None is retried automatically; the HTTP
// layer maps each to a not-found style response.
var (
	// ErrInsufficientData means fewer than two users have ratings, so
	// user-user similarity is undefined.
	ErrInsufficientData = errors.New("insufficient data: at least two users with ratings are required")

	// ErrNoRatingsForUser means the target user has no ratings at all.
	ErrNoRatingsForUser = errors.New("no ratings for user")

	// ErrNoSimilarityData means the similarity table has no entry for the user.
	ErrNoSimilarityData = errors.New("no similarity data for user")

	// ErrNoRecommendations means no candidate attraction received a score.
	ErrNoRecommendations = errors.New("cannot build any recommendation")
)

// ErrRecalcInProgress is returned when another recalculation cycle holds the lock.
var ErrRecalcInProgress = errors.New("similarity recalculation already in progress")

// ErrNotConfigured is returned when a required component was never attached.
var ErrNotConfigured = errors.New("recommend engine not configured")

// ErrNotFound is returned by stores when an attraction or rating does not exist.
var ErrNotFound = errors.New("not found")
