// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// errInvalidID is returned by path parameter parsing.
var errInvalidID = errors.New("id must be a positive integer")

// collaborativeError maps a ScoreByCollaboration error to an HTTP status and
// error code. The data availability conditions are 404s; anything else is an
// internal failure.
func collaborativeError(err error) (int, string) {
	if !recommend.IsDataAvailability(err) {
		return http.StatusInternalServerError, models.ErrCodeInternal
	}
	switch {
	case errors.Is(err, recommend.ErrNoRatingsForUser):
		return http.StatusNotFound, models.ErrCodeNoRatings
	case errors.Is(err, recommend.ErrNoSimilarityData):
		return http.StatusNotFound, models.ErrCodeNoSimilarityData
	case errors.Is(err, recommend.ErrNoRecommendations):
		return http.StatusNotFound, models.ErrCodeNoRecommendations
	default:
		return http.StatusNotFound, models.ErrCodeInsufficientData
	}
}

// respondStoreError maps store errors: recommend.ErrNotFound becomes 404,
// everything else a 500 DATABASE_ERROR. notFoundMsg is shown to the client.
func respondStoreError(w http.ResponseWriter, err error, notFoundMsg, failMsg string) {
	if errors.Is(err, recommend.ErrNotFound) {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, notFoundMsg, nil)
		return
	}
	respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, failMsg, err)
}
