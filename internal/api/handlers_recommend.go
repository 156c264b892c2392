// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// recommendTimeout bounds a single recommendation request.
const recommendTimeout = 10 * time.Second

// ContentRecommendations handles POST /api/v1/recommendations/content.
// Ranks every attraction against the stated preferences; an empty catalog
// yields an empty list.
//
// @Summary Content-based recommendations
// @Description Scores attractions by city, transport, working hours, rating floor and period.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body models.ContentRecommendationRequest true "Preferences"
// @Success 200 {object} models.APIResponse{data=[]recommend.ScoredAttraction} "Ranked attractions"
// @Failure 400 {object} models.APIResponse "Invalid preferences"
// @Failure 500 {object} models.APIResponse "Internal error"
// @Router /recommendations/content [post]
func (h *Handler) ContentRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ContentRecommendationRequest
	if !bindJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	results, err := h.engine.ScoreByContent(ctx, req.ToPreferences(), req.TopK)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to generate recommendations", err)
		return
	}
	if results == nil {
		results = []recommend.ScoredAttraction{}
	}

	respondSuccess(w, r, http.StatusOK, results, countOf(len(results)), start)
}

// CollaborativeRecommendations handles GET /api/v1/recommendations/users/{userID}?k=N.
// Predicts scores for attractions the user has not rated from the cached
// similarity table. Missing data conditions are 404s with a specific code.
//
// @Summary Collaborative recommendations
// @Description Predicts scores for attractions the user has not rated, using the cached user similarity table.
// @Tags Recommendations
// @Produce json
// @Param userID path int true "User ID"
// @Param k query int false "Number of results"
// @Success 200 {object} models.APIResponse{data=[]recommend.ScoredAttraction} "Ranked attractions"
// @Failure 400 {object} models.APIResponse "Invalid user ID or k"
// @Failure 404 {object} models.APIResponse "Not enough data (INSUFFICIENT_DATA, NO_RATINGS, NO_SIMILARITY_DATA, NO_RECOMMENDATIONS)"
// @Failure 500 {object} models.APIResponse "Internal error"
// @Router /recommendations/users/{userID} [get]
func (h *Handler) CollaborativeRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid user ID", nil)
		return
	}

	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil || k <= 0 {
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "k must be a positive integer", nil)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	results, err := h.engine.ScoreByCollaboration(ctx, userID, k)
	if err != nil {
		status, code := collaborativeError(err)
		if status == http.StatusNotFound {
			logging.Ctx(r.Context()).Debug().
				Int64("user_id", userID).
				Str("code", code).
				Msg("No collaborative recommendations")
			respondError(w, status, code, err.Error(), nil)
			return
		}
		respondError(w, status, code, "Failed to generate recommendations", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, results, countOf(len(results)), start)
}
