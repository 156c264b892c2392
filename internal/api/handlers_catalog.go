// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// ListAttractions handles GET /api/v1/attractions.
// Optional query parameters: city, type, name, limit.
//
// @Summary List attractions
// @Description Returns catalog entries filtered by city, type and name (case-insensitive), ordered by id.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param city query string false "City, exact match ignoring case"
// @Param type query string false "Attraction type"
// @Param name query string false "Substring of the attraction name"
// @Param limit query int false "Maximum number of results"
// @Success 200 {object} models.APIResponse{data=[]recommend.Attraction} "Attractions retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid filter"
// @Failure 500 {object} models.APIResponse "Database error"
// @Router /attractions [get]
func (h *Handler) ListAttractions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()
	filter := models.AttractionFilter{
		City:  q.Get("city"),
		Type:  q.Get("type"),
		Name:  q.Get("name"),
		Limit: getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&filter); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	items, err := h.store.ListAttractions(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to list attractions", err)
		return
	}
	if items == nil {
		items = []recommend.Attraction{}
	}

	respondSuccess(w, r, http.StatusOK, items, countOf(len(items)), start)
}

// GetAttraction handles GET /api/v1/attractions/{id}.
//
// @Summary Get an attraction
// @Tags Catalog
// @Produce json
// @Param id path int true "Attraction ID"
// @Success 200 {object} models.APIResponse{data=recommend.Attraction} "Attraction retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid attraction ID"
// @Failure 404 {object} models.APIResponse "Attraction not found"
// @Router /attractions/{id} [get]
func (h *Handler) GetAttraction(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid attraction ID", nil)
		return
	}

	a, err := h.store.GetAttraction(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "Attraction not found", "Failed to get attraction")
		return
	}

	respondSuccess(w, r, http.StatusOK, a, nil, time.Time{})
}

// CreateAttraction handles POST /api/v1/attractions.
// The aggregate rating is derived from ratings and cannot be supplied.
//
// @Summary Create an attraction
// @Description Adds a catalog entry. The aggregate rating starts empty and follows the stored ratings.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.CreateAttractionRequest true "Attraction"
// @Success 201 {object} models.APIResponse{data=recommend.Attraction} "Attraction created"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 500 {object} models.APIResponse "Database error"
// @Router /attractions [post]
func (h *Handler) CreateAttraction(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAttractionRequest
	if !bindJSON(w, r, &req) {
		return
	}

	a := req.ToAttraction()
	id, err := h.store.CreateAttraction(r.Context(), &a)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to create attraction", err)
		return
	}
	a.ID = id

	logging.Ctx(r.Context()).Info().
		Int64("attraction_id", id).
		Str("city", a.City).
		Msg("Attraction created")

	respondSuccess(w, r, http.StatusCreated, a, nil, time.Time{})
}

// DeleteAttraction handles DELETE /api/v1/attractions/{id}.
// Ratings of the attraction are removed with it, so the worker is nudged.
//
// @Summary Delete an attraction
// @Description Removes the attraction together with its ratings. Removed ratings enqueue a similarity recalculation.
// @Tags Catalog
// @Produce json
// @Param id path int true "Attraction ID"
// @Success 200 {object} models.APIResponse "Attraction deleted"
// @Failure 400 {object} models.APIResponse "Invalid attraction ID"
// @Failure 404 {object} models.APIResponse "Attraction not found"
// @Router /attractions/{id} [delete]
func (h *Handler) DeleteAttraction(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid attraction ID", nil)
		return
	}

	if err := h.store.DeleteAttraction(r.Context(), id); err != nil {
		respondStoreError(w, err, "Attraction not found", "Failed to delete attraction")
		return
	}
	h.nudgeRecalc()

	logging.Ctx(r.Context()).Info().Int64("attraction_id", id).Msg("Attraction deleted")

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{"deleted": id}, nil, time.Time{})
}

// PutRating handles PUT /api/v1/ratings.
// Body: {"user_id": 1, "attraction_id": 2, "rating": 5}. The store enqueues
// an invalidation marker in the same transaction.
//
// @Summary Store a rating
// @Description Inserts or replaces a user's 1-5 rating and enqueues a similarity recalculation.
// @Tags Ratings
// @Accept json
// @Produce json
// @Param request body models.RatingRequest true "Rating"
// @Success 200 {object} models.APIResponse{data=recommend.Rating} "Rating stored"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 404 {object} models.APIResponse "Attraction not found"
// @Router /ratings [put]
func (h *Handler) PutRating(w http.ResponseWriter, r *http.Request) {
	var req models.RatingRequest
	if !bindJSON(w, r, &req) {
		return
	}

	rating := req.ToRating()
	if err := h.store.UpsertRating(r.Context(), rating); err != nil {
		respondStoreError(w, err, "Attraction not found", "Failed to store rating")
		return
	}
	h.nudgeRecalc()

	respondSuccess(w, r, http.StatusOK, rating, nil, time.Time{})
}

// DeleteRating handles DELETE /api/v1/ratings/{userID}/{attractionID}.
//
// @Summary Delete a rating
// @Tags Ratings
// @Produce json
// @Param userID path int true "User ID"
// @Param attractionID path int true "Attraction ID"
// @Success 200 {object} models.APIResponse "Rating deleted"
// @Failure 400 {object} models.APIResponse "Invalid ID"
// @Failure 404 {object} models.APIResponse "Rating not found"
// @Router /ratings/{userID}/{attractionID} [delete]
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid user ID", nil)
		return
	}
	attractionID, err := parseIDParam(r, "attractionID")
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid attraction ID", nil)
		return
	}

	if err := h.store.DeleteRating(r.Context(), userID, attractionID); err != nil {
		respondStoreError(w, err, "Rating not found", "Failed to delete rating")
		return
	}
	h.nudgeRecalc()

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"user_id":       userID,
		"attraction_id": attractionID,
		"deleted":       true,
	}, nil, time.Time{})
}

// ListUserRatings handles GET /api/v1/users/{userID}/ratings.
// A user without ratings gets an empty list, not a 404.
//
// @Summary List a user's ratings
// @Tags Ratings
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} models.APIResponse{data=[]recommend.Rating} "Ratings retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid user ID"
// @Router /users/{userID}/ratings [get]
func (h *Handler) ListUserRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid user ID", nil)
		return
	}

	ratings, err := h.store.ListUserRatings(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to list ratings", err)
		return
	}
	if ratings == nil {
		ratings = []recommend.Rating{}
	}

	respondSuccess(w, r, http.StatusOK, ratings, countOf(len(ratings)), start)
}
