// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// defaultRecalcTimeout applies when the config leaves recalc_timeout unset.
const defaultRecalcTimeout = 30 * time.Minute

// TriggerRecalc handles POST /api/v1/recalc.
// Runs one recalculation cycle synchronously and returns its result. Returns
// 409 RECALC_IN_PROGRESS when the background worker or another process holds
// the lock.
//
// @Summary Run a similarity recalculation
// @Description Drains pending invalidation markers and republishes the user similarity table. Idle when nothing is pending.
// @Tags Recalculation
// @Produce json
// @Success 200 {object} models.APIResponse{data=recommend.RecalcResult} "Cycle finished"
// @Failure 409 {object} models.APIResponse "Another cycle holds the lock"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 500 {object} models.APIResponse "Recalculation failed"
// @Router /recalc [post]
func (h *Handler) TriggerRecalc(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.recalcTimeout())
	defer cancel()
	ctx = logging.ContextWithLogger(ctx, logging.LoggerFromContext(ctx).With().Str("trigger", "api").Logger())

	result, err := h.engine.RunRecalcCycle(ctx)
	switch {
	case errors.Is(err, recommend.ErrRecalcInProgress):
		respondError(w, http.StatusConflict, models.ErrCodeRecalcInProgress, "A similarity recalculation is already running", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Similarity recalculation failed", err)
		return
	}

	logging.Ctx(ctx).Info().
		Bool("idle", result.Idle).
		Int("entries", result.Entries).
		Int("markers_drained", result.MarkersDrained).
		Msg("Manual recalculation finished")

	respondSuccess(w, r, http.StatusOK, result, nil, start)
}

// RecalcStatus handles GET /api/v1/recalc/status.
//
// @Summary Get recalculation status
// @Tags Recalculation
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.RecalcStatusResponse} "Status retrieved successfully"
// @Failure 500 {object} models.APIResponse "Database error"
// @Router /recalc/status [get]
func (h *Handler) RecalcStatus(w http.ResponseWriter, r *http.Request) {
	pending, err := h.store.CountPendingMarkers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to count pending markers", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.RecalcStatusResponse{
		RecalcStatus:   h.engine.Status(),
		PendingMarkers: pending,
	}, nil, time.Time{})
}
