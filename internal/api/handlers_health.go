// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/waypoint/internal/models"
)

// healthCheckTimeout bounds store calls made by health probes.
const healthCheckTimeout = 2 * time.Second

// Health handles GET /api/v1/health.
// Returns store connectivity, the pending invalidation marker count and uptime.
// The status is "degraded" rather than an error when the store is unreachable.
//
// @Summary Get service health status
// @Description Returns store connectivity, the driver in use, pending recalculation markers and uptime
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	storeHealthy := h.store != nil && h.store.Ping(ctx) == nil

	health := models.HealthStatus{
		Status:       "healthy",
		Version:      Version,
		StoreDriver:  h.storeDriver(),
		StoreHealthy: storeHealthy,
		Uptime:       time.Since(h.startTime).Seconds(),
	}
	if !storeHealthy {
		health.Status = "degraded"
	} else if pending, err := h.store.CountPendingMarkers(ctx); err == nil {
		health.PendingRecalc = &pending
	}

	respondSuccess(w, r, http.StatusOK, health, nil, time.Time{})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of the store.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, nil, time.Time{})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the store answers a ping, 503 otherwise.
//
// @Summary Kubernetes readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Store not configured", nil)
		return
	}
	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Store not reachable", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"ready": true,
		"store": h.storeDriver(),
	}, nil, time.Time{})
}
