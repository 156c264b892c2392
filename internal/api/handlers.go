// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package api

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/waypoint/internal/config"
	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// Version is reported by the health endpoint. Overridden at build time with
// -ldflags "-X github.com/tomtom215/waypoint/internal/api.Version=...".
var Version = "dev"

// CatalogStore is the subset of the store used by the HTTP handlers. Both
// database.DB and pgstore.Store implement it.
type CatalogStore interface {
	ListAttractions(ctx context.Context, filter models.AttractionFilter) ([]recommend.Attraction, error)
	GetAttraction(ctx context.Context, id int64) (*recommend.Attraction, error)
	CreateAttraction(ctx context.Context, a *recommend.Attraction) (int64, error)
	DeleteAttraction(ctx context.Context, id int64) error

	UpsertRating(ctx context.Context, r recommend.Rating) error
	DeleteRating(ctx context.Context, userID, attractionID int64) error
	ListUserRatings(ctx context.Context, userID int64) ([]recommend.Rating, error)

	CountPendingMarkers(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Recommender is implemented by recommend.Engine.
type Recommender interface {
	ScoreByContent(ctx context.Context, prefs recommend.Preferences, topK int) ([]recommend.ScoredAttraction, error)
	ScoreByCollaboration(ctx context.Context, userID int64, topK int) ([]recommend.ScoredAttraction, error)
	RunRecalcCycle(ctx context.Context) (*recommend.RecalcResult, error)
	Status() recommend.RecalcStatus
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and parsing helpers
//   - handlers_health.go: health and readiness probes
//   - handlers_catalog.go: attraction and rating endpoints
//   - handlers_recommend.go: content and collaborative recommendations
//   - handlers_recalc.go: manual recalculation and worker status
type Handler struct {
	store     CatalogStore
	engine    Recommender
	config    *config.Config
	startTime time.Time

	mu      sync.RWMutex
	trigger func() bool
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(store, engine, cfg)
//	handler.SetRecalcTrigger(recalcService.Trigger)
//	router := api.NewRouter(handler, nil)
//	http.ListenAndServe(":3857", router.SetupChi())
func NewHandler(store CatalogStore, engine Recommender, cfg *config.Config) *Handler {
	return &Handler{
		store:     store,
		engine:    engine,
		config:    cfg,
		startTime: time.Now(),
	}
}

// SetRecalcTrigger sets the function called after every rating mutation to
// ask the recalculation worker for an early cycle. It is optional: without
// it, mutations are picked up on the worker's next tick.
func (h *Handler) SetRecalcTrigger(trigger func() bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.trigger = trigger
}

// nudgeRecalc requests an early recalculation cycle if a trigger is set.
// The marker enqueued by the store is authoritative, so a throttled nudge
// loses nothing.
func (h *Handler) nudgeRecalc() {
	h.mu.RLock()
	trigger := h.trigger
	h.mu.RUnlock()
	if trigger != nil {
		trigger()
	}
}

func (h *Handler) storeDriver() string {
	if h.config == nil {
		return ""
	}
	return h.config.Database.Driver
}

func (h *Handler) recalcTimeout() time.Duration {
	if h.config == nil || h.config.Recommend.RecalcTimeout <= 0 {
		return defaultRecalcTimeout
	}
	return h.config.Recommend.RecalcTimeout
}
