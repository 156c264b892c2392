// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/metrics"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// Defaults applied to zero RecalcServiceConfig fields.
const (
	DefaultRecalcInterval = 30 * time.Second
	DefaultRecalcTimeout  = 30 * time.Minute
	DefaultTriggerRate    = 1.0
	DefaultTriggerBurst   = 1
)

// RecalcEngine runs similarity recalculation cycles.
type RecalcEngine interface {
	RunRecalcCycle(ctx context.Context) (*recommend.RecalcResult, error)
}

// RecalcServiceConfig holds configuration for the recalculation worker.
type RecalcServiceConfig struct {
	// RunOnStartup runs a cycle as soon as the service starts.
	RunOnStartup bool

	// Interval is how often the invalidation queue is polled.
	Interval time.Duration

	// CycleTimeout bounds a single cycle.
	CycleTimeout time.Duration

	// TriggerRate and TriggerBurst limit how often Trigger may start an
	// early cycle.
	TriggerRate  float64
	TriggerBurst int
}

// RecalcService is the recalculation worker. It polls the invalidation queue
// on a fixed interval and runs an early cycle when nudged by Trigger.
// Cycles never overlap within the service; the engine's lock covers other
// callers.
type RecalcService struct {
	engine   RecalcEngine
	config   RecalcServiceConfig
	logger   zerolog.Logger
	name     string
	limiter  *rate.Limiter
	triggers chan struct{}
}

// NewRecalcService creates the recalculation worker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecalcService(engine RecalcEngine, cfg RecalcServiceConfig, logger zerolog.Logger) *RecalcService {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultRecalcInterval
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = DefaultRecalcTimeout
	}
	if cfg.TriggerRate <= 0 {
		cfg.TriggerRate = DefaultTriggerRate
	}
	if cfg.TriggerBurst <= 0 {
		cfg.TriggerBurst = DefaultTriggerBurst
	}
	return &RecalcService{
		engine:   engine,
		config:   cfg,
		logger:   logger.With().Str("service", "recalc").Logger(),
		name:     "recalc-worker",
		limiter:  rate.NewLimiter(rate.Limit(cfg.TriggerRate), cfg.TriggerBurst),
		triggers: make(chan struct{}, 1),
	}
}

// Trigger asks for an early cycle without blocking. It reports whether a
// cycle is now pending; requests over the rate limit are dropped, and the
// next scheduled poll picks up their markers.
func (s *RecalcService) Trigger() bool {
	if !s.limiter.Allow() {
		metrics.RecordRecalcTrigger("throttled")
		return false
	}
	select {
	case s.triggers <- struct{}{}:
		metrics.RecordRecalcTrigger("accepted")
	default:
		metrics.RecordRecalcTrigger("coalesced")
	}
	return true
}

// Serve implements the suture.Service interface.
func (s *RecalcService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Dur("cycle_timeout", s.config.CycleTimeout).
		Msg("recalculation worker starting")

	if s.config.RunOnStartup {
		s.runCycle(ctx, "startup")
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recalculation worker shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.runCycle(ctx, "schedule")

		case <-s.triggers:
			s.runCycle(ctx, "trigger")
		}
	}
}

// runCycle runs one bounded cycle. Failures are logged and left for the next
// poll, since the markers survive a failed publish.
func (s *RecalcService) runCycle(ctx context.Context, reason string) {
	cycleCtx, cancel := context.WithTimeout(ctx, s.config.CycleTimeout)
	defer cancel()

	cycleCtx = logging.ContextWithNewCorrelationID(cycleCtx)
	cycleCtx = logging.ContextWithLogger(cycleCtx, s.logger.With().Str("reason", reason).Logger())
	logger := logging.Ctx(cycleCtx)

	result, err := s.engine.RunRecalcCycle(cycleCtx)
	switch {
	case errors.Is(err, recommend.ErrRecalcInProgress):
		logger.Debug().Msg("recalculation already running elsewhere, skipping")
	case err != nil && ctx.Err() != nil:
		logger.Info().Err(err).Msg("recalculation interrupted by shutdown")
	case err != nil:
		logger.Warn().Err(err).Msg("recalculation cycle failed, markers kept for retry")
	case result.Idle:
		logger.Debug().Msg("similarity cache up to date")
	default:
		logger.Info().
			Int64("high_water", result.HighWater).
			Int("entries", result.Entries).
			Dur("duration", result.Duration).
			Msg("recalculation cycle complete")
	}
}

// String returns the service name for logging.
func (s *RecalcService) String() string {
	return s.name
}
