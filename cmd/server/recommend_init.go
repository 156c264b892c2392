// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tomtom215/waypoint/internal/config"
	"github.com/tomtom215/waypoint/internal/recommend"
	"github.com/tomtom215/waypoint/internal/recommend/algorithms"
	"github.com/tomtom215/waypoint/internal/supervisor"
	"github.com/tomtom215/waypoint/internal/supervisor/services"
)

// RecommendComponents holds the engine and the worker that keeps its
// similarity table current.
type RecommendComponents struct {
	Engine *recommend.Engine
	Recalc *services.RecalcService
}

// initRecommend builds the engine over store and registers the
// recalculation worker in the tree's worker layer.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, store recommend.Store, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	logger.Info().
		Int("default_top_k", cfg.Recommend.DefaultTopK).
		Int("max_top_k", cfg.Recommend.MaxTopK).
		Dur("recalc_interval", cfg.Recommend.RecalcInterval).
		Bool("recalc_on_startup", cfg.Recommend.RecalcOnStartup).
		Msg("initializing recommendation engine")

	engine, err := recommend.NewEngine(&recommend.Config{
		DefaultTopK: cfg.Recommend.DefaultTopK,
		MaxTopK:     cfg.Recommend.MaxTopK,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	engine.SetStore(store)
	engine.SetContentScorer(algorithms.NewContentScorer())
	engine.SetSimilarityComputer(algorithms.NewCosineSimilarityComputer(0))
	engine.SetPredictor(algorithms.NewUserBasedPredictor())

	recalc := services.NewRecalcService(engine, services.RecalcServiceConfig{
		RunOnStartup: cfg.Recommend.RecalcOnStartup,
		Interval:     cfg.Recommend.RecalcInterval,
		CycleTimeout: cfg.Recommend.RecalcTimeout,
		TriggerRate:  cfg.Recommend.TriggerRate,
		TriggerBurst: cfg.Recommend.TriggerBurst,
	}, logger.With().Str("service", "recalc").Logger())
	tree.AddWorkerService(recalc)
	logger.Info().Msg("recalculation worker added to supervisor tree")

	return &RecommendComponents{Engine: engine, Recalc: recalc}, nil
}
