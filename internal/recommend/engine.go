// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/metrics"
)

// sharedReadTimeout bounds a coalesced store read, which outlives the
// request that started it.
const sharedReadTimeout = 30 * time.Second

// Engine serves content and collaborative recommendations and owns the
// similarity recalculation cycle.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger

	mu         sync.RWMutex
	store      Store
	content    ContentScorer
	similarity SimilarityComputer
	predictor  Predictor

	// recalcMu is the in-process single-writer lock for RunRecalcCycle.
	recalcMu sync.Mutex

	// loads coalesces concurrent identical store reads on the serving path.
	loads singleflight.Group

	statusMu sync.RWMutex
	status   RecalcStatus
}

// NewEngine creates an engine. Components are attached with the Set methods.
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// SetStore attaches the storage backend.
func (e *Engine) SetStore(s Store) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = s
}

// SetContentScorer attaches the content-based scorer.
func (e *Engine) SetContentScorer(s ContentScorer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.content = s
}

// SetSimilarityComputer attaches the pairwise similarity computer.
func (e *Engine) SetSimilarityComputer(c SimilarityComputer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.similarity = c
}

// SetPredictor attaches the collaborative predictor.
func (e *Engine) SetPredictor(p Predictor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.predictor = p
}

func (e *Engine) getStore() (Store, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.store == nil {
		return nil, fmt.Errorf("%w: store not set", ErrNotConfigured)
	}
	return e.store, nil
}

// ScoreByContent ranks every stored attraction against prefs.
//
//nolint:gocritic // hugeParam: prefs passed by value for immutability
func (e *Engine) ScoreByContent(ctx context.Context, prefs Preferences, topK int) ([]ScoredAttraction, error) {
	start := time.Now()
	store, err := e.getStore()
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	scorer := e.content
	e.mu.RUnlock()
	if scorer == nil {
		return nil, fmt.Errorf("%w: content scorer not set", ErrNotConfigured)
	}

	items, err := e.loadAttractions(ctx, store)
	if err != nil {
		metrics.RecordRecommendation("content", "error", time.Since(start))
		return nil, err
	}

	results := scorer.Score(items, prefs, e.cfg.clampTopK(topK))
	metrics.RecordRecommendation("content", "ok", time.Since(start))

	logging.Ctx(ctx).Debug().
		Int("items", len(items)).
		Int("results", len(results)).
		Str("period", string(prefs.Period)).
		Msg("content recommendations scored")
	return results, nil
}

// ScoreByCollaboration predicts scores for the attractions userID has not
// rated. It returns ErrInsufficientData, ErrNoRatingsForUser,
// ErrNoSimilarityData or ErrNoRecommendations when no ranking can be built.
func (e *Engine) ScoreByCollaboration(ctx context.Context, userID int64, topK int) ([]ScoredAttraction, error) {
	start := time.Now()
	results, err := e.scoreByCollaboration(ctx, userID, e.cfg.clampTopK(topK))

	outcome := "ok"
	switch {
	case err == nil:
	case isDataAvailability(err):
		outcome = "no_data"
	default:
		outcome = "error"
	}
	metrics.RecordRecommendation("collaborative", outcome, time.Since(start))
	return results, err
}

func (e *Engine) scoreByCollaboration(ctx context.Context, userID int64, topK int) ([]ScoredAttraction, error) {
	store, err := e.getStore()
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	predictor := e.predictor
	e.mu.RUnlock()
	if predictor == nil {
		return nil, fmt.Errorf("%w: predictor not set", ErrNotConfigured)
	}

	ratings, err := e.loadRatings(ctx, store)
	if err != nil {
		return nil, err
	}
	m, err := BuildUserItemMatrix(ratings)
	if err != nil {
		return nil, err
	}
	if !m.HasUser(userID) {
		return nil, fmt.Errorf("%w %d", ErrNoRatingsForUser, userID)
	}

	entries, err := store.ReadUserSimilarities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read user similarities: %w", err)
	}

	predictions, err := predictor.Predict(userID, m, NewSimilarityLookup(entries), topK)
	if err != nil {
		return nil, err
	}

	items, err := e.loadAttractions(ctx, store)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]Attraction, len(items))
	for i := range items {
		byID[items[i].ID] = items[i]
	}

	results := make([]ScoredAttraction, 0, len(predictions))
	for _, p := range predictions {
		a, ok := byID[p.AttractionID]
		if !ok {
			// Deleted between the ratings read and the catalog read.
			continue
		}
		results = append(results, ScoredAttraction{Attraction: a, Score: p.Score})
	}
	if len(results) == 0 {
		return nil, ErrNoRecommendations
	}

	logging.Ctx(ctx).Debug().
		Int64("user_id", userID).
		Int("neighbors", len(entries)).
		Int("results", len(results)).
		Msg("collaborative recommendations scored")
	return results, nil
}

func (e *Engine) loadRatings(ctx context.Context, store Store) ([]Rating, error) {
	v, err := e.sharedLoad(ctx, "ratings", func(readCtx context.Context) (interface{}, error) {
		return store.ReadRatings(readCtx)
	})
	if err != nil {
		return nil, fmt.Errorf("read ratings: %w", err)
	}
	return v.([]Rating), nil
}

func (e *Engine) loadAttractions(ctx context.Context, store Store) ([]Attraction, error) {
	v, err := e.sharedLoad(ctx, "attractions", func(readCtx context.Context) (interface{}, error) {
		return store.ReadAttractions(readCtx)
	})
	if err != nil {
		return nil, fmt.Errorf("read attractions: %w", err)
	}
	return v.([]Attraction), nil
}

// sharedLoad runs read once for all concurrent callers of key. The read is
// detached from any single caller's cancellation and bounded by
// sharedReadTimeout; each caller still stops waiting when its own ctx ends.
func (e *Engine) sharedLoad(ctx context.Context, key string, read func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := e.loads.DoChan(key, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()
		return read(readCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func isDataAvailability(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrNoRatingsForUser) ||
		errors.Is(err, ErrNoSimilarityData) ||
		errors.Is(err, ErrNoRecommendations)
}

// IsDataAvailability reports whether err is one of the named "not enough
// data" conditions rather than an infrastructure failure.
func IsDataAvailability(err error) bool {
	return isDataAvailability(err)
}
