// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/metrics"
)

// RunRecalcCycle runs one recalculation cycle:
//
//	Idle -> Draining -> Recomputing -> Publishing -> Idle
//
// The cycle consumes only the markers it reads while Draining, and deletes
// exactly those ids in the same transaction that publishes the new table, so a
// failed publish keeps both the previous table and the markers. A marker that
// commits after Draining survives even when its id is lower than the
// high-water mark, since its rating may be missing from the ratings read. With
// no pending markers the call is a no-op returning a result with Idle set.
//
// Safe to call on any schedule. A call that overlaps another cycle returns
// ErrRecalcInProgress without doing anything.
func (e *Engine) RunRecalcCycle(ctx context.Context) (*RecalcResult, error) {
	store, err := e.getStore()
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	computer := e.similarity
	e.mu.RUnlock()
	if computer == nil {
		return nil, fmt.Errorf("%w: similarity computer not set", ErrNotConfigured)
	}

	if !e.recalcMu.TryLock() {
		metrics.RecordRecalcCycle("locked", 0)
		return nil, ErrRecalcInProgress
	}
	defer e.recalcMu.Unlock()

	if locker, ok := store.(RecalcLocker); ok {
		release, acquired, lockErr := locker.TryLockRecalc(ctx)
		if lockErr != nil {
			return nil, fmt.Errorf("acquire recalc lock: %w", lockErr)
		}
		if !acquired {
			metrics.RecordRecalcCycle("locked", 0)
			return nil, ErrRecalcInProgress
		}
		defer release()
	}

	start := time.Now()
	e.beginCycle(start)
	result, err := e.runCycle(ctx, store, computer, start)
	e.finishCycle(result, err)

	switch {
	case err != nil:
		metrics.RecordRecalcCycle("failed", time.Since(start))
	case result.Idle:
		metrics.RecordRecalcCycle("idle", result.Duration)
	default:
		metrics.RecordRecalcCycle("published", result.Duration)
		metrics.SimilarityEntries.Set(float64(result.Entries))
		metrics.RecalcLastSuccess.SetToCurrentTime()
	}
	return result, err
}

func (e *Engine) runCycle(ctx context.Context, store Store, computer SimilarityComputer, start time.Time) (*RecalcResult, error) {
	// Draining: fix the consumed marker set before reading any ratings.
	markers, err := store.ReadPendingMarkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("read pending markers: %w", err)
	}
	metrics.RecalcPendingMarkers.Set(float64(len(markers)))
	if len(markers) == 0 {
		return &RecalcResult{Idle: true, Duration: time.Since(start)}, nil
	}

	result := &RecalcResult{
		HighWater:      markers[len(markers)-1],
		MarkersDrained: len(markers),
	}
	logger := logging.Ctx(ctx).With().
		Str("component", "recommend").
		Int64("high_water", result.HighWater).
		Logger()
	logger.Info().Int("markers", len(markers)).Msg("similarity cache stale, recalculating")

	// Recomputing: always from a fresh read.
	ratings, err := store.ReadRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ratings: %w", err)
	}

	var entries []SimilarityEntry
	m, err := BuildUserItemMatrix(ratings)
	switch {
	case errors.Is(err, ErrInsufficientData):
		logger.Warn().Int("ratings", len(ratings)).Msg("fewer than two users have ratings, publishing empty similarity table")
	case err != nil:
		return nil, fmt.Errorf("build user-item matrix: %w", err)
	default:
		result.Users = m.NumUsers()
		result.Items = m.NumItems()
		entries, err = computer.Compute(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("compute similarities: %w", err)
		}
		if len(entries) == 0 {
			logger.Warn().Int("users", result.Users).Msg("similarity result is empty")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recalculation aborted before publish: %w", err)
	}

	// Publishing: table swap and marker drain commit together.
	if err := store.ReplaceSimilarityTable(ctx, entries, markers); err != nil {
		return nil, fmt.Errorf("publish similarity table: %w", err)
	}

	result.Entries = len(entries)
	result.Duration = time.Since(start)
	logger.Info().
		Int("users", result.Users).
		Int("items", result.Items).
		Int("entries", result.Entries).
		Dur("duration", result.Duration).
		Msg("similarity table published")
	return result, nil
}

func (e *Engine) beginCycle(start time.Time) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.InProgress = true
	e.status.LastStartedAt = start
}

func (e *Engine) finishCycle(result *RecalcResult, err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	now := time.Now()
	e.status.InProgress = false
	e.status.LastCompletedAt = now
	e.status.Cycles++

	if err != nil {
		e.status.FailedCycles++
		e.status.LastError = err.Error()
		return
	}
	e.status.LastError = ""
	if result.Idle {
		e.status.IdleCycles++
		return
	}
	r := *result
	e.status.LastResult = &r
	e.status.LastPublishedAt = now
}

// Status returns a snapshot of the recalculation state.
func (e *Engine) Status() RecalcStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()

	s := e.status
	if s.LastResult != nil {
		r := *s.LastResult
		s.LastResult = &r
	}
	return s
}
