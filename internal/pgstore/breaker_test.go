// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package pgstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/waypoint/internal/recommend"
)

func TestIsCallerError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", fmt.Errorf("attraction 1: %w", recommend.ErrNotFound), true},
		{"cancelled", context.Canceled, true},
		{"invalid rating", validateRating(recommend.Rating{Rating: 9}), true},
		{"foreign key", &pgconn.PgError{Code: "23503"}, true},
		{"check violation", &pgconn.PgError{Code: "23514"}, true},
		{"numeric overflow", &pgconn.PgError{Code: "22003"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isCallerError(tt.err); got != tt.want {
				t.Errorf("isCallerError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGuarded_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	s := &Store{cb: newBreaker(3, time.Hour)}
	boom := errors.New("connection reset")

	for i := 0; i < 3; i++ {
		if _, err := guarded(s, func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected the underlying error, got %v", i, err)
		}
	}
	if s.BreakerState() != "open" {
		t.Fatalf("breaker state = %q, want open", s.BreakerState())
	}

	called := false
	_, err := guarded(s, func() (int, error) { called = true; return 1, nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if called {
		t.Error("open breaker must not run the call")
	}
}

func TestGuarded_CallerErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	s := &Store{cb: newBreaker(2, time.Hour)}
	for i := 0; i < 5; i++ {
		err := guardedErr(s, func() error {
			return fmt.Errorf("rating: %w", recommend.ErrNotFound)
		})
		if !errors.Is(err, recommend.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if s.BreakerState() != "closed" {
		t.Errorf("breaker state = %q, want closed", s.BreakerState())
	}
}

func TestGuarded_ReturnsValue(t *testing.T) {
	t.Parallel()

	s := &Store{cb: newBreaker(0, 0)}
	got, err := guarded(s, func() ([]int64, error) { return []int64{1, 2}, nil })
	if err != nil || len(got) != 2 {
		t.Errorf("guarded() = %v, %v", got, err)
	}

	empty, err := guarded(s, func() ([]int64, error) { return nil, nil })
	if err != nil || empty != nil {
		t.Errorf("nil slice result: %v, %v", empty, err)
	}
}

func TestSchemaStatements_TriggerDDL(t *testing.T) {
	t.Parallel()

	stmts := schemaStatements()
	var recalcTrigger, ratingTrigger bool
	for _, s := range stmts {
		switch s {
		case createRecalcTrigger:
			recalcTrigger = true
		case createRatingTrigger:
			ratingTrigger = true
		}
	}
	if !recalcTrigger || !ratingTrigger {
		t.Errorf("missing triggers: recalc=%v rating=%v", recalcTrigger, ratingTrigger)
	}

	// Each trigger is dropped before it is created so setup can rerun.
	index := func(target string) int {
		for i, s := range stmts {
			if s == target {
				return i
			}
		}
		return -1
	}
	if index(dropRecalcTrigger) > index(createRecalcTrigger) || index(dropRatingTrigger) > index(createRatingTrigger) {
		t.Error("triggers must be dropped before they are recreated")
	}
}
