// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package recommend

import "testing"

func TestCanonicalPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b, low, high int64
	}{
		{1, 2, 1, 2},
		{2, 1, 1, 2},
		{5, 5, 5, 5},
		{-3, 4, -3, 4},
	}
	for _, tt := range tests {
		low, high := CanonicalPair(tt.a, tt.b)
		if low != tt.low || high != tt.high {
			t.Errorf("CanonicalPair(%d, %d) = (%d, %d), want (%d, %d)", tt.a, tt.b, low, high, tt.low, tt.high)
		}
	}
}

func TestSimilarityLookup(t *testing.T) {
	t.Parallel()

	l := NewSimilarityLookup([]SimilarityEntry{
		{UserLow: 1, UserHigh: 2, Similarity: 0.5},
		{UserLow: 3, UserHigh: 1, Similarity: 0.25},
		{UserLow: 4, UserHigh: 4, Similarity: 1},
	})

	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if s, ok := l.Similarity(2, 1); !ok || s != 0.5 {
		t.Errorf("Similarity(2, 1) = %v, %v", s, ok)
	}
	if s, ok := l.Similarity(1, 3); !ok || s != 0.25 {
		t.Errorf("misoriented entry not canonicalized: %v, %v", s, ok)
	}
	if _, ok := l.Similarity(4, 4); ok {
		t.Error("self pairs must not be stored")
	}
	if _, ok := l.Similarity(2, 3); ok {
		t.Error("unknown pair reported as present")
	}

	n := l.Neighbors(1)
	if len(n) != 2 || n[2] != 0.5 || n[3] != 0.25 {
		t.Errorf("Neighbors(1) = %v", n)
	}
	if n := l.Neighbors(3); len(n) != 1 || n[1] != 0.25 {
		t.Errorf("Neighbors(3) should see the high-side entry, got %v", n)
	}
	if n := l.Neighbors(4); len(n) != 0 {
		t.Errorf("Neighbors(4) = %v, want none", n)
	}
}

func TestConfigClampTopK(t *testing.T) {
	t.Parallel()

	c := &Config{DefaultTopK: 5, MaxTopK: 20}
	tests := []struct{ in, want int }{
		{0, 5},
		{-1, 5},
		{3, 3},
		{20, 20},
		{500, 20},
	}
	for _, tt := range tests {
		if got := c.clampTopK(tt.in); got != tt.want {
			t.Errorf("clampTopK(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if err := (&Config{DefaultTopK: 10, MaxTopK: 5}).Validate(); err == nil {
		t.Error("expected error when max_top_k < default_top_k")
	}
	if err := (&Config{DefaultTopK: 0, MaxTopK: 5}).Validate(); err == nil {
		t.Error("expected error for non-positive default_top_k")
	}
}
