// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package algorithms

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/waypoint/internal/recommend"
)

func TestUserBasedPredictor_SingleContributor(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, scenarioRatings())
	entries, err := NewCosineSimilarityComputer(1).Compute(context.Background(), m)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	got, err := NewUserBasedPredictor().Predict(2, m, recommend.NewSimilarityLookup(entries), 10)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(got) != 1 || got[0].AttractionID != 11 {
		t.Fatalf("expected a single prediction for attraction 11, got %+v", got)
	}
	if math.Abs(got[0].Score-4) > 1e-12 {
		t.Errorf("predicted score = %v, want 4", got[0].Score)
	}
}

func TestUserBasedPredictor_WeightedAverage(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, []recommend.Rating{
		{UserID: 1, AttractionID: 1, Rating: 5},
		{UserID: 2, AttractionID: 1, Rating: 4},
		{UserID: 2, AttractionID: 2, Rating: 2},
		{UserID: 3, AttractionID: 1, Rating: 3},
		{UserID: 3, AttractionID: 2, Rating: 5},
		{UserID: 3, AttractionID: 3, Rating: 1},
	})
	lookup := recommend.NewSimilarityLookup([]recommend.SimilarityEntry{
		{UserLow: 1, UserHigh: 2, Similarity: 0.8},
		{UserLow: 1, UserHigh: 3, Similarity: 0.2},
		{UserLow: 2, UserHigh: 3, Similarity: 0.5},
	})

	got, err := NewUserBasedPredictor().Predict(1, m, lookup, 10)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 predictions, got %+v", got)
	}

	// item 2: (0.8*2 + 0.2*5) / 1.0 = 2.6; item 3: 0.2*1 / 0.2 = 1
	want := map[int64]float64{2: 2.6, 3: 1}
	for _, p := range got {
		if math.Abs(p.Score-want[p.AttractionID]) > 1e-9 {
			t.Errorf("attraction %d: score %v, want %v", p.AttractionID, p.Score, want[p.AttractionID])
		}
	}
	if got[0].AttractionID != 2 {
		t.Errorf("expected attraction 2 first, got %d", got[0].AttractionID)
	}
}

func TestUserBasedPredictor_SkipsZeroWeight(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, []recommend.Rating{
		{UserID: 1, AttractionID: 1, Rating: 5},
		{UserID: 2, AttractionID: 2, Rating: 4},
		{UserID: 3, AttractionID: 1, Rating: 5},
		{UserID: 3, AttractionID: 3, Rating: 2},
	})
	lookup := recommend.NewSimilarityLookup([]recommend.SimilarityEntry{
		{UserLow: 1, UserHigh: 2, Similarity: 0},
		{UserLow: 1, UserHigh: 3, Similarity: 0.7},
	})

	got, err := NewUserBasedPredictor().Predict(1, m, lookup, 10)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(got) != 1 || got[0].AttractionID != 3 {
		t.Errorf("expected only attraction 3 (attraction 2 has zero weight), got %+v", got)
	}
}

func TestUserBasedPredictor_Errors(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, []recommend.Rating{
		{UserID: 1, AttractionID: 1, Rating: 5},
		{UserID: 1, AttractionID: 2, Rating: 3},
		{UserID: 2, AttractionID: 1, Rating: 4},
		{UserID: 2, AttractionID: 2, Rating: 4},
		{UserID: 3, AttractionID: 1, Rating: 1},
	})
	lookup := recommend.NewSimilarityLookup([]recommend.SimilarityEntry{
		{UserLow: 1, UserHigh: 2, Similarity: 0.9},
	})

	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{"unknown user", 42, recommend.ErrNoRatingsForUser},
		{"no similarity rows", 3, recommend.ErrNoSimilarityData},
		{"everything already rated", 1, recommend.ErrNoRecommendations},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUserBasedPredictor().Predict(tt.userID, m, lookup, 5)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUserBasedPredictor_TopK(t *testing.T) {
	t.Parallel()

	var ratings []recommend.Rating
	ratings = append(ratings, recommend.Rating{UserID: 1, AttractionID: 1, Rating: 3})
	for item := int64(2); item <= 30; item++ {
		ratings = append(ratings, recommend.Rating{UserID: 2, AttractionID: item, Rating: int(item%5) + 1})
	}
	m := mustMatrix(t, ratings)
	lookup := recommend.NewSimilarityLookup([]recommend.SimilarityEntry{{UserLow: 1, UserHigh: 2, Similarity: 0.5}})

	got, err := NewUserBasedPredictor().Predict(1, m, lookup, 4)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 predictions, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("not sorted at %d", i)
		}
		if got[i].Score == got[i-1].Score && got[i].AttractionID < got[i-1].AttractionID {
			t.Errorf("ties not ordered by id at %d", i)
		}
	}
}
