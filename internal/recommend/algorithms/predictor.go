// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package algorithms

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/waypoint/internal/recommend"
)

// DefaultCollaborativeTopK is used when Predict receives topK <= 0.
const DefaultCollaborativeTopK = 10

// UserBasedPredictor implements user-based collaborative filtering on top of
// a precomputed similarity table.
//
// For target user u and unrated attraction i:
//
//	score(u, i) = sum_v sim(u, v) * r(v, i) / sum_v |sim(u, v)|
//
// over users v who rated i and have a known similarity to u. Attractions
// with no such v, or with zero total weight, are skipped rather than scored 0.
type UserBasedPredictor struct{}

// NewUserBasedPredictor creates a predictor.
func NewUserBasedPredictor() *UserBasedPredictor {
	return &UserBasedPredictor{}
}

// Predict returns up to topK predictions for userID, best first; ties are
// broken by ascending attraction id.
func (UserBasedPredictor) Predict(userID int64, m *recommend.UserItemMatrix, lookup *recommend.SimilarityLookup, topK int) ([]recommend.Prediction, error) {
	if !m.HasUser(userID) {
		return nil, fmt.Errorf("%w %d", recommend.ErrNoRatingsForUser, userID)
	}
	neighbors := lookup.Neighbors(userID)
	if len(neighbors) == 0 {
		return nil, fmt.Errorf("%w %d", recommend.ErrNoSimilarityData, userID)
	}
	if topK <= 0 {
		topK = DefaultCollaborativeTopK
	}

	var predictions []recommend.Prediction
	for _, itemID := range m.UnratedItems(userID) {
		var num, den float64
		for _, v := range m.Raters(itemID) {
			sim, ok := neighbors[v]
			if !ok {
				continue
			}
			r, _ := m.Rating(v, itemID)
			num += sim * r
			den += math.Abs(sim)
		}
		if den == 0 {
			continue
		}
		predictions = append(predictions, recommend.Prediction{AttractionID: itemID, Score: num / den})
	}

	if len(predictions) == 0 {
		return nil, fmt.Errorf("%w for user %d", recommend.ErrNoRecommendations, userID)
	}

	// UnratedItems is ascending, so a stable sort keeps ties ordered by id.
	sort.SliceStable(predictions, func(a, b int) bool {
		return predictions[a].Score > predictions[b].Score
	})
	if len(predictions) > topK {
		predictions = predictions[:topK]
	}
	return predictions, nil
}
