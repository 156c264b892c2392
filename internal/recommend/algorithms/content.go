// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package algorithms

import (
	"math"
	"sort"

	"github.com/tomtom215/waypoint/internal/recommend"
)

// DefaultContentTopK is used when Score receives topK <= 0.
const DefaultContentTopK = 5

// ContentScorer ranks attractions by cosine similarity between their feature
// vectors and a synthetic preference vector.
type ContentScorer struct {
	encoder *FeatureEncoder
}

// NewContentScorer creates a content scorer.
func NewContentScorer() *ContentScorer {
	return &ContentScorer{encoder: NewFeatureEncoder()}
}

// Score returns at most topK attractions ordered by descending score, ties
// kept in input order. An empty item set yields an empty, non-nil result.
//
// The rating feature is min-max scaled with bounds fitted on items only and
// the same transform applied to the preference vector. Without a MinRating
// the preferred rating is the best rating in the batch. With one, items rated
// below it (or unrated) are dropped after scoring.
//
//nolint:gocritic // hugeParam: prefs passed by value for immutability
func (s *ContentScorer) Score(items []recommend.Attraction, prefs recommend.Preferences, topK int) []recommend.ScoredAttraction {
	if len(items) == 0 {
		return []recommend.ScoredAttraction{}
	}
	if topK <= 0 {
		topK = DefaultContentTopK
	}

	rows, pref := s.vectorize(items, &prefs)

	scored := make([]recommend.ScoredAttraction, 0, len(items))
	for i := range items {
		score := cosineSimilarity(rows[i], pref)
		if prefs.MinRating != nil && (items[i].Rating == nil || *items[i].Rating < *prefs.MinRating) {
			continue
		}
		scored = append(scored, recommend.ScoredAttraction{Attraction: items[i], Score: score})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// vectorize runs the two-pass encode: collect the vocabulary over all items
// plus the preference record, then project and rescale the rating column.
func (s *ContentScorer) vectorize(items []recommend.Attraction, prefs *recommend.Preferences) (rows [][]float64, pref []float64) {
	period := prefs.Period
	if period == "" {
		period = recommend.PeriodAnytime
	}

	sparse := make([]FeatureVector, len(items))
	maxRating := math.Inf(-1)
	for i := range items {
		sparse[i] = s.encoder.Encode(&items[i], period)
		maxRating = math.Max(maxRating, items[i].RatingValue())
	}

	prefRating := maxRating
	if prefs.MinRating != nil {
		prefRating = *prefs.MinRating
	}
	prefVec := s.encoder.EncodePreferences(prefs, prefRating)

	voc := buildVocabulary(append(sparse, prefVec)...)
	rows = make([][]float64, len(items))
	for i, v := range sparse {
		rows[i] = voc.project(v)
	}
	pref = voc.project(prefVec)

	scaleColumn(rows, pref, voc.index[FeatureRating])
	return rows, pref
}

// scaleColumn min-max scales column col of rows to [0, 1] and applies the
// same transform to extra. A constant column has range 1, so it maps to 0.
func scaleColumn(rows [][]float64, extra []float64, col int) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		lo = math.Min(lo, r[col])
		hi = math.Max(hi, r[col])
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for _, r := range rows {
		r[col] = (r[col] - lo) / span
	}
	extra[col] = (extra[col] - lo) / span
}
