// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package algorithms

import (
	"sort"
	"strings"
	"unicode"

	"github.com/tomtom215/waypoint/internal/recommend"
)

// Feature names that are not derived from a token.
const (
	FeatureRating       = "rating"
	FeatureOpenInPeriod = "open_in_period"
)

// FeatureVector is a sparse named feature vector.
type FeatureVector map[string]float64

// FeatureEncoder turns attractions and preferences into FeatureVectors that
// share one naming scheme:
//
//	transport=<token>, type=<token>   one per distinct token
//	price=<value>, city=<value>       one each
//	rating                            numeric, unscaled
//	open_in_period                    0 or 1
type FeatureEncoder struct{}

// NewFeatureEncoder creates an encoder.
func NewFeatureEncoder() *FeatureEncoder {
	return &FeatureEncoder{}
}

// Encode encodes one attraction for the requested period.
func (FeatureEncoder) Encode(a *recommend.Attraction, period recommend.Period) FeatureVector {
	v := make(FeatureVector, 8)
	addTokens(v, "transport", a.Transport)
	addTokens(v, "type", a.Type)
	addSingle(v, "price", a.Price)
	addSingle(v, "city", a.City)
	v[FeatureRating] = a.RatingValue()
	v[FeatureOpenInPeriod] = OpenInPeriod(a.WorkingHours, period)
	return v
}

// EncodePreferences encodes a preference profile with the same tokenization
// as Encode. rating is the preferred aggregate rating. The profile always
// asks for the attraction to be open in the chosen period.
func (FeatureEncoder) EncodePreferences(p *recommend.Preferences, rating float64) FeatureVector {
	v := make(FeatureVector, 8)
	addSingle(v, "city", p.City)
	addTokens(v, "type", p.Type)
	addTokens(v, "transport", p.Transport)
	addSingle(v, "price", p.Price)
	v[FeatureRating] = rating
	v[FeatureOpenInPeriod] = 1
	return v
}

// Tokenize splits a multi-valued label on commas and whitespace, lower-cases
// each part and drops empties and duplicates, keeping first-seen order.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.ToLower(f)
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func addTokens(v FeatureVector, field, value string) {
	for _, t := range Tokenize(value) {
		v[field+"="+t] = 1
	}
}

func addSingle(v FeatureVector, field, value string) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return
	}
	v[field+"="+value] = 1
}

// vocabulary is the ordered feature space of one scoring batch.
type vocabulary struct {
	names []string
	index map[string]int
}

// buildVocabulary collects every feature name present in vectors.
// Names are sorted so projections are deterministic.
func buildVocabulary(vectors ...FeatureVector) *vocabulary {
	index := make(map[string]int)
	for _, v := range vectors {
		for name := range v {
			index[name] = 0
		}
	}
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		index[name] = i
	}
	return &vocabulary{names: names, index: index}
}

// project maps a sparse vector onto the vocabulary. Features outside the
// vocabulary are dropped.
func (voc *vocabulary) project(v FeatureVector) []float64 {
	out := make([]float64, len(voc.names))
	for name, x := range v {
		if i, ok := voc.index[name]; ok {
			out[i] = x
		}
	}
	return out
}
