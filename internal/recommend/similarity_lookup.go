// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package recommend

// CanonicalPair orders an unordered user pair as (low, high).
func CanonicalPair(a, b int64) (low, high int64) {
	if a < b {
		return a, b
	}
	return b, a
}

type userPair struct {
	low, high int64
}

// SimilarityLookup indexes canonical similarity entries so that a pair can be
// found regardless of which user is passed first.
type SimilarityLookup struct {
	pairs     map[userPair]float64
	neighbors map[int64]map[int64]float64
}

// NewSimilarityLookup indexes entries. Self pairs are ignored and entries
// stored in the wrong orientation are canonicalized.
func NewSimilarityLookup(entries []SimilarityEntry) *SimilarityLookup {
	l := &SimilarityLookup{
		pairs:     make(map[userPair]float64, len(entries)),
		neighbors: make(map[int64]map[int64]float64),
	}
	for _, e := range entries {
		if e.UserLow == e.UserHigh {
			continue
		}
		low, high := CanonicalPair(e.UserLow, e.UserHigh)
		l.pairs[userPair{low, high}] = e.Similarity
		l.link(low, high, e.Similarity)
		l.link(high, low, e.Similarity)
	}
	return l
}

func (l *SimilarityLookup) link(from, to int64, sim float64) {
	n := l.neighbors[from]
	if n == nil {
		n = make(map[int64]float64)
		l.neighbors[from] = n
	}
	n[to] = sim
}

// Similarity returns sim(a, b). Similarity(a, b) == Similarity(b, a).
func (l *SimilarityLookup) Similarity(a, b int64) (float64, bool) {
	if a == b {
		return 0, false
	}
	low, high := CanonicalPair(a, b)
	s, ok := l.pairs[userPair{low, high}]
	return s, ok
}

// Neighbors returns every user with a known similarity to userID, merging
// the entries where userID is the low side with those where it is the high
// side. The returned map must not be modified.
func (l *SimilarityLookup) Neighbors(userID int64) map[int64]float64 {
	return l.neighbors[userID]
}

// Len returns the number of distinct pairs.
func (l *SimilarityLookup) Len() int {
	return len(l.pairs)
}
