// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package recommend

import (
	"context"
	"math"
	"time"
)

// Attraction is a point of interest as stored by the catalog.
type Attraction struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`

	// Type is the category label; may hold several comma or space separated labels.
	Type string `json:"type"`

	// Transport lists the ways to get there, e.g. "Walking, Car".
	Transport string `json:"transport"`

	Price        string `json:"price"`
	WorkingHours string `json:"working_hours"`

	// Rating is the aggregate of all user ratings, derived by the store.
	// Nil when nobody has rated the attraction yet.
	Rating *float64 `json:"rating"`

	ImageURL string `json:"image_url,omitempty"`
}

// RatingValue returns the aggregate rating, or 0 when unrated.
func (a *Attraction) RatingValue() float64 {
	if a.Rating == nil {
		return 0
	}
	return *a.Rating
}

// Rating is one user's score for one attraction.
type Rating struct {
	UserID       int64 `json:"user_id"`
	AttractionID int64 `json:"attraction_id"`
	Rating       int   `json:"rating"`
}

// Rating bounds accepted by the store.
const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// Period is a time-of-day bucket used to match working hours.
type Period string

// Periods understood by the working hours matcher.
const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
	PeriodNight     Period = "night"
	PeriodAnytime   Period = "anytime"
)

// Preferences is a stated content profile. Empty fields contribute nothing.
type Preferences struct {
	City      string `json:"city,omitempty"`
	Type      string `json:"type,omitempty"`
	Transport string `json:"transport,omitempty"`
	Price     string `json:"price,omitempty"`

	// Period defaults to PeriodAnytime when empty.
	Period Period `json:"desired_period,omitempty"`

	// MinRating is both the preferred rating and a hard floor on results.
	MinRating *float64 `json:"min_rating,omitempty"`
}

// ScoredAttraction is an attraction with its ranking score.
type ScoredAttraction struct {
	Attraction
	Score float64 `json:"score"`
}

// SimilarityEntry is the cosine similarity of one unordered user pair,
// stored with UserLow < UserHigh.
type SimilarityEntry struct {
	UserLow    int64   `json:"user_id_low"`
	UserHigh   int64   `json:"user_id_high"`
	Similarity float64 `json:"similarity"`
}

// SimilarityScale is the number of decimal digits kept when a similarity
// value is persisted.
const SimilarityScale = 3

// RoundSimilarity rounds v to SimilarityScale decimal digits.
func RoundSimilarity(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Prediction is a collaborative score for an attraction the user has not rated.
type Prediction struct {
	AttractionID int64   `json:"attraction_id"`
	Score        float64 `json:"score"`
}

// RecalcResult describes one recalculation cycle.
type RecalcResult struct {
	// Idle is true when no markers were pending and nothing was done.
	Idle bool `json:"idle"`

	// HighWater is the highest marker id consumed by the cycle.
	HighWater int64 `json:"high_water"`

	MarkersDrained int           `json:"markers_drained"`
	Users          int           `json:"users"`
	Items          int           `json:"items"`
	Entries        int           `json:"entries"`
	Duration       time.Duration `json:"duration_ns"`
}

// RecalcStatus is a snapshot of the recalculation worker state.
type RecalcStatus struct {
	InProgress      bool          `json:"in_progress"`
	LastStartedAt   time.Time     `json:"last_started_at,omitempty"`
	LastCompletedAt time.Time     `json:"last_completed_at,omitempty"`
	LastPublishedAt time.Time     `json:"last_published_at,omitempty"`
	LastResult      *RecalcResult `json:"last_result,omitempty"`
	LastError       string        `json:"last_error,omitempty"`
	Cycles          int64         `json:"cycles"`
	IdleCycles      int64         `json:"idle_cycles"`
	FailedCycles    int64         `json:"failed_cycles"`
}

// Store is the storage contract the core depends on.
type Store interface {
	ReadAttractions(ctx context.Context) ([]Attraction, error)
	ReadRatings(ctx context.Context) ([]Rating, error)
	ReadSimilarityTable(ctx context.Context) ([]SimilarityEntry, error)

	// ReadUserSimilarities returns the entries in which userID is either side.
	ReadUserSimilarities(ctx context.Context, userID int64) ([]SimilarityEntry, error)

	// ReplaceSimilarityTable atomically swaps the whole table for entries and,
	// in the same transaction, deletes exactly the markers in drained. Ids not
	// listed are untouched, even lower ones. On error nothing changes.
	ReplaceSimilarityTable(ctx context.Context, entries []SimilarityEntry, drained []int64) error

	// ReadPendingMarkers returns pending marker ids in ascending order.
	ReadPendingMarkers(ctx context.Context) ([]int64, error)
	DeleteMarkersUpTo(ctx context.Context, id int64) (int64, error)
}

// RecalcLocker is implemented by stores that can hold a lock shared by every
// process using the same database.
type RecalcLocker interface {
	// TryLockRecalc returns acquired=false without blocking when another
	// holder exists. release must be called once when acquired is true.
	TryLockRecalc(ctx context.Context) (release func(), acquired bool, err error)
}

// ContentScorer ranks attractions against stated preferences.
type ContentScorer interface {
	Score(items []Attraction, prefs Preferences, topK int) []ScoredAttraction
}

// SimilarityComputer produces the canonical pairwise similarity table.
type SimilarityComputer interface {
	Compute(ctx context.Context, m *UserItemMatrix) ([]SimilarityEntry, error)
}

// Predictor scores a user's unrated attractions.
type Predictor interface {
	Predict(userID int64, m *UserItemMatrix, lookup *SimilarityLookup, topK int) ([]Prediction, error)
}
