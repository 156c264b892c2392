// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package models

import (
	"github.com/tomtom215/waypoint/internal/recommend"
)

// AttractionFilter narrows catalog listings. Empty fields do not filter.
// City matches case-insensitively; Type and Name match as case-insensitive
// substrings.
type AttractionFilter struct {
	City  string `json:"city,omitempty" validate:"omitempty,max=100"`
	Type  string `json:"type,omitempty" validate:"omitempty,max=100"`
	Name  string `json:"name,omitempty" validate:"omitempty,max=200"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1,max=10000"`
}

// CreateAttractionRequest is the body of POST /api/v1/attractions.
// The aggregate rating is derived by the store and cannot be set.
type CreateAttractionRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	City         string `json:"city" validate:"required,max=100"`
	Type         string `json:"type" validate:"omitempty,max=200"`
	Transport    string `json:"transport" validate:"omitempty,max=200"`
	Price        string `json:"price" validate:"omitempty,max=100"`
	WorkingHours string `json:"working_hours" validate:"omitempty,max=100"`
	ImageURL     string `json:"image_url" validate:"omitempty,url,max=2048"`
}

// ToAttraction converts the request into a catalog entry without an id.
func (r *CreateAttractionRequest) ToAttraction() recommend.Attraction {
	return recommend.Attraction{
		Name:         r.Name,
		City:         r.City,
		Type:         r.Type,
		Transport:    r.Transport,
		Price:        r.Price,
		WorkingHours: r.WorkingHours,
		ImageURL:     r.ImageURL,
	}
}

// RatingRequest is the body of PUT /api/v1/ratings.
type RatingRequest struct {
	UserID       int64 `json:"user_id" validate:"required,min=1"`
	AttractionID int64 `json:"attraction_id" validate:"required,min=1"`
	Rating       int   `json:"rating" validate:"required,min=1,max=5"`
}

// ToRating converts the request into a store rating.
func (r *RatingRequest) ToRating() recommend.Rating {
	return recommend.Rating{UserID: r.UserID, AttractionID: r.AttractionID, Rating: r.Rating}
}

// ContentRecommendationRequest is the body of POST /api/v1/recommendations/content.
type ContentRecommendationRequest struct {
	City          string   `json:"city" validate:"omitempty,max=100"`
	Type          string   `json:"type" validate:"omitempty,max=200"`
	Transport     string   `json:"transport" validate:"omitempty,max=200"`
	Price         string   `json:"price" validate:"omitempty,max=100"`
	DesiredPeriod string   `json:"desired_period" validate:"omitempty,period"`
	MinRating     *float64 `json:"min_rating" validate:"omitempty,min=0,max=5"`
	TopK          int      `json:"top_k" validate:"omitempty,min=1,max=1000"`
}

// ToPreferences converts the request into scorer preferences. An empty
// desired_period means anytime.
func (r *ContentRecommendationRequest) ToPreferences() recommend.Preferences {
	period := recommend.Period(r.DesiredPeriod)
	if period == "" {
		period = recommend.PeriodAnytime
	}
	return recommend.Preferences{
		City:      r.City,
		Type:      r.Type,
		Transport: r.Transport,
		Price:     r.Price,
		Period:    period,
		MinRating: r.MinRating,
	}
}

// RecalcStatusResponse is returned by GET /api/v1/recalc/status.
type RecalcStatusResponse struct {
	recommend.RecalcStatus
	PendingMarkers int64 `json:"pending_markers"`
}
