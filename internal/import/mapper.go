// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package catalogimport

import (
	"fmt"
	"strconv"

	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
	"github.com/tomtom215/waypoint/internal/validation"
)

// Column names.
const (
	ColName         = "name"
	ColCity         = "city"
	ColType         = "type"
	ColTransport    = "transport"
	ColPrice        = "price"
	ColWorkingHours = "working_hours"
	ColImageURL     = "image_url"

	ColAttractionID = "attraction_id"
	ColUserID       = "user_id"
	ColRating       = "rating"
)

// AttractionColumns are required in an attractions file.
var AttractionColumns = []string{ColName, ColCity, ColType, ColTransport, ColPrice, ColWorkingHours}

// RatingColumns are required in a ratings file.
var RatingColumns = []string{ColAttractionID, ColUserID, ColRating}

// Mapper converts rows into store records, validating them with the same
// rules the HTTP API applies.
type Mapper struct{}

// NewMapper creates a new row mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToAttraction maps an attractions row.
func (m *Mapper) ToAttraction(row Row) (recommend.Attraction, error) {
	req := models.CreateAttractionRequest{
		Name:         row.Get(ColName),
		City:         row.Get(ColCity),
		Type:         row.Get(ColType),
		Transport:    row.Get(ColTransport),
		Price:        row.Get(ColPrice),
		WorkingHours: row.Get(ColWorkingHours),
		ImageURL:     row.Get(ColImageURL),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return recommend.Attraction{}, fmt.Errorf("line %d: %w", row.Line, verr)
	}
	return req.ToAttraction(), nil
}

// ToRating maps a ratings row.
func (m *Mapper) ToRating(row Row) (recommend.Rating, error) {
	attractionID, err := strconv.ParseInt(row.Get(ColAttractionID), 10, 64)
	if err != nil {
		return recommend.Rating{}, fmt.Errorf("line %d: attraction_id: %w", row.Line, err)
	}
	userID, err := strconv.ParseInt(row.Get(ColUserID), 10, 64)
	if err != nil {
		return recommend.Rating{}, fmt.Errorf("line %d: user_id: %w", row.Line, err)
	}
	rating, err := strconv.Atoi(row.Get(ColRating))
	if err != nil {
		return recommend.Rating{}, fmt.Errorf("line %d: rating: %w", row.Line, err)
	}

	req := models.RatingRequest{UserID: userID, AttractionID: attractionID, Rating: rating}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return recommend.Rating{}, fmt.Errorf("line %d: %w", row.Line, verr)
	}
	return req.ToRating(), nil
}

// FilterAttractions maps rows and returns the valid attractions and the
// number of rows dropped.
func (m *Mapper) FilterAttractions(rows []Row) ([]recommend.Attraction, int) {
	valid := make([]recommend.Attraction, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		a, err := m.ToAttraction(row)
		if err != nil {
			skipped++
			continue
		}
		valid = append(valid, a)
	}
	return valid, skipped
}

// FilterRatings maps rows and returns the valid ratings and the number of
// rows dropped.
func (m *Mapper) FilterRatings(rows []Row) ([]recommend.Rating, int) {
	valid := make([]recommend.Rating, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		r, err := m.ToRating(row)
		if err != nil {
			skipped++
			continue
		}
		valid = append(valid, r)
	}
	return valid, skipped
}
