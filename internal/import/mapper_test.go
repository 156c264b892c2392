// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package catalogimport

import (
	"testing"

	"github.com/tomtom215/waypoint/internal/recommend"
)

func row(fields map[string]string) Row {
	return Row{Line: 2, Fields: fields}
}

func TestMapper_ToAttraction(t *testing.T) {
	t.Parallel()

	m := NewMapper()
	a, err := m.ToAttraction(row(map[string]string{
		ColName:         " Kazan Kremlin ",
		ColCity:         "Kazan",
		ColType:         "History",
		ColTransport:    "Bus",
		ColPrice:        "Free",
		ColWorkingHours: "08:00-22:00",
	}))
	if err != nil {
		t.Fatalf("ToAttraction: %v", err)
	}
	if a.Name != "Kazan Kremlin" || a.City != "Kazan" || a.Rating != nil || a.ID != 0 {
		t.Errorf("unexpected attraction %+v", a)
	}

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing name", map[string]string{ColCity: "Kazan"}},
		{"missing city", map[string]string{ColName: "Kremlin"}},
		{"bad image url", map[string]string{ColName: "Kremlin", ColCity: "Kazan", ColImageURL: "not a url"}},
	}
	for _, tt := range tests {
		if _, err := m.ToAttraction(row(tt.fields)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestMapper_ToRating(t *testing.T) {
	t.Parallel()

	m := NewMapper()
	tests := []struct {
		name    string
		fields  map[string]string
		want    recommend.Rating
		wantErr bool
	}{
		{"valid", map[string]string{ColAttractionID: "3", ColUserID: "7", ColRating: " 4 "}, recommend.Rating{UserID: 7, AttractionID: 3, Rating: 4}, false},
		{"rating too high", map[string]string{ColAttractionID: "3", ColUserID: "7", ColRating: "6"}, recommend.Rating{}, true},
		{"rating zero", map[string]string{ColAttractionID: "3", ColUserID: "7", ColRating: "0"}, recommend.Rating{}, true},
		{"fractional rating", map[string]string{ColAttractionID: "3", ColUserID: "7", ColRating: "4.5"}, recommend.Rating{}, true},
		{"negative user", map[string]string{ColAttractionID: "3", ColUserID: "-1", ColRating: "4"}, recommend.Rating{}, true},
		{"non-numeric attraction", map[string]string{ColAttractionID: "abc", ColUserID: "1", ColRating: "4"}, recommend.Rating{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := m.ToRating(row(tt.fields))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMapper_FilterRatings(t *testing.T) {
	t.Parallel()

	rows := []Row{
		row(map[string]string{ColAttractionID: "1", ColUserID: "1", ColRating: "5"}),
		row(map[string]string{ColAttractionID: "1", ColUserID: "2", ColRating: "9"}),
		row(map[string]string{ColAttractionID: "2", ColUserID: "1", ColRating: "1"}),
	}
	valid, skipped := NewMapper().FilterRatings(rows)
	if len(valid) != 2 || skipped != 1 {
		t.Errorf("got %d valid, %d skipped; want 2 and 1", len(valid), skipped)
	}
}
