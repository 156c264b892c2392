// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

type ratingBody struct {
	UserID       int64  `json:"user_id" validate:"required,min=1"`
	AttractionID int64  `json:"attraction_id" validate:"required,min=1"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Period       string `json:"desired_period" validate:"omitempty,period"`
	ImageURL     string `json:"image_url" validate:"omitempty,url"`
	Note         string `validate:"max=5"`
}

func validBody() ratingBody {
	return ratingBody{UserID: 1, AttractionID: 2, Rating: 5}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ratingBody)
	}{
		{"minimal", func(*ratingBody) {}},
		{"with period", func(b *ratingBody) { b.Period = "evening" }},
		{"anytime", func(b *ratingBody) { b.Period = "anytime" }},
		{"with image", func(b *ratingBody) { b.ImageURL = "https://example.com/a.jpg" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBody()
			tt.mutate(&b)
			if err := ValidateStruct(&b); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ratingBody)
		wantField string
		wantTag   string
	}{
		{"missing user", func(b *ratingBody) { b.UserID = 0 }, "user_id", "required"},
		{"negative attraction", func(b *ratingBody) { b.AttractionID = -4 }, "attraction_id", "min"},
		{"rating above five", func(b *ratingBody) { b.Rating = 6 }, "rating", "max"},
		{"unknown period", func(b *ratingBody) { b.Period = "brunch" }, "desired_period", "period"},
		{"period is case sensitive", func(b *ratingBody) { b.Period = "Morning" }, "desired_period", "period"},
		{"bad url", func(b *ratingBody) { b.ImageURL = "not a url" }, "image_url", "url"},
		{"untagged field keeps go name", func(b *ratingBody) { b.Note = "too long" }, "Note", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBody()
			tt.mutate(&b)

			err := ValidateStruct(&b)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			found := false
			for _, e := range err.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected error on field %s with tag %s, got: %v", tt.wantField, tt.wantTag, err.Errors())
			}
		})
	}
}

// ===================================================================================================
// ToAPIError Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	b := validBody()
	b.Rating = 9

	err := ValidateStruct(&b)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if apiErr.Message != "rating must be at most 5" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "rating" {
		t.Errorf("expected field detail, got %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	b := ratingBody{Period: "noon"}

	err := ValidateStruct(&b)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected details to contain 'fields' key")
	}
	for _, field := range []string{"user_id", "attraction_id", "rating", "desired_period"} {
		if !strings.Contains(apiErr.Message, field) {
			t.Errorf("message %q should mention %s", apiErr.Message, field)
		}
	}
}

func TestToAPIError_Empty(t *testing.T) {
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message == "" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

// ===================================================================================================
// Error Message Tests
// ===================================================================================================

func TestErrorMessages(t *testing.T) {
	type messages struct {
		Name   string `json:"name" validate:"required"`
		City   string `json:"city" validate:"min=2"`
		Period string `json:"desired_period" validate:"omitempty,period"`
	}

	err := ValidateStruct(&messages{City: "x", Period: "x"})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	want := map[string]string{
		"name":           "name is required",
		"city":           "city must be at least 2 characters",
		"desired_period": "desired_period must be one of: morning, afternoon, evening, night, anytime",
	}
	for _, e := range err.Errors() {
		if msg, ok := want[e.Field()]; ok && e.Error() != msg {
			t.Errorf("%s: got %q, want %q", e.Field(), e.Error(), msg)
		}
	}
}
