// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
)

func seedCatalog(env *testEnv) (museum, park int64) {
	museum = env.store.addAttraction(recommend.Attraction{
		Name: "Tretyakov Gallery", City: "Moscow", Type: "museum", Rating: ptrFloat(4.8),
	})
	park = env.store.addAttraction(recommend.Attraction{
		Name: "Gorky Park", City: "Moscow", Type: "park",
	})
	env.store.addAttraction(recommend.Attraction{Name: "Kazan Kremlin", City: "Kazan", Type: "fortress"})
	return museum, park
}

func TestListAttractions(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	seedCatalog(env)

	rec := env.do(t, http.MethodGet, "/api/v1/attractions?city=Moscow&limit=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	var items []recommend.Attraction
	decodeData(t, resp, &items)

	if len(items) != 2 {
		t.Fatalf("Expected 2 Moscow attractions, got %d", len(items))
	}
	if resp.Metadata.Count == nil || *resp.Metadata.Count != 2 {
		t.Errorf("Expected metadata count 2, got %v", resp.Metadata.Count)
	}
	if env.store.lastFilter.Limit != 10 || env.store.lastFilter.City != "Moscow" {
		t.Errorf("Filter not passed through: %+v", env.store.lastFilter)
	}
}

func TestListAttractions_EmptyIsArray(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/attractions", nil)
	resp := decodeResponse(t, rec)
	if string(resp.Data) != "[]" {
		t.Errorf("Expected empty JSON array, got %s", resp.Data)
	}
}

func TestListAttractions_Errors(t *testing.T) {
	t.Parallel()

	t.Run("limit too large", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		rec := env.do(t, http.MethodGet, "/api/v1/attractions?limit=20000", nil)
		expectError(t, rec, http.StatusBadRequest, models.ErrCodeValidation)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.store.readErr = errStoreDown
		rec := env.do(t, http.MethodGet, "/api/v1/attractions", nil)
		expectError(t, rec, http.StatusInternalServerError, models.ErrCodeDatabase)
		resp := decodeResponse(t, rec)
		if resp.Error.Message == errStoreDown.Error() {
			t.Error("Internal error text must not leak to the client")
		}
	})
}

func TestGetAttraction(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	museum, _ := seedCatalog(env)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"found", "/api/v1/attractions/1", http.StatusOK, ""},
		{"missing", "/api/v1/attractions/999", http.StatusNotFound, models.ErrCodeNotFound},
		{"non numeric", "/api/v1/attractions/abc", http.StatusBadRequest, models.ErrCodeValidation},
		{"zero", "/api/v1/attractions/0", http.StatusBadRequest, models.ErrCodeValidation},
		{"negative", "/api/v1/attractions/-4", http.StatusBadRequest, models.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := env.do(t, http.MethodGet, tt.path, nil)
			if tt.wantCode != "" {
				expectError(t, rec, tt.wantStatus, tt.wantCode)
				return
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var a recommend.Attraction
			decodeData(t, decodeResponse(t, rec), &a)
			if a.ID != museum || a.Name != "Tretyakov Gallery" {
				t.Errorf("Unexpected attraction %+v", a)
			}
		})
	}
}

func TestCreateAttraction(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/attractions", map[string]interface{}{
		"name":          "Bolshoi Theatre",
		"city":          "Moscow",
		"type":          "theatre",
		"transport":     "Walking, Metro",
		"price":         "paid",
		"working_hours": "11:00-20:00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var a recommend.Attraction
	decodeData(t, decodeResponse(t, rec), &a)
	if a.ID == 0 {
		t.Error("Expected the created attraction to carry its id")
	}
	if a.Rating != nil {
		t.Errorf("New attractions have no aggregate rating, got %v", *a.Rating)
	}
	if env.nudges.Load() != 0 {
		t.Error("Creating an attraction does not change ratings and must not nudge the worker")
	}
}

func TestCreateAttraction_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing name", map[string]interface{}{"city": "Moscow"}},
		{"bad image url", map[string]interface{}{"name": "x", "city": "Moscow", "image_url": "not a url"}},
		{"aggregate rating supplied", map[string]interface{}{"name": "x", "city": "Moscow", "rating": 5}},
		{"malformed json", `{"name": "x",`},
		{"empty body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/api/v1/attractions", tt.body)
			expectError(t, rec, http.StatusBadRequest, models.ErrCodeValidation)
			if len(env.store.attractions) != 0 {
				t.Error("Nothing should have been stored")
			}
		})
	}
}

func TestCreateAttraction_ValidationDetails(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/attractions", map[string]interface{}{"city": "Moscow"})
	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Details == nil {
		t.Fatalf("Expected validation details, got %s", rec.Body.String())
	}
	if resp.Error.Details["field"] != "name" {
		t.Errorf("Expected the JSON field name in details, got %v", resp.Error.Details)
	}
}

func TestDeleteAttraction(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	museum, _ := seedCatalog(env)

	rec := env.do(t, http.MethodDelete, "/api/v1/attractions/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if _, ok := env.store.attractions[museum]; ok {
		t.Error("Attraction still present")
	}
	if env.nudges.Load() != 1 {
		t.Errorf("Expected one worker nudge, got %d", env.nudges.Load())
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/attractions/1", nil)
	expectError(t, rec, http.StatusNotFound, models.ErrCodeNotFound)
	if env.nudges.Load() != 1 {
		t.Error("A failed delete must not nudge the worker")
	}
}

func TestPutRating(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	museum, _ := seedCatalog(env)

	rec := env.do(t, http.MethodPut, "/api/v1/ratings", models.RatingRequest{UserID: 7, AttractionID: museum, Rating: 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := env.store.ratings[[2]int64{7, museum}]; got != 5 {
		t.Errorf("Expected stored rating 5, got %d", got)
	}
	if env.store.pending != 1 {
		t.Errorf("Expected one pending marker, got %d", env.store.pending)
	}
	if env.nudges.Load() != 1 {
		t.Errorf("Expected one worker nudge, got %d", env.nudges.Load())
	}

	// Upsert replaces.
	env.do(t, http.MethodPut, "/api/v1/ratings", models.RatingRequest{UserID: 7, AttractionID: museum, Rating: 2})
	if got := env.store.ratings[[2]int64{7, museum}]; got != 2 {
		t.Errorf("Expected replaced rating 2, got %d", got)
	}
}

func TestPutRating_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"rating above range", map[string]int{"user_id": 1, "attraction_id": 1, "rating": 6}, http.StatusBadRequest, models.ErrCodeValidation},
		{"rating zero", map[string]int{"user_id": 1, "attraction_id": 1, "rating": 0}, http.StatusBadRequest, models.ErrCodeValidation},
		{"missing user", map[string]int{"attraction_id": 1, "rating": 3}, http.StatusBadRequest, models.ErrCodeValidation},
		{"unknown attraction", map[string]int{"user_id": 1, "attraction_id": 404, "rating": 3}, http.StatusNotFound, models.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			seedCatalog(env)

			rec := env.do(t, http.MethodPut, "/api/v1/ratings", tt.body)
			expectError(t, rec, tt.wantStatus, tt.wantCode)
			if env.nudges.Load() != 0 {
				t.Error("A rejected rating must not nudge the worker")
			}
		})
	}
}

func TestPutRating_NoTrigger(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.handler.SetRecalcTrigger(nil)
	museum, _ := seedCatalog(env)

	rec := env.do(t, http.MethodPut, "/api/v1/ratings", models.RatingRequest{UserID: 1, AttractionID: museum, Rating: 4})
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 without a trigger, got %d", rec.Code)
	}
}

func TestDeleteRating(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	museum, _ := seedCatalog(env)
	env.store.ratings[[2]int64{3, museum}] = 4

	rec := env.do(t, http.MethodDelete, "/api/v1/ratings/3/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.store.ratings) != 0 {
		t.Error("Rating still present")
	}
	if env.nudges.Load() != 1 {
		t.Errorf("Expected one worker nudge, got %d", env.nudges.Load())
	}

	expectError(t, env.do(t, http.MethodDelete, "/api/v1/ratings/3/1", nil), http.StatusNotFound, models.ErrCodeNotFound)
	expectError(t, env.do(t, http.MethodDelete, "/api/v1/ratings/x/1", nil), http.StatusBadRequest, models.ErrCodeValidation)
	expectError(t, env.do(t, http.MethodDelete, "/api/v1/ratings/3/y", nil), http.StatusBadRequest, models.ErrCodeValidation)
}

func TestListUserRatings(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	museum, park := seedCatalog(env)
	env.store.ratings[[2]int64{5, museum}] = 5
	env.store.ratings[[2]int64{5, park}] = 3
	env.store.ratings[[2]int64{6, park}] = 1

	rec := env.do(t, http.MethodGet, "/api/v1/users/5/ratings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var ratings []recommend.Rating
	decodeData(t, decodeResponse(t, rec), &ratings)
	if len(ratings) != 2 {
		t.Errorf("Expected 2 ratings for user 5, got %+v", ratings)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/users/99/ratings", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("A user without ratings gets 200, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); string(resp.Data) != "[]" {
		t.Errorf("Expected empty array, got %s", resp.Data)
	}
}
