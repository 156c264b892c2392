// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/waypoint/internal/config"
	"github.com/tomtom215/waypoint/internal/models"
	"github.com/tomtom215/waypoint/internal/recommend"
)

var errStoreDown = errors.New("connection refused")

// mockStore is an in-memory CatalogStore.
type mockStore struct {
	mu          sync.Mutex
	attractions map[int64]recommend.Attraction
	ratings     map[[2]int64]int // {userID, attractionID}
	nextID      int64
	pending     int64
	lastFilter  models.AttractionFilter

	pingErr  error
	readErr  error
	writeErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		attractions: make(map[int64]recommend.Attraction),
		ratings:     make(map[[2]int64]int),
		nextID:      1,
	}
}

func (m *mockStore) addAttraction(a recommend.Attraction) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextID
	m.nextID++
	m.attractions[a.ID] = a
	return a.ID
}

func (m *mockStore) ListAttractions(_ context.Context, filter models.AttractionFilter) ([]recommend.Attraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []recommend.Attraction
	for _, a := range m.attractions {
		if filter.City != "" && a.City != filter.City {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) GetAttraction(_ context.Context, id int64) (*recommend.Attraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	a, ok := m.attractions[id]
	if !ok {
		return nil, fmt.Errorf("attraction %d: %w", id, recommend.ErrNotFound)
	}
	return &a, nil
}

func (m *mockStore) CreateAttraction(_ context.Context, a *recommend.Attraction) (int64, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.addAttraction(*a), nil
}

func (m *mockStore) DeleteAttraction(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.attractions[id]; !ok {
		return fmt.Errorf("attraction %d: %w", id, recommend.ErrNotFound)
	}
	delete(m.attractions, id)
	m.pending++
	return nil
}

func (m *mockStore) UpsertRating(_ context.Context, r recommend.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.attractions[r.AttractionID]; !ok {
		return fmt.Errorf("attraction %d: %w", r.AttractionID, recommend.ErrNotFound)
	}
	m.ratings[[2]int64{r.UserID, r.AttractionID}] = r.Rating
	m.pending++
	return nil
}

func (m *mockStore) DeleteRating(_ context.Context, userID, attractionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	key := [2]int64{userID, attractionID}
	if _, ok := m.ratings[key]; !ok {
		return fmt.Errorf("rating: %w", recommend.ErrNotFound)
	}
	delete(m.ratings, key)
	m.pending++
	return nil
}

func (m *mockStore) ListUserRatings(_ context.Context, userID int64) ([]recommend.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []recommend.Rating
	for key, v := range m.ratings {
		if key[0] == userID {
			out = append(out, recommend.Rating{UserID: key[0], AttractionID: key[1], Rating: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttractionID < out[j].AttractionID })
	return out, nil
}

func (m *mockStore) CountPendingMarkers(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return 0, m.readErr
	}
	return m.pending, nil
}

func (m *mockStore) Ping(context.Context) error {
	return m.pingErr
}

// mockEngine is a scripted Recommender.
type mockEngine struct {
	mu sync.Mutex

	contentResults []recommend.ScoredAttraction
	contentErr     error
	lastPrefs      recommend.Preferences
	lastTopK       int

	collabResults []recommend.ScoredAttraction
	collabErr     error
	lastUserID    int64

	recalcResult *recommend.RecalcResult
	recalcErr    error
	recalcCalls  int

	status recommend.RecalcStatus
}

func (e *mockEngine) ScoreByContent(_ context.Context, prefs recommend.Preferences, topK int) ([]recommend.ScoredAttraction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastPrefs = prefs
	e.lastTopK = topK
	return e.contentResults, e.contentErr
}

func (e *mockEngine) ScoreByCollaboration(_ context.Context, userID int64, topK int) ([]recommend.ScoredAttraction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUserID = userID
	e.lastTopK = topK
	return e.collabResults, e.collabErr
}

func (e *mockEngine) RunRecalcCycle(context.Context) (*recommend.RecalcResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recalcCalls++
	return e.recalcResult, e.recalcErr
}

func (e *mockEngine) Status() recommend.RecalcStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// testEnv bundles a router over mocks.
type testEnv struct {
	store   *mockStore
	engine  *mockEngine
	handler *Handler
	router  http.Handler
	nudges  atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Driver = "duckdb"

	env := &testEnv{store: newMockStore(), engine: &mockEngine{}}
	env.handler = NewHandler(env.store, env.engine, cfg)
	env.handler.SetRecalcTrigger(func() bool {
		env.nudges.Add(1)
		return true
	})

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	env.router = NewRouter(env.handler, NewChiMiddleware(mwCfg)).SetupChi()
	return env
}

// do performs a request against the router. body may be nil, a string, or
// any value to be JSON encoded.
func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// apiResponse mirrors models.APIResponse with a raw data payload.
type apiResponse struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Count     *int   `json:"count"`
		RequestID string `json:"request_id"`
	} `json:"metadata"`
	Error *models.APIError `json:"error"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func decodeData(t *testing.T, resp apiResponse, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("Failed to decode data %s: %v", resp.Data, err)
	}
}

// expectError asserts status and error code.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("Expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp.Status != "error" || resp.Error == nil {
		t.Fatalf("Expected error envelope, got %s", rec.Body.String())
	}
	if resp.Error.Code != code {
		t.Errorf("Expected error code %s, got %s", code, resp.Error.Code)
	}
}

func ptrFloat(f float64) *float64 { return &f }
