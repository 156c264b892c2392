// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package catalogimport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/tomtom215/waypoint/internal/config"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// --- Mock Implementations ---

// mockStore is a test double for Store.
type mockStore struct {
	mu          sync.Mutex
	attractions []recommend.Attraction
	ratings     []recommend.Rating
	known       map[int64]bool
	calls       int
	ratingErr   error
	block       chan struct{}
	entered     chan struct{}
}

func newMockStore() *mockStore {
	return &mockStore{known: make(map[int64]bool)}
}

func (m *mockStore) ImportAttractions(_ context.Context, items []recommend.Attraction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for idx := range items {
		items[idx].ID = int64(len(m.attractions) + 1)
		m.known[items[idx].ID] = true
		m.attractions = append(m.attractions, items[idx])
	}
	return len(items), nil
}

func (m *mockStore) ImportRatings(ctx context.Context, ratings []recommend.Rating) (int, int, error) {
	if m.block != nil {
		select {
		case m.entered <- struct{}{}:
		default:
		}
		select {
		case <-m.block:
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.ratingErr != nil {
		return 0, 0, m.ratingErr
	}
	imported, skipped := 0, 0
	for _, r := range ratings {
		if !m.known[r.AttractionID] {
			skipped++
			continue
		}
		m.ratings = append(m.ratings, r)
		imported++
	}
	return imported, skipped, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const attractionsCSV = `name;city;type;transport;price;working_hours
Tretyakov Gallery;Moscow;Museum;Metro, Walking;Paid;10:00-18:00
Gorky Park;Moscow;Park;Metro;Free;Круглосуточно
;Moscow;Park;Metro;Free;10:00-18:00
Hermitage;Saint Petersburg;Museum;Metro;Paid;10:30-18:00
`

const ratingsCSV = `attraction_id;user_id;rating
1;1;5
2;1;4
1;2;3
9;2;4
3;3;7
x;3;2
1;3
`

func TestImporter_Import(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &config.ImportConfig{
		AttractionsPath: writeFile(t, dir, "attractions.csv", attractionsCSV),
		RatingsPath:     writeFile(t, dir, "ratings.csv", ratingsCSV),
		BatchSize:       2,
		Delimiter:       ";",
	}
	store := newMockStore()

	stats, err := NewImporter(cfg, store).Import(context.Background())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if stats.TotalRecords != 11 {
		t.Errorf("TotalRecords = %d, want 11", stats.TotalRecords)
	}
	if stats.Processed != stats.TotalRecords {
		t.Errorf("Processed = %d, want %d", stats.Processed, stats.TotalRecords)
	}
	if stats.AttractionsImported != 3 {
		t.Errorf("AttractionsImported = %d, want 3", stats.AttractionsImported)
	}
	if stats.RatingsImported != 3 {
		t.Errorf("RatingsImported = %d, want 3", stats.RatingsImported)
	}
	// one nameless attraction, unknown attraction 9, rating 7, bad id, short row
	if stats.Skipped != 5 {
		t.Errorf("Skipped = %d, want 5", stats.Skipped)
	}
	if stats.Imported != 6 {
		t.Errorf("Imported = %d, want 6", stats.Imported)
	}
	if stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", stats.Errors)
	}
	if stats.EndTime.IsZero() || stats.CurrentFile != "" {
		t.Errorf("expected a finished import, got %+v", stats)
	}
	if d := stats.Duration(); d < 0 || d != stats.EndTime.Sub(stats.StartTime) {
		t.Errorf("Duration() = %v, want EndTime-StartTime", d)
	}

	if got := store.attractions[1].WorkingHours; got != "Круглосуточно" {
		t.Errorf("working hours = %q", got)
	}
	if got := store.attractions[0].Transport; got != "Metro, Walking" {
		t.Errorf("transport = %q", got)
	}
}

func TestImporter_OnlyRatings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &config.ImportConfig{
		RatingsPath: writeFile(t, dir, "ratings.csv", "user_id,attraction_id,rating\n2,1,5\n"),
		Delimiter:   ",",
	}
	store := newMockStore()
	store.known[1] = true

	stats, err := NewImporter(cfg, store).Import(context.Background())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.RatingsImported != 1 || stats.AttractionsImported != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if store.ratings[0] != (recommend.Rating{UserID: 2, AttractionID: 1, Rating: 5}) {
		t.Errorf("columns should be matched by name, got %+v", store.ratings[0])
	}
}

func TestImporter_StoreError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &config.ImportConfig{
		RatingsPath: writeFile(t, dir, "ratings.csv", "attraction_id;user_id;rating\n1;1;5\n"),
		BatchSize:   10,
	}
	store := newMockStore()
	store.ratingErr = errors.New("disk full")

	stats, err := NewImporter(cfg, store).Import(context.Background())
	if err == nil || !errors.Is(err, store.ratingErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if stats.EndTime.IsZero() || stats.CurrentFile != "" {
		t.Errorf("failed import should still be finalized, got %+v", stats)
	}
}

func TestImporter_MissingColumn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &config.ImportConfig{
		AttractionsPath: writeFile(t, dir, "attractions.csv", "name;city\nA;B\n"),
	}
	if _, err := NewImporter(cfg, newMockStore()).Import(context.Background()); err == nil {
		t.Fatal("expected an error for a file without required columns")
	}
}

func TestImporter_MissingFile(t *testing.T) {
	t.Parallel()

	cfg := &config.ImportConfig{AttractionsPath: filepath.Join(t.TempDir(), "absent.csv")}
	if _, err := NewImporter(cfg, newMockStore()).Import(context.Background()); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestImporter_StopAndConcurrentImport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &config.ImportConfig{
		RatingsPath: writeFile(t, dir, "ratings.csv", "attraction_id;user_id;rating\n1;1;5\n1;2;4\n"),
		BatchSize:   1,
	}
	store := newMockStore()
	store.known[1] = true
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 1)

	imp := NewImporter(cfg, store)
	if err := imp.Stop(); err == nil {
		t.Error("Stop without a running import should fail")
	}

	done := make(chan error, 1)
	go func() {
		_, err := imp.Import(context.Background())
		done <- err
	}()

	<-store.entered
	if !imp.IsRunning() {
		t.Fatal("expected a running import")
	}
	if _, err := imp.Import(context.Background()); !errors.Is(err, ErrImportRunning) {
		t.Errorf("expected ErrImportRunning, got %v", err)
	}

	if err := imp.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	close(store.block)

	if err := <-done; !errors.Is(err, ErrImportCanceled) {
		t.Errorf("expected ErrImportCanceled, got %v", err)
	}
	if imp.IsRunning() {
		t.Error("importer should not be running after cancel")
	}
	if got := imp.GetStats().RatingsImported; got != 1 {
		t.Errorf("expected the in-flight batch to finish, got %d ratings", got)
	}
}

func TestImporter_ContextCanceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &config.ImportConfig{
		AttractionsPath: writeFile(t, dir, "attractions.csv", attractionsCSV),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewImporter(cfg, newMockStore()).Import(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestImportStats_ToSummary(t *testing.T) {
	t.Parallel()

	var empty ImportStats
	if got := empty.ToSummary(false).Status; got != "pending" {
		t.Errorf("status = %q, want pending", got)
	}
	if empty.Progress() != 0 || empty.RecordsPerSecond() != 0 {
		t.Error("empty stats should report zero progress and rate")
	}

	s := ImportStats{TotalRecords: 4, Processed: 1}
	if got := s.Progress(); got != 25 {
		t.Errorf("Progress = %v, want 25", got)
	}
	if got := s.ToSummary(true).Status; got != "running" {
		t.Errorf("status = %q, want running", got)
	}
}
