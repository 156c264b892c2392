// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package database

import (
	"context"
	"testing"

	"github.com/tomtom215/waypoint/internal/recommend"
)

func TestReplaceSimilarityTable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := []recommend.SimilarityEntry{
		{UserLow: 1, UserHigh: 2, Similarity: 0.78086880944303},
		{UserLow: 1, UserHigh: 3, Similarity: 0.1},
	}
	if err := db.ReplaceSimilarityTable(ctx, first, nil); err != nil {
		t.Fatalf("ReplaceSimilarityTable: %v", err)
	}
	got, err := db.ReadSimilarityTable(ctx)
	if err != nil {
		t.Fatalf("ReadSimilarityTable: %v", err)
	}
	if len(got) != 2 || got[0].Similarity != 0.781 {
		t.Errorf("expected two rows with rounding to 0.781, got %+v", got)
	}

	second := []recommend.SimilarityEntry{{UserLow: 2, UserHigh: 3, Similarity: 0.5}}
	if err := db.ReplaceSimilarityTable(ctx, second, nil); err != nil {
		t.Fatalf("ReplaceSimilarityTable: %v", err)
	}
	got, _ = db.ReadSimilarityTable(ctx)
	if len(got) != 1 || got[0] != second[0] {
		t.Errorf("table not replaced wholesale: %+v", got)
	}

	if err := db.ReplaceSimilarityTable(ctx, nil, nil); err != nil {
		t.Fatalf("empty publish: %v", err)
	}
	if got, _ = db.ReadSimilarityTable(ctx); len(got) != 0 {
		t.Errorf("empty publish should clear the table, got %+v", got)
	}
}

func TestReplaceSimilarityTable_Batches(t *testing.T) {
	db := setupTestDB(t)
	db.SetPublishBatchSize(7)
	ctx := context.Background()

	var entries []recommend.SimilarityEntry
	for low := int64(1); low <= 10; low++ {
		for high := low + 1; high <= 10; high++ {
			entries = append(entries, recommend.SimilarityEntry{UserLow: low, UserHigh: high, Similarity: float64(low) / float64(high)})
		}
	}
	if err := db.ReplaceSimilarityTable(ctx, entries, nil); err != nil {
		t.Fatalf("ReplaceSimilarityTable: %v", err)
	}
	got, err := db.ReadSimilarityTable(ctx)
	if err != nil {
		t.Fatalf("ReadSimilarityTable: %v", err)
	}
	if len(got) != len(entries) {
		t.Errorf("got %d rows, want %d", len(got), len(entries))
	}

	mine, err := db.ReadUserSimilarities(ctx, 4)
	if err != nil {
		t.Fatalf("ReadUserSimilarities: %v", err)
	}
	if len(mine) != 9 {
		t.Errorf("user 4 should appear in 9 pairs, got %d", len(mine))
	}
	for _, e := range mine {
		if e.UserLow != 4 && e.UserHigh != 4 {
			t.Errorf("unrelated pair returned: %+v", e)
		}
	}
}

func TestReplaceSimilarityTable_DrainBoundary(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := db.EnqueueRecalc(ctx); err != nil {
			t.Fatalf("EnqueueRecalc: %v", err)
		}
	}
	markers, err := db.ReadPendingMarkers(ctx)
	if err != nil || len(markers) != 3 {
		t.Fatalf("ReadPendingMarkers: %v %v", markers, err)
	}
	// The cycle consumed the first and last marker; the middle one committed
	// after the queue was read.
	consumed := []int64{markers[0], markers[2]}

	if err := db.ReplaceSimilarityTable(ctx, []recommend.SimilarityEntry{{UserLow: 1, UserHigh: 2, Similarity: 1}}, consumed); err != nil {
		t.Fatalf("ReplaceSimilarityTable: %v", err)
	}

	left, err := db.ReadPendingMarkers(ctx)
	if err != nil {
		t.Fatalf("ReadPendingMarkers: %v", err)
	}
	if len(left) != 1 || left[0] != markers[1] {
		t.Errorf("expected only marker %d to survive, got %v", markers[1], left)
	}
}

func TestReplaceSimilarityTable_DrainsLargeMarkerSets(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < markerDeleteBatch+5; i++ {
		if err := db.EnqueueRecalc(ctx); err != nil {
			t.Fatalf("EnqueueRecalc: %v", err)
		}
	}
	markers, err := db.ReadPendingMarkers(ctx)
	if err != nil {
		t.Fatalf("ReadPendingMarkers: %v", err)
	}

	if err := db.ReplaceSimilarityTable(ctx, nil, markers); err != nil {
		t.Fatalf("ReplaceSimilarityTable: %v", err)
	}
	if n, _ := db.CountPendingMarkers(ctx); n != 0 {
		t.Errorf("pending = %d, want 0", n)
	}
}

func TestReplaceSimilarityTable_RollbackKeepsTableAndMarkers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	original := []recommend.SimilarityEntry{{UserLow: 1, UserHigh: 2, Similarity: 0.25}}
	if err := db.ReplaceSimilarityTable(ctx, original, nil); err != nil {
		t.Fatalf("ReplaceSimilarityTable: %v", err)
	}
	if err := db.EnqueueRecalc(ctx); err != nil {
		t.Fatalf("EnqueueRecalc: %v", err)
	}
	markers, _ := db.ReadPendingMarkers(ctx)

	bad := []recommend.SimilarityEntry{
		{UserLow: 1, UserHigh: 3, Similarity: 0.5},
		{UserLow: 5, UserHigh: 4, Similarity: 0.5},
	}
	if err := db.ReplaceSimilarityTable(ctx, bad, markers); err == nil {
		t.Fatal("expected an error for a non-canonical pair")
	}

	got, err := db.ReadSimilarityTable(ctx)
	if err != nil {
		t.Fatalf("ReadSimilarityTable: %v", err)
	}
	if len(got) != 1 || got[0] != original[0] {
		t.Errorf("failed publish changed the table: %+v", got)
	}
	if left, _ := db.ReadPendingMarkers(ctx); len(left) != len(markers) {
		t.Errorf("failed publish drained markers: %v -> %v", markers, left)
	}
}

func TestDeleteMarkersUpTo(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := db.EnqueueRecalc(ctx); err != nil {
			t.Fatalf("EnqueueRecalc: %v", err)
		}
	}
	markers, _ := db.ReadPendingMarkers(ctx)

	n, err := db.DeleteMarkersUpTo(ctx, markers[2])
	if err != nil {
		t.Fatalf("DeleteMarkersUpTo: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted %d, want 3", n)
	}
	if c, _ := db.CountPendingMarkers(ctx); c != 1 {
		t.Errorf("pending = %d, want 1", c)
	}
}

func TestReplaceSimilarityTable_NilContext(t *testing.T) {
	db := setupTestDB(t)

	entries := []recommend.SimilarityEntry{{UserLow: 1, UserHigh: 2, Similarity: 0.5}}
	//nolint:staticcheck // SA1012: nil context falls back to a bounded background context
	if err := db.ReplaceSimilarityTable(nil, entries, nil); err != nil {
		t.Fatalf("ReplaceSimilarityTable with nil context: %v", err)
	}
	got, err := db.ReadSimilarityTable(context.Background())
	if err != nil || len(got) != 1 {
		t.Errorf("ReadSimilarityTable = %+v, %v", got, err)
	}
}
