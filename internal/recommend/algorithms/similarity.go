// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package algorithms

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/waypoint/internal/recommend"
)

// CosineSimilarityComputer computes user-user cosine similarity over the
// dense user-item matrix, where unrated cells count as 0.
type CosineSimilarityComputer struct {
	workers int
}

// NewCosineSimilarityComputer creates a computer using up to workers
// goroutines; workers <= 0 uses runtime.NumCPU().
func NewCosineSimilarityComputer(workers int) *CosineSimilarityComputer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CosineSimilarityComputer{workers: workers}
}

// Compute returns one entry per distinct user pair with UserLow < UserHigh,
// ordered by (UserLow, UserHigh). Self pairs and mirrored duplicates are
// never produced. A matrix with N users yields N*(N-1)/2 entries.
func (c *CosineSimilarityComputer) Compute(ctx context.Context, m *recommend.UserItemMatrix) ([]recommend.SimilarityEntry, error) {
	users := m.Users()
	n := len(users)
	if n < 2 {
		return []recommend.SimilarityEntry{}, nil
	}

	rows := make([][]float64, n)
	norms := make([]float64, n)
	for i, u := range users {
		rows[i] = m.DenseRow(u)
		norms[i] = norm(rows[i])
	}

	// One task per upper-triangle row; users are sorted so i < j gives low < high.
	perRow := make([][]recommend.SimilarityEntry, n-1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := 0; i < n-1; i++ {
		g.Go(func() error {
			if ContextCancelled(gctx) {
				return gctx.Err()
			}
			out := make([]recommend.SimilarityEntry, 0, n-i-1)
			for j := i + 1; j < n; j++ {
				out = append(out, recommend.SimilarityEntry{
					UserLow:    users[i],
					UserHigh:   users[j],
					Similarity: rowCosine(rows[i], rows[j], norms[i], norms[j]),
				})
			}
			perRow[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]recommend.SimilarityEntry, 0, n*(n-1)/2)
	for _, row := range perRow {
		entries = append(entries, row...)
	}
	return entries, nil
}

func rowCosine(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for k := range a {
		dot += a[k] * b[k]
	}
	return dot / (normA * normB)
}
