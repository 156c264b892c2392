// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package recommend

import "slices"

// UserItemMatrix maps user -> attraction -> rating. An absent entry means
// "unrated", which is distinct from any rating value: unrated attractions are
// the recommendation candidates.
//
// A matrix is immutable once built and safe for concurrent reads.
type UserItemMatrix struct {
	ratings map[int64]map[int64]float64
	raters  map[int64][]int64
	users   []int64
	items   []int64
}

// BuildUserItemMatrix pivots rating rows into a matrix. Duplicate
// (user, attraction) rows are averaged. Fewer than two distinct users
// yields ErrInsufficientData.
func BuildUserItemMatrix(ratings []Rating) (*UserItemMatrix, error) {
	type acc struct {
		sum   float64
		count int
	}
	cells := make(map[int64]map[int64]*acc)
	for _, r := range ratings {
		row := cells[r.UserID]
		if row == nil {
			row = make(map[int64]*acc)
			cells[r.UserID] = row
		}
		a := row[r.AttractionID]
		if a == nil {
			a = &acc{}
			row[r.AttractionID] = a
		}
		a.sum += float64(r.Rating)
		a.count++
	}

	if len(cells) < 2 {
		return nil, ErrInsufficientData
	}

	m := &UserItemMatrix{
		ratings: make(map[int64]map[int64]float64, len(cells)),
		raters:  make(map[int64][]int64),
		users:   make([]int64, 0, len(cells)),
	}
	for userID, row := range cells {
		m.users = append(m.users, userID)
		out := make(map[int64]float64, len(row))
		for itemID, a := range row {
			out[itemID] = a.sum / float64(a.count)
			m.raters[itemID] = append(m.raters[itemID], userID)
		}
		m.ratings[userID] = out
	}

	slices.Sort(m.users)
	m.items = make([]int64, 0, len(m.raters))
	for itemID, users := range m.raters {
		slices.Sort(users)
		m.items = append(m.items, itemID)
	}
	slices.Sort(m.items)
	return m, nil
}

// Users returns user ids in ascending order. The slice must not be modified.
func (m *UserItemMatrix) Users() []int64 { return m.users }

// Items returns attraction ids with at least one rating, ascending.
// The slice must not be modified.
func (m *UserItemMatrix) Items() []int64 { return m.items }

// NumUsers returns the number of users.
func (m *UserItemMatrix) NumUsers() int { return len(m.users) }

// NumItems returns the number of rated attractions.
func (m *UserItemMatrix) NumItems() int { return len(m.items) }

// HasUser reports whether the user has at least one rating.
func (m *UserItemMatrix) HasUser(userID int64) bool {
	_, ok := m.ratings[userID]
	return ok
}

// Rating returns the user's rating for an attraction and whether it exists.
func (m *UserItemMatrix) Rating(userID, itemID int64) (float64, bool) {
	r, ok := m.ratings[userID][itemID]
	return r, ok
}

// Raters returns the users who rated the attraction, ascending.
// The slice must not be modified.
func (m *UserItemMatrix) Raters(itemID int64) []int64 {
	return m.raters[itemID]
}

// UnratedItems returns the rated-by-someone attractions the user has not rated.
func (m *UserItemMatrix) UnratedItems(userID int64) []int64 {
	row := m.ratings[userID]
	out := make([]int64, 0, len(m.items))
	for _, itemID := range m.items {
		if _, ok := row[itemID]; !ok {
			out = append(out, itemID)
		}
	}
	return out
}

// DenseRow returns the user's ratings over Items(), with unrated cells as 0.
// Only the similarity computation treats unrated as zero.
func (m *UserItemMatrix) DenseRow(userID int64) []float64 {
	row := m.ratings[userID]
	out := make([]float64, len(m.items))
	for i, itemID := range m.items {
		out[i] = row[itemID]
	}
	return out
}
