// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/waypoint/internal/logging"
	"github.com/tomtom215/waypoint/internal/recommend"
)

// DemoAttractions returns the demo catalog.
func DemoAttractions() []recommend.Attraction {
	return []recommend.Attraction{
		{Name: "Tretyakov Gallery", City: "Moscow", Type: "Museum, Art", Transport: "Metro, Walking", Price: "Paid", WorkingHours: "10:00-18:00"},
		{Name: "Gorky Park", City: "Moscow", Type: "Park", Transport: "Metro, Walking, Bicycle", Price: "Free", WorkingHours: "Круглосуточно"},
		{Name: "Red Square", City: "Moscow", Type: "Landmark, History", Transport: "Metro, Walking", Price: "Free", WorkingHours: "Always open"},
		{Name: "Bolshoi Theatre", City: "Moscow", Type: "Theatre", Transport: "Metro, Car", Price: "Paid", WorkingHours: "12:00-23:00"},
		{Name: "Hermitage Museum", City: "Saint Petersburg", Type: "Museum, Art, History", Transport: "Metro, Walking", Price: "Paid", WorkingHours: "10:30-18:00"},
		{Name: "Peterhof", City: "Saint Petersburg", Type: "Park, Palace", Transport: "Car, Boat", Price: "Paid", WorkingHours: "09:00-20:00"},
		{Name: "Kazan Kremlin", City: "Kazan", Type: "Landmark, History", Transport: "Walking, Car", Price: "Free", WorkingHours: "08:00-22:00"},
		{Name: "Kul Sharif Mosque", City: "Kazan", Type: "Religious, Landmark", Transport: "Walking", Price: "Free", WorkingHours: "09:00-19:30"},
	}
}

// DemoRatings returns the demo ratings. AttractionID is the 1-based position
// in DemoAttractions; SeedDemoData maps it to the id the store assigned.
func DemoRatings() []recommend.Rating {
	return []recommend.Rating{
		{UserID: 1, AttractionID: 1, Rating: 5},
		{UserID: 1, AttractionID: 2, Rating: 4},
		{UserID: 1, AttractionID: 5, Rating: 5},
		{UserID: 2, AttractionID: 1, Rating: 1},
		{UserID: 2, AttractionID: 3, Rating: 4},
		{UserID: 2, AttractionID: 7, Rating: 5},
		{UserID: 3, AttractionID: 2, Rating: 5},
		{UserID: 3, AttractionID: 4, Rating: 3},
		{UserID: 3, AttractionID: 6, Rating: 4},
		{UserID: 4, AttractionID: 1, Rating: 4},
		{UserID: 4, AttractionID: 5, Rating: 4},
		{UserID: 4, AttractionID: 8, Rating: 2},
		{UserID: 5, AttractionID: 3, Rating: 5},
		{UserID: 5, AttractionID: 7, Rating: 4},
		{UserID: 5, AttractionID: 8, Rating: 5},
	}
}

// DemoSeeder is the subset of a store needed to load demo data.
type DemoSeeder interface {
	CountAttractions(ctx context.Context) (int64, error)
	ImportAttractions(ctx context.Context, items []recommend.Attraction) (int, error)
	ImportRatings(ctx context.Context, ratings []recommend.Rating) (imported, skipped int, err error)
}

// SeedDemoData loads the demo catalog and ratings into a store with an empty
// catalog. A store that already holds attractions is left alone.
func SeedDemoData(ctx context.Context, s DemoSeeder) error {
	n, err := s.CountAttractions(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logging.Ctx(ctx).Debug().Int64("attractions", n).Msg("Catalog not empty, skipping demo seed")
		return nil
	}

	items := DemoAttractions()
	created, err := s.ImportAttractions(ctx, items)
	if err != nil {
		return fmt.Errorf("seed attractions: %w", err)
	}

	ratings := DemoRatings()
	for i := range ratings {
		ratings[i].AttractionID = items[ratings[i].AttractionID-1].ID
	}
	imported, skipped, err := s.ImportRatings(ctx, ratings)
	if err != nil {
		return fmt.Errorf("seed ratings: %w", err)
	}

	logging.Ctx(ctx).Info().
		Int("attractions", created).
		Int("ratings", imported).
		Int("skipped", skipped).
		Msg("Demo data seeded")
	return nil
}
