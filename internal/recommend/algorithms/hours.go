// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package algorithms

import (
	"strconv"
	"strings"

	"github.com/tomtom215/waypoint/internal/recommend"
)

// alwaysOpenMarkers are lower-case substrings that mark round-the-clock hours.
var alwaysOpenMarkers = []string{
	"круглосуточно",
	"24/7",
	"24 hours",
	"always open",
}

// OpenInPeriod returns 1 when an attraction with the given working hours is
// open during period, else 0.
//
// Always-open hours and the anytime period match unconditionally. Otherwise
// hours must look like "HH:MM-HH:MM"; only the hours are compared, against
// morning 06-11, afternoon 12-16, evening 17-21 and night, which wraps past
// midnight. Anything unparseable, and any unknown period, is treated as closed.
func OpenInPeriod(hours string, period recommend.Period) float64 {
	s := strings.ToLower(hours)
	for _, marker := range alwaysOpenMarkers {
		if strings.Contains(s, marker) {
			return 1
		}
	}
	if period == recommend.PeriodAnytime {
		return 1
	}

	h1, h2, ok := parseHourRange(s)
	if !ok {
		return 0
	}

	var open bool
	switch period {
	case recommend.PeriodMorning:
		open = !(h2 < 6 || h1 > 11)
	case recommend.PeriodAfternoon:
		open = !(h2 < 12 || h1 > 16)
	case recommend.PeriodEvening:
		open = !(h2 < 17 || h1 > 21)
	case recommend.PeriodNight:
		open = (h1 <= 23 && h2 >= 22) || h1 <= 5
	default:
		return 0
	}
	if open {
		return 1
	}
	return 0
}

// parseHourRange extracts the opening and closing hours from "HH:MM-HH:MM".
// Exactly one dash is accepted.
func parseHourRange(s string) (h1, h2 int, ok bool) {
	start, end, found := strings.Cut(s, "-")
	if !found || strings.Contains(end, "-") {
		return 0, 0, false
	}
	var err error
	if h1, err = parseHour(start); err != nil {
		return 0, 0, false
	}
	if h2, err = parseHour(end); err != nil {
		return 0, 0, false
	}
	return h1, h2, true
}

func parseHour(part string) (int, error) {
	hour, _, _ := strings.Cut(part, ":")
	return strconv.Atoi(strings.TrimSpace(hour))
}
