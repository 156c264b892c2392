// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package validation provides struct validation using go-playground/validator v10.
//
// The package exposes a thread-safe singleton validator, translates field
// errors into readable messages and converts them into the API's
// VALIDATION_ERROR envelope. Field names in messages are the JSON names of
// the request fields.
//
// # Quick Start
//
//	var req models.RatingRequest
//	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	    // handle decode error
//	}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Validators
//
//   - period: one of morning, afternoon, evening, night or anytime
//
// The CSV importer applies the same request structs to every row, so rows
// and API bodies share one set of rules.
//
// # Thread Safety
//
// GetValidator initializes the validator once. The validator caches struct
// metadata and is safe for concurrent use.
package validation
