// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [{"id": 1, "name": "Tretyakov Gallery", "score": 0.91}],
//	  "metadata": {
//	    "timestamp": "2026-05-02T12:00:00Z",
//	    "query_time_ms": 12,
//	    "count": 1
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NO_SIMILARITY_DATA",
//	    "message": "No similarity data for user 42"
//	  },
//	  "metadata": {"timestamp": "2026-05-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Handler execution time in milliseconds
//   - Count: Number of items in Data when it is a list
//   - RequestID: Value of the X-Request-ID header
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       *int      `json:"count,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - NOT_FOUND: Resource doesn't exist
//   - NO_RATINGS, NO_SIMILARITY_DATA, NO_RECOMMENDATIONS, INSUFFICIENT_DATA:
//     collaborative recommendations are not available for the user
//   - RECALC_IN_PROGRESS: A similarity recalculation already holds the lock
//   - DATABASE_ERROR: Storage failure
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes returned in APIError.Code.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeNoRatings         = "NO_RATINGS"
	ErrCodeNoSimilarityData  = "NO_SIMILARITY_DATA"
	ErrCodeNoRecommendations = "NO_RECOMMENDATIONS"
	ErrCodeInsufficientData  = "INSUFFICIENT_DATA"
	ErrCodeRecalcInProgress  = "RECALC_IN_PROGRESS"
	ErrCodeDatabase          = "DATABASE_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeRateLimit         = "RATE_LIMIT_EXCEEDED"
	ErrCodeUnavailable       = "SERVICE_UNAVAILABLE"
)

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	StoreDriver   string  `json:"store_driver"`
	StoreHealthy  bool    `json:"store_healthy"`
	Uptime        float64 `json:"uptime_seconds"`
	PendingRecalc *int64  `json:"pending_recalc_markers,omitempty"`
}
