// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "waypoint"

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Duration of database queries in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_query_errors_total",
			Help:      "Total number of database query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Current number of active API requests",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Total number of recommendation requests",
		},
		[]string{"kind", "outcome"}, // kind: content, collaborative; outcome: ok, no_data, error
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent building a recommendation list",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	// Similarity Recalculation Metrics
	RecalcCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recalc_cycles_total",
			Help:      "Total number of similarity recalculation cycles",
		},
		[]string{"outcome"}, // published, idle, failed, locked
	)

	RecalcDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recalc_duration_seconds",
			Help:      "Duration of similarity recalculation cycles",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
		[]string{"outcome"},
	)

	RecalcPendingMarkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recalc_pending_markers",
			Help:      "Invalidation markers seen at the start of the last cycle",
		},
	)

	SimilarityEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "similarity_entries",
			Help:      "Number of user pairs in the published similarity table",
		},
	)

	RecalcLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recalc_last_success_timestamp",
			Help:      "Unix timestamp of the last published similarity table",
		},
	)

	RecalcTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recalc_triggers_total",
			Help:      "Manual recalculation triggers",
		},
		[]string{"result"}, // queued, coalesced, throttled
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_transitions_total",
			Help:      "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Import Metrics
	ImportRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Records processed by the CSV importer",
		},
		[]string{"kind", "result"}, // kind: attractions, ratings; result: imported, skipped
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages to bound label cardinality
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one recommendation request.
func RecordRecommendation(kind, outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(kind, outcome).Inc()
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRecalcCycle records the outcome of a recalculation cycle.
// Cycles rejected by the lock carry no duration.
func RecordRecalcCycle(outcome string, duration time.Duration) {
	RecalcCyclesTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		RecalcDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	}
}

// RecordRecalcTrigger records a manual trigger request.
func RecordRecalcTrigger(result string) {
	RecalcTriggers.WithLabelValues(result).Inc()
}

// RecordCircuitBreakerState sets the state gauge and counts the transition.
func RecordCircuitBreakerState(name, from, to string) {
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordCircuitBreakerRequest counts a call through a breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordImport adds imported and skipped record counts.
func RecordImport(kind string, imported, skipped int) {
	if imported > 0 {
		ImportRecords.WithLabelValues(kind, "imported").Add(float64(imported))
	}
	if skipped > 0 {
		ImportRecords.WithLabelValues(kind, "skipped").Add(float64(skipped))
	}
}

func breakerStateValue(state string) float64 {
	switch strings.ToLower(state) {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
