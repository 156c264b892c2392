// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

/*
Package metrics provides Prometheus instrumentation for the service.

Metrics are registered on the default registry through promauto and exposed
at /metrics in the Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Database:
  - waypoint_db_query_duration_seconds (histogram) labels: operation, table
  - waypoint_db_query_errors_total (counter) labels: operation, table, error_type

API:
  - waypoint_api_requests_total (counter) labels: method, endpoint, status_code
  - waypoint_api_request_duration_seconds (histogram) labels: method, endpoint
  - waypoint_api_active_requests (gauge)

Recommendations:
  - waypoint_recommendations_total (counter) labels: kind, outcome
  - waypoint_recommendation_duration_seconds (histogram) labels: kind

Similarity recalculation:
  - waypoint_recalc_cycles_total (counter) labels: outcome
  - waypoint_recalc_duration_seconds (histogram) labels: outcome
  - waypoint_recalc_pending_markers (gauge)
  - waypoint_similarity_entries (gauge)
  - waypoint_recalc_last_success_timestamp (gauge)
  - waypoint_recalc_triggers_total (counter) labels: result

Circuit breaker:
  - waypoint_circuit_breaker_state (gauge) labels: name. 0=closed, 1=half-open, 2=open
  - waypoint_circuit_breaker_requests_total (counter) labels: name, result
  - waypoint_circuit_breaker_state_transitions_total (counter) labels: name, from_state, to_state

Import:
  - waypoint_import_records_total (counter) labels: kind, result

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "ratings", time.Since(start), err)

All recording helpers are safe for concurrent use.
*/
package metrics
