// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

/*
Package middleware provides HTTP middleware components for the API.

Key Components:

  - RequestID: UUID-based request tracking; seeds request_id and
    correlation_id in the logging context
  - PrometheusMetrics: request counts, latency and in-flight gauge, labeled
    by chi route pattern
  - Compression: gzip for clients that send Accept-Encoding: gzip

All three use the func(http.HandlerFunc) http.HandlerFunc shape. The api
package adapts them to chi with its chiMiddleware helper:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.Compression))

Thread Safety:

All middleware are safe for concurrent use. Compression pools gzip writers
in a sync.Pool.
*/
package middleware
