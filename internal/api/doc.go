// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

/*
Package api provides the HTTP REST API layer for Waypoint.

Key Components:

  - Router: chi route configuration and middleware stack
  - Handler: request handlers over a CatalogStore and a Recommender
  - ChiMiddleware: CORS (go-chi/cors) and rate limiting (go-chi/httprate)

Endpoints (all under /api/v1):

	GET    /health, /health/live, /health/ready
	GET    /attractions?city=&type=&name=&limit=
	POST   /attractions
	GET    /attractions/{id}
	DELETE /attractions/{id}
	PUT    /ratings
	DELETE /ratings/{userID}/{attractionID}
	GET    /users/{userID}/ratings
	POST   /recommendations/content
	GET    /recommendations/users/{userID}?k=N
	POST   /recalc
	GET    /recalc/status

Prometheus metrics are served at /metrics outside the versioned prefix.

Response Format:

Every JSON response uses models.APIResponse:

	{"status": "success", "data": [...], "metadata": {"timestamp": "...", "count": 3}}
	{"status": "error", "data": null, "error": {"code": "NO_SIMILARITY_DATA", "message": "..."}}

Rating mutations enqueue an invalidation marker in the store and then call
the optional recalc trigger (see Handler.SetRecalcTrigger) so the worker
refreshes the similarity table without waiting for its next tick.

Collaborative errors map to 404 with NO_RATINGS, NO_SIMILARITY_DATA,
NO_RECOMMENDATIONS or INSUFFICIENT_DATA; anything else is a 500.
POST /recalc returns 409 RECALC_IN_PROGRESS when the lock is held.
*/
package api
