// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

/*
Package models defines the HTTP request and response structures for Waypoint.

Domain types (Attraction, Rating, SimilarityEntry) live in internal/recommend;
this package wraps them for the API boundary:

  - APIResponse, Metadata, APIError: the response envelope used by every endpoint
  - AttractionFilter: catalog listing filter shared by both stores
  - CreateAttractionRequest, RatingRequest, ContentRecommendationRequest:
    request bodies, validated with go-playground/validator tags
  - RecalcStatusResponse, HealthStatus: operational endpoints

Request types convert to domain types with ToAttraction, ToRating and
ToPreferences.
*/
package models
