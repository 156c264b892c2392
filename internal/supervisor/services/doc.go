// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

/*
Package services provides suture.Service wrappers for Waypoint components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Reports an unexpected stop as an error so the supervisor restarts it

Recalculation Worker (RecalcService):
  - Polls the invalidation queue every Interval and runs a cycle
  - Trigger requests an early cycle; requests are rate limited with
    golang.org/x/time/rate and coalesced into at most one pending cycle
  - Each cycle runs with CycleTimeout and its own correlation id
  - Failed cycles are logged; their markers stay queued for the next poll

File Import (ImportService):
  - Runs the startup CSV import once
  - Calls onComplete after success, then idles until shutdown
  - Returns suture.ErrDoNotRestart on failure

# Error Handling

Services return ctx.Err() on shutdown. Other errors let suture apply its
restart policy.
*/
package services
