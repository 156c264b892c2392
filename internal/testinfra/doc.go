// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run a real PostgreSQL server for the
// pgstore integration tests. Every file carries the integration build tag:
//
//	go test -tags integration ./internal/pgstore/...
//
// # PostgreSQL Container
//
//	func TestStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//	    // connect with pg.DSN
//	}
//
// Tests skip when Docker is not available.
package testinfra
