// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

var errSimulated = errors.New("simulated failure")

// fakeService stands in for the import, recalc and HTTP services. It fails
// the first failures runs, then returns final if set or blocks until
// canceled.
type fakeService struct {
	name     string
	failures int32
	final    error
	starts   atomic.Int32
}

func newFakeService(name string) *fakeService {
	return &fakeService{name: name}
}

func (f *fakeService) Serve(ctx context.Context) error {
	n := f.starts.Add(1)
	if n <= f.failures {
		return errSimulated
	}
	if f.final != nil {
		return f.final
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeService) String() string { return f.name }

func (f *fakeService) Starts() int32 { return f.starts.Load() }
