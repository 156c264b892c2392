// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// scriptedServer is an HTTPServer whose ListenAndServe either fails with
// listenErr, returns nil at once, or blocks until Shutdown.
type scriptedServer struct {
	listenErr   error
	block       bool
	shutdownErr error

	started   chan struct{}
	released  chan struct{}
	shutdowns atomic.Int32
}

func newScriptedServer() *scriptedServer {
	return &scriptedServer{
		started:  make(chan struct{}, 1),
		released: make(chan struct{}),
	}
}

func (s *scriptedServer) ListenAndServe() error {
	select {
	case s.started <- struct{}{}:
	default:
	}
	if s.listenErr != nil {
		return s.listenErr
	}
	if s.block {
		<-s.released
		return http.ErrServerClosed
	}
	return nil
}

func (s *scriptedServer) Shutdown(context.Context) error {
	if s.shutdowns.Add(1) == 1 {
		close(s.released)
	}
	return s.shutdownErr
}

func TestNewHTTPServerService_Timeouts(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, DefaultShutdownTimeout},
		{-time.Second, DefaultShutdownTimeout},
		{3 * time.Second, 3 * time.Second},
	}
	for _, tt := range tests {
		svc := NewHTTPServerService(newScriptedServer(), ":3857", tt.in)
		if svc.shutdownTimeout != tt.want {
			t.Errorf("timeout %v: got %v, want %v", tt.in, svc.shutdownTimeout, tt.want)
		}
	}
	if got := NewHTTPServerService(newScriptedServer(), ":3857", 0).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_DrainsOnCancel(t *testing.T) {
	server := newScriptedServer()
	server.block = true
	svc := NewHTTPServerService(server, ":3857", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	select {
	case <-server.started:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	if server.shutdowns.Load() != 1 {
		t.Errorf("expected one Shutdown call, got %d", server.shutdowns.Load())
	}
}

func TestHTTPServerService_Failures(t *testing.T) {
	bindErr := errors.New("bind: address already in use")

	tests := []struct {
		name    string
		server  func() *scriptedServer
		wantErr error
	}{
		{
			name: "listen failure is wrapped",
			server: func() *scriptedServer {
				s := newScriptedServer()
				s.listenErr = bindErr
				return s
			},
			wantErr: bindErr,
		},
		{
			name:    "stop without shutdown asks for a restart",
			server:  newScriptedServer,
			wantErr: errServerStopped,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHTTPServerService(tt.server(), ":3857", time.Second)
			if err := svc.Serve(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHTTPServerService_ShutdownError(t *testing.T) {
	shutdownErr := errors.New("drain deadline exceeded")
	server := newScriptedServer()
	server.block = true
	server.shutdownErr = shutdownErr
	svc := NewHTTPServerService(server, ":3857", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, shutdownErr) {
			t.Errorf("expected shutdown error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestHTTPServerService_RealServer(t *testing.T) {
	server := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewHTTPServerService(server, server.Addr, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("real server did not shut down")
	}
}
