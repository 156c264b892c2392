// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

/*
Package supervisor provides process supervision for Waypoint using suture v4.

The supervisor tree manages every long-running service in the server, with
automatic restart, failure isolation and graceful shutdown.

# Overview

	RootSupervisor ("waypoint")
	├── DataSupervisor ("data-layer")
	│   └── ImportService (when import paths are configured)
	├── WorkerSupervisor ("worker-layer")
	│   └── RecalcService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing recalculation worker restarts on its own while the API keeps
serving recommendations from the last published similarity table.

# Restart Policy

Crashed services are restarted with suture's backoff. FailureThreshold,
FailureDecay and FailureBackoff apply to every layer. Services that must not
be restarted, such as a failed one-shot import, return suture.ErrDoNotRestart.

# Logging

Supervisor events go through sutureslog to a slog.Logger, which the server
backs with the zerolog adapter from internal/logging.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddWorkerService(services.NewRecalcService(engine, recalcCfg, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor tree stopped")
	}

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4
*/
package supervisor
