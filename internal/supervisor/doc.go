// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

/*
Package supervisor runs the long-lived services of the API under suture v4.

	RootSupervisor ("agrismart")
	├── DataSupervisor ("data-layer")
	│   └── ProbeService (DuckDB)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Each layer counts failures
independently, so a flapping probe never restarts the HTTP server.
Supervisor events are logged through sutureslog onto the zerolog-backed
slog handler from the logging package.

Usage in main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.Timeout,
	})
	tree.AddDataService(services.NewProbeService(appCtx.DB, services.ProbeServiceConfig{Dependency: "duckdb"}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))
	errCh := tree.ServeBackground(ctx)

Canceling ctx stops the tree; UnstoppedServiceReport lists anything that
exceeded ShutdownTimeout.
*/
package supervisor
