// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

/*
Package services provides suture.Service wrappers for long-running components.

Each wrapper implements suture.Service and fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService adapts *http.Server's blocking ListenAndServe to Serve.
Cancellation triggers Shutdown with a bounded drain period.

ProbeService pings a dependency on an interval and exports the result as
the dependency_up gauge. It never fails; an unreachable dependency is a
metric and a log line, not a restart.

Both return ctx.Err() on cancellation and a wrapped error on failure, which
suture treats as a crash and restarts with backoff.
*/
package services
