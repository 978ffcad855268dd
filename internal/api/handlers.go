// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

/*
Package api provides the HTTP surface of the recommendation service.

Endpoints:
  - POST /predict-crop: crop recommendation from soil and climate readings
  - POST /predict-yield: yield prediction with historical assessment
  - GET /api/available-options: selectable areas, crops, years and ranges
  - GET /get_options: distinct areas and crops of the raw options file
  - GET /api/charts/area, /api/charts/trend: PNG views of the history
  - GET /, /health/live, /health/ready, /metrics

Every handler reads from a single app.Context built at startup. Handlers
never mutate it, so they are safe to serve concurrently.
*/
package api

import (
	"time"

	"github.com/tomtom215/agrismart/internal/app"
)

// Version is reported by the readiness endpoint.
var Version = "dev"

// Handler serves the API from a loaded application context.
type Handler struct {
	app       *app.Context
	startTime time.Time
}

// NewHandler creates a Handler over ctx.
func NewHandler(ctx *app.Context) *Handler {
	start := ctx.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	return &Handler{
		app:       ctx,
		startTime: start,
	}
}
