// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

/*
Package middleware provides HTTP middleware components for the application.

All middleware uses the func(http.HandlerFunc) http.HandlerFunc shape; the
api package adapts it to chi's r.Use.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by
    chi route pattern
  - Compression: gzip for JSON bodies; image responses pass through untouched

Middleware Stack:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Group(func(r chi.Router) {
	    r.Use(chiMiddleware(middleware.PrometheusMetrics))
	    r.With(chiMiddleware(middleware.Compression)).Get("/api/available-options", h.AvailableOptions)
	})
*/
package middleware
