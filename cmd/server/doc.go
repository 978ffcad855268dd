// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

/*
Package main is the entry point for the Agrismart API server.

Agrismart serves two pre-trained models over HTTP: a crop classifier that
recommends what to plant from soil and climate readings, and a yield
regressor whose predictions are assessed against historical yields for the
requested area and crop.

# Startup

 1. .env file (optional), then configuration via Koanf v2
 2. Logging: zerolog, JSON or console
 3. Application context: historical table, preprocessor, both models and
    their scalers, DuckDB, caches. Any failure here is fatal.
 4. Supervisor tree (suture v4) with the DuckDB probe and the HTTP server

# Configuration

Environment variables override config.yaml, which overrides defaults:

	HTTP_PORT            listen port (5000)
	HTTP_HOST            listen address (0.0.0.0)
	YIELD_TABLE_PATH     historical yield CSV or XLSX
	RAW_OPTIONS_PATH     file behind /get_options (defaults to the yield table)
	MODEL_SEARCH_PATHS   comma-separated artifact directories, first match wins
	ONNX_LIBRARY_PATH    onnxruntime shared library, needed only for .onnx models
	FORECAST_BASE_YEAR   base year for the selectable year range
	RATE_LIMIT_REQS      requests per window and client IP
	CACHE_ENABLED        cache option lists and charts
	LOG_LEVEL, LOG_FORMAT

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. In-flight requests drain for
up to HTTP_TIMEOUT before the process exits.
*/
package main
