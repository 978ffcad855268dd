// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered with the default registry through promauto and exposed
at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests in flight (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Prediction Metrics:
  - predictions_total: Inference calls (counter)
    Labels: model (yield, crop), result (success, rejected, error)
  - prediction_duration_seconds: Inference latency (histogram)
  - yield_assessment_tier_total: Yield predictions per tier (counter)
  - yield_validation_warnings_total: Soft-bound warnings per field (counter)

Startup Metrics:
  - artifact_load_attempts_total: Loader strategy outcomes (counter)
    Labels: artifact, result
  - historical_records_loaded: Rows held by the historical table (gauge)

DuckDB Metrics:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
    Labels: operation
  - dependency_up: 1 when the last probe succeeded (gauge)
    Labels: dependency

Cache and Circuit Breaker Metrics:
  - cache_hits_total, cache_misses_total (Labels: cache_type)
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (Labels: name)
  - circuit_breaker_requests_total (Labels: name, result)
  - circuit_breaker_state_transitions_total (Labels: name, from_state, to_state)

# Usage

	start := time.Now()
	y, err := engine.Predict(ctx, vec)
	metrics.RecordPrediction("yield", time.Since(start), err, predict.ErrDimensionMismatch)
*/
package metrics
