// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Prediction Metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of model predictions",
		},
		[]string{"model", "result"}, // model: "yield", "crop"; result: "success", "rejected", "error"
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_duration_seconds",
			Help:    "Model inference duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"model"},
	)

	YieldTierTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yield_assessment_tier_total",
			Help: "Yield predictions by assessment tier",
		},
		[]string{"tier"},
	)

	ValidationWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yield_validation_warnings_total",
			Help: "Soft-bound warnings emitted for yield requests",
		},
		[]string{"field"},
	)

	// Artifact Metrics
	ArtifactLoadAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_load_attempts_total",
			Help: "Model artifact load attempts by strategy outcome",
		},
		[]string{"artifact", "result"},
	)

	HistoricalRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "historical_records_loaded",
			Help: "Number of historical yield records held in memory",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	DependencyUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dependency_up",
			Help: "Whether a background probe last found the dependency reachable (1) or not (0)",
		},
		[]string{"dependency"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "options", "charts"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPrediction records one inference. Errors matching any of rejected
// count as "rejected" (bad input) rather than "error".
func RecordPrediction(model string, duration time.Duration, err error, rejected ...error) {
	PredictionDuration.WithLabelValues(model).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "error"
		for _, target := range rejected {
			if errors.Is(err, target) {
				result = "rejected"
				break
			}
		}
	}
	PredictionsTotal.WithLabelValues(model, result).Inc()
}

// RecordYieldTier counts an assessment tier.
func RecordYieldTier(tier string) {
	YieldTierTotal.WithLabelValues(tier).Inc()
}

// RecordValidationWarning counts a soft-bound warning for field.
func RecordValidationWarning(field string) {
	ValidationWarningsTotal.WithLabelValues(field).Inc()
}

// RecordArtifactLoad records the outcome of one loader strategy.
func RecordArtifactLoad(artifact string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ArtifactLoadAttempts.WithLabelValues(artifact, result).Inc()
}

// RecordDBQuery records a DuckDB query metric
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordDependencyProbe records the outcome of a periodic dependency check.
func RecordDependencyProbe(dependency string, err error) {
	up := 1.0
	if err != nil {
		up = 0
	}
	DependencyUp.WithLabelValues(dependency).Set(up)
}

// RecordCacheLookup records a hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// StatusLabel formats an HTTP status code for the status_code label.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}
