// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/models"
)

// readyTimeout bounds the dependency checks of a readiness probe.
const readyTimeout = 2 * time.Second

// Index answers GET / so clients can tell the API is up.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.MessageResponse{Message: "AgriSmartSuite API is running"})
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Always returns 200 while the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 503 unless the table, both models and the database are usable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := map[string]string{
		"table":       "ok",
		"yield_model": "ok",
		"crop_model":  "ok",
		"database":    "ok",
	}
	ready := true
	fail := func(name, reason string) {
		checks[name] = reason
		ready = false
	}

	if h.app.Table == nil || h.app.Table.Len() == 0 {
		fail("table", "empty")
	}
	if h.app.Yield == nil || h.app.Encoder == nil {
		fail("yield_model", "not loaded")
	}
	if h.app.Crops == nil {
		fail("crop_model", "not loaded")
	}
	if h.app.DB == nil {
		fail("database", "not connected")
	} else if err := h.app.DB.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness database ping failed")
		fail("database", "unreachable")
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	respondJSON(w, code, &models.HealthResponse{
		Status:  status,
		Checks:  checks,
		Version: Version,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}
