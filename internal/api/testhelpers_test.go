// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/agrismart/internal/app"
	"github.com/tomtom215/agrismart/internal/config"
	"github.com/tomtom215/agrismart/internal/models"
	"github.com/tomtom215/agrismart/internal/testinfra"
)

// setupTestRouter loads the fixture context and returns the full route tree.
// Optional mutators adjust the configuration before loading.
func setupTestRouter(t *testing.T, mutate ...func(*config.Config)) (http.Handler, *app.Context) {
	t.Helper()

	cfg := testinfra.Config(t)
	for _, fn := range mutate {
		fn(cfg)
	}

	ctx, err := app.Load(cfg)
	if err != nil {
		t.Fatalf("app.Load() error = %v", err)
	}
	t.Cleanup(func() { _ = ctx.Close() })

	router := NewRouter(NewHandler(ctx), ChiMiddlewareConfigFrom(cfg.Security))
	return router.SetupChi(), ctx
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, w.Body.String())
	}
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	return decodeResponse[models.ErrorResponse](t, w)
}
