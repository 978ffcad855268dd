// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package api

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/tomtom215/agrismart/internal/charts"
	"github.com/tomtom215/agrismart/internal/config"
	"github.com/tomtom215/agrismart/internal/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestCharts(t *testing.T) {
	t.Parallel()
	h, _ := setupTestRouter(t)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantErr  string
	}{
		{"area", "/api/charts/area?area=Albania", http.StatusOK, ""},
		{"trend", "/api/charts/trend?area=India&crop=Rice", http.StatusOK, ""},
		{"area missing param", "/api/charts/area", http.StatusBadRequest, models.CodeValidation},
		{"trend missing crop", "/api/charts/trend?area=India", http.StatusBadRequest, models.CodeValidation},
		{"unknown area", "/api/charts/area?area=Atlantis", http.StatusNotFound, models.CodeNotFound},
		{"unknown pair", "/api/charts/trend?area=Albania&crop=Rice", http.StatusNotFound, models.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := doRequest(t, h, http.MethodGet, tt.path, "")
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d; body = %s", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantErr != "" {
				if e := decodeError(t, w); e.Code != tt.wantErr {
					t.Errorf("code = %q, want %q", e.Code, tt.wantErr)
				}
				return
			}
			if ct := w.Header().Get("Content-Type"); ct != charts.ContentType {
				t.Errorf("Content-Type = %q", ct)
			}
			if !bytes.HasPrefix(w.Body.Bytes(), pngMagic) {
				t.Error("body is not a PNG")
			}
		})
	}
}

func TestCharts_Cached(t *testing.T) {
	t.Parallel()
	h, ctx := setupTestRouter(t)

	first := doRequest(t, h, http.MethodGet, "/api/charts/area?area=India", "")
	second := doRequest(t, h, http.MethodGet, "/api/charts/area?area=India", "")

	if first.Header().Get("ETag") == "" || first.Header().Get("ETag") != second.Header().Get("ETag") {
		t.Errorf("ETags differ: %q vs %q", first.Header().Get("ETag"), second.Header().Get("ETag"))
	}
	if stats := ctx.Charts.GetStats(); stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("chart cache stats = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestCharts_CacheDisabled(t *testing.T) {
	t.Parallel()
	h, _ := setupTestRouter(t, func(c *config.Config) { c.Cache.Enabled = false })

	if w := doRequest(t, h, http.MethodGet, "/api/charts/trend?area=Albania&crop=Maize", ""); w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
