// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/agrismart/internal/config"
	"github.com/tomtom215/agrismart/internal/models"
	"github.com/tomtom215/agrismart/internal/testinfra"
)

func TestAvailableOptions(t *testing.T) {
	t.Parallel()
	h, _ := setupTestRouter(t)

	w := doRequest(t, h, http.MethodGet, "/api/available-options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if cc := w.Header().Get("Cache-Control"); cc != optionsCacheControl {
		t.Errorf("Cache-Control = %q", cc)
	}

	resp := decodeResponse[models.OptionsResponse](t, w)
	if !slices.Equal(resp.Areas, []string{"Albania", "India"}) {
		t.Errorf("areas = %v", resp.Areas)
	}
	if !slices.Equal(resp.Crops, []string{"Maize", "Potatoes", "Rice", "Wheat"}) {
		t.Errorf("crops = %v", resp.Crops)
	}
	if resp.YearRange != (models.YearRange{Min: 1990, Max: 2030}) {
		t.Errorf("yearRange = %+v, want 1990-2030", resp.YearRange)
	}
	if resp.Stats.YieldStats.MaxYield != 180000 || resp.Stats.YieldStats.MinYield != 18000 {
		t.Errorf("yield stats = %+v", resp.Stats.YieldStats)
	}
	if resp.Stats.MinRainfall != 1083 || resp.Stats.MaxRainfall != 1485 {
		t.Errorf("rainfall stats = %v-%v", resp.Stats.MinRainfall, resp.Stats.MaxRainfall)
	}

	if len(resp.TopCombinations) != topCombinations {
		t.Fatalf("top_combinations = %+v", resp.TopCombinations)
	}
	first := resp.TopCombinations[0]
	if first.Area != "India" || first.Crop != "Potatoes" || first.AverageYield != 180000 {
		t.Errorf("best combination = %+v", first)
	}
	for i := 1; i < len(resp.TopCombinations); i++ {
		if resp.TopCombinations[i].AverageYield > resp.TopCombinations[i-1].AverageYield {
			t.Errorf("top_combinations not descending at %d: %+v", i, resp.TopCombinations)
		}
	}

	q := resp.RecommendedRanges.Rainfall
	if q.Low > q.Medium || q.Medium > q.High {
		t.Errorf("rainfall quartiles out of order: %+v", q)
	}
}

func TestAvailableOptions_YearRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		currentYear int
		wantMax     int
	}{
		{"lookahead", 2020, 2025},
		{"capped", 2028, 2030},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := setupTestRouter(t, func(c *config.Config) { c.Server.CurrentYear = tt.currentYear })

			resp := decodeResponse[models.OptionsResponse](t, doRequest(t, h, http.MethodGet, "/api/available-options", ""))
			if resp.YearRange.Min != 1990 || resp.YearRange.Max != tt.wantMax {
				t.Errorf("yearRange = %+v, want 1990-%d", resp.YearRange, tt.wantMax)
			}
		})
	}
}

func TestAvailableOptions_Gzip(t *testing.T) {
	t.Parallel()
	h, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/available-options", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", w.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	var resp models.OptionsResponse
	if err := json.Unmarshal(data, &resp); err != nil || len(resp.Areas) != 2 {
		t.Errorf("decoded %+v, %v", resp, err)
	}
}

func TestLegacyOptions_ItemColumn(t *testing.T) {
	t.Parallel()
	h, _ := setupTestRouter(t)

	w := doRequest(t, h, http.MethodGet, "/get_options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decodeResponse[models.LegacyOptionsResponse](t, w)
	if !slices.Equal(resp.Areas, []string{"Albania", "India"}) {
		t.Errorf("areas = %v", resp.Areas)
	}
	if !slices.Equal(resp.Crops, []string{"Maize", "Potatoes", "Rice", "Wheat"}) {
		t.Errorf("crops = %v", resp.Crops)
	}
}

func TestLegacyOptions_RawFileWithCropColumn(t *testing.T) {
	t.Parallel()

	raw := filepath.Join(t.TempDir(), "crop_data.csv")
	testinfra.WriteFile(t, raw, "Area,Crop,Production\nKenya,Tea,10\nKenya,Coffee,4\nPeru,Coffee,7\n")

	h, ctx := setupTestRouter(t, func(c *config.Config) { c.Data.RawOptionsPath = raw })

	for i := 0; i < 2; i++ {
		w := doRequest(t, h, http.MethodGet, "/get_options", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		resp := decodeResponse[models.LegacyOptionsResponse](t, w)
		if !slices.Equal(resp.Areas, []string{"Kenya", "Peru"}) || !slices.Equal(resp.Crops, []string{"Coffee", "Tea"}) {
			t.Errorf("options = %+v", resp)
		}
	}

	if stats := ctx.Options.GetStats(); stats.Hits < 1 {
		t.Errorf("second request should hit the options cache, stats = %+v", stats)
	}
}

func TestLegacyOptions_SpreadsheetFallsBackToTable(t *testing.T) {
	t.Parallel()
	h, _ := setupTestRouter(t, func(c *config.Config) {
		c.Data.RawOptionsPath = filepath.Join(t.TempDir(), "crop_data.xlsx")
	})

	w := doRequest(t, h, http.MethodGet, "/get_options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if resp := decodeResponse[models.LegacyOptionsResponse](t, w); !slices.Equal(resp.Areas, []string{"Albania", "India"}) {
		t.Errorf("areas = %v", resp.Areas)
	}
}

func TestLegacyOptions_MissingFile(t *testing.T) {
	t.Parallel()
	h, _ := setupTestRouter(t, func(c *config.Config) {
		c.Data.RawOptionsPath = filepath.Join(t.TempDir(), "missing.csv")
		c.Cache.Enabled = false
	})

	w := doRequest(t, h, http.MethodGet, "/get_options", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if e := decodeError(t, w); e.Code != models.CodeInternal {
		t.Errorf("code = %q", e.Code)
	}
}
