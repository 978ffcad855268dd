// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/agrismart/internal/cache"
	"github.com/tomtom215/agrismart/internal/charts"
	"github.com/tomtom215/agrismart/internal/history"
	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/models"
)

// areaChartCrops caps the bars of an area chart.
const areaChartCrops = 10

// AreaChart renders the mean yield per crop of ?area= as a PNG.
func (h *Handler) AreaChart(w http.ResponseWriter, r *http.Request) {
	area := strings.TrimSpace(r.URL.Query().Get("area"))
	if area == "" {
		respondError(w, http.StatusBadRequest, models.CodeValidation, "area is required",
			map[string]interface{}{"field": "area", "tag": "required"})
		return
	}

	png, err := cached(h.app.Charts, cache.GenerateKey("chart_area", area), func() ([]byte, error) {
		return charts.AreaYields(area, h.app.Table.AggregateBy(area), areaChartCrops)
	})
	h.respondChart(w, r, png, err)
}

// TrendChart renders the yield history of ?area= and ?crop= as a PNG.
func (h *Handler) TrendChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	area := strings.TrimSpace(q.Get("area"))
	crop := strings.TrimSpace(q.Get("crop"))
	if area == "" || crop == "" {
		respondError(w, http.StatusBadRequest, models.CodeValidation, "area and crop are required",
			map[string]interface{}{"fields": []string{"area", "crop"}, "tag": "required"})
		return
	}

	png, err := cached(h.app.Charts, cache.GenerateKey("chart_trend", [2]string{area, crop}), func() ([]byte, error) {
		subset, err := h.app.Table.Filter(area, crop)
		if err != nil {
			return nil, err
		}
		return charts.YieldTrend(subset)
	})
	h.respondChart(w, r, png, err)
}

func (h *Handler) respondChart(w http.ResponseWriter, r *http.Request, png []byte, err error) {
	switch {
	case errors.Is(err, charts.ErrNoData), errors.Is(err, history.ErrEmptySubset):
		respondError(w, http.StatusNotFound, models.CodeNotFound, "No historical data to chart", nil)
		return
	case err != nil:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to render chart")
		respondError(w, http.StatusInternalServerError, models.CodeInternal, "Failed to render chart", nil)
		return
	}

	w.Header().Set("Content-Type", charts.ContentType)
	w.Header().Set("Cache-Control", optionsCacheControl)
	w.Header().Set("ETag", generateETag(png))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write chart")
	}
}
