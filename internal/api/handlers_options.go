// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/agrismart/internal/analytics"
	"github.com/tomtom215/agrismart/internal/cache"
	"github.com/tomtom215/agrismart/internal/database"
	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/models"
)

// yearFloor is the earliest year a client may select.
const yearFloor = 1990

// topCombinations is how many best-yielding pairs the options list.
const topCombinations = 5

// optionsCacheControl lets browsers reuse option lists for five minutes.
const optionsCacheControl = "public, max-age=300"

// cached loads through c, or calls load directly when caching is disabled.
func cached[V any](c *cache.Cache[V], key string, load func() (V, error)) (V, error) {
	if c == nil {
		return load()
	}
	return c.GetOrLoad(key, load)
}

// AvailableOptions lists everything the prediction form needs: areas, crops,
// the selectable year range, table statistics and recommended input ranges.
func (h *Handler) AvailableOptions(w http.ResponseWriter, r *http.Request) {
	table := h.app.Table
	stats := table.Stats()

	w.Header().Set("Cache-Control", optionsCacheControl)
	respondJSON(w, http.StatusOK, &models.OptionsResponse{
		Areas: table.Areas(),
		Crops: table.Crops(),
		YearRange: models.YearRange{
			Min: max(int(stats.Year.Min), yearFloor),
			Max: min(h.app.Config.Server.CurrentYear+analytics.YearLookahead, analytics.YearCeiling),
		},
		Stats:             models.NewTableStats(stats),
		RecommendedRanges: table.Quartiles(),
		TopCombinations:   table.TopCombinations(topCombinations),
	})
}

// LegacyOptions lists the distinct areas and crops of the raw options file.
// Files DuckDB is not asked to read fall back to the loaded table.
func (h *Handler) LegacyOptions(w http.ResponseWriter, r *http.Request) {
	path := h.app.Config.RawOptionsFile()

	opts, err := cached(h.app.Options, cache.GenerateKey("get_options", path), func() (database.Options, error) {
		return h.app.DB.DistinctOptions(r.Context(), path)
	})
	switch {
	case errors.Is(err, database.ErrUnsupportedFormat):
		opts = database.Options{Areas: h.app.Table.Areas(), Crops: h.app.Table.Crops()}
	case err != nil:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", sanitizeLogValue(path)).Msg("Failed to read raw options")
		respondError(w, http.StatusInternalServerError, models.CodeInternal, "Failed to read options", nil)
		return
	}

	w.Header().Set("Cache-Control", optionsCacheControl)
	respondJSON(w, http.StatusOK, &models.LegacyOptionsResponse{
		Areas: opts.Areas,
		Crops: opts.Crops,
	})
}
