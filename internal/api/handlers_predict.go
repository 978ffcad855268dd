// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/agrismart/internal/analytics"
	"github.com/tomtom215/agrismart/internal/classify"
	"github.com/tomtom215/agrismart/internal/encoder"
	"github.com/tomtom215/agrismart/internal/history"
	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/metrics"
	"github.com/tomtom215/agrismart/internal/models"
)

// Chart values of a crop recommendation. The recommended crop always
// dominates the fixed "Other Crops" bar.
const (
	recommendedShare = 100
	otherCropsShare  = 20
	otherCropsLabel  = "Other Crops"
)

// PredictCrop recommends a crop for the posted soil and climate readings.
func (h *Handler) PredictCrop(w http.ResponseWriter, r *http.Request) {
	var req models.CropRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	sample := classify.Sample{
		Nitrogen:    req.Nitrogen.Value,
		Phosphorus:  req.Phosphorus.Value,
		Potassium:   req.Potassium.Value,
		Temperature: req.Temperature.Value,
		Humidity:    req.Humidity.Value,
		PH:          req.PH.Value,
		Rainfall:    req.Rainfall.Value,
	}

	start := time.Now()
	label, err := h.app.Crops.Classify(r.Context(), sample)
	metrics.RecordPrediction("crop", time.Since(start), err)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().Int("label", label.ID).Str("crop", label.Name).Msg("Crop recommended")

	respondJSON(w, http.StatusOK, &models.CropResponse{
		Message: label.Name + " is the best crop to be cultivated right there",
		Data: []analytics.ChartPoint{
			{Name: label.Name, Value: recommendedShare},
			{Name: otherCropsLabel, Value: otherCropsShare},
		},
		Prediction: label.ID,
		CropName:   label.Name,
	})
}

// PredictYield predicts the yield of a scenario and assesses it against the
// recorded history of its area and crop.
func (h *Handler) PredictYield(w http.ResponseWriter, r *http.Request) {
	var req models.YieldRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, &req) {
		return
	}

	year, ok := req.Year.Int()
	if !ok {
		respondError(w, http.StatusBadRequest, models.CodeValidation, "Year is out of range",
			map[string]interface{}{"field": "Year", "tag": "range"})
		return
	}

	sc := analytics.Scenario{
		Year:             year,
		Area:             strings.TrimSpace(req.Area),
		Crop:             strings.TrimSpace(req.Crop),
		RainfallMM:       req.RainfallMM.Value,
		PesticidesTonnes: req.PesticidesTonnes.Value,
		AvgTemp:          req.AvgTemp.Value,
	}

	start := time.Now()
	result, err := h.assessYield(r.Context(), sc)
	metrics.RecordPrediction("yield", time.Since(start), err, history.ErrEmptySubset, encoder.ErrUnknownCategory)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	metrics.RecordYieldTier(string(result.Tier))
	for _, warn := range result.Warnings {
		metrics.RecordValidationWarning(warn.Field)
	}

	logging.Ctx(r.Context()).Debug().
		Str("area", sanitizeLogValue(sc.Area)).
		Str("crop", sanitizeLogValue(sc.Crop)).
		Int("year", sc.Year).
		Float64("prediction", result.PredictedYield).
		Str("tier", string(result.Tier)).
		Msg("Yield predicted")

	respondJSON(w, http.StatusOK, newYieldResponse(sc, result))
}

// assessYield runs filter, encode, predict and enrich for one scenario.
func (h *Handler) assessYield(ctx context.Context, sc analytics.Scenario) (analytics.Result, error) {
	subset, err := h.app.Table.Filter(sc.Area, sc.Crop)
	if err != nil {
		return analytics.Result{}, err
	}

	x, err := h.app.Encoder.Encode(encoder.Features{
		Year:             sc.Year,
		RainfallMM:       sc.RainfallMM,
		PesticidesTonnes: sc.PesticidesTonnes,
		AvgTemp:          sc.AvgTemp,
		Area:             sc.Area,
		Crop:             sc.Crop,
	})
	if err != nil {
		return analytics.Result{}, err
	}

	prediction, err := h.app.Yield.Predict(ctx, x)
	if err != nil {
		return analytics.Result{}, err
	}

	return analytics.Enrich(sc, prediction, subset, h.app.Table.AggregateBy(sc.Area)), nil
}

func newYieldResponse(sc analytics.Scenario, result analytics.Result) *models.YieldResponse {
	recent := make([]models.HistoricalPoint, len(result.Recent))
	for i, rec := range result.Recent {
		recent[i] = models.HistoricalPoint{
			Year:        rec.Year,
			Yield:       rec.YieldHgPerHa,
			Rainfall:    rec.RainfallMM,
			Temperature: rec.AvgTemp,
			Pesticides:  rec.PesticidesTonnes,
		}
	}

	alts := result.Alternatives
	if alts == nil {
		alts = []history.CropYield{}
	}

	return &models.YieldResponse{
		Message:        result.Message,
		Data:           result.Chart,
		Prediction:     result.PredictedYield,
		Tier:           result.Tier,
		Metadata:       result.Metadata,
		HistoricalData: recent,
		Features: models.YieldFeatures{
			Year:        sc.Year,
			Rainfall:    sc.RainfallMM,
			Pesticides:  sc.PesticidesTonnes,
			Temperature: sc.AvgTemp,
			Area:        sc.Area,
			Crop:        sc.Crop,
		},
		Warnings:            analytics.Messages(result.Warnings),
		TopAlternativeCrops: alts,
	}
}
