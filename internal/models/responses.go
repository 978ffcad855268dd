// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package models defines the JSON request and response bodies of the HTTP API.
package models

import (
	"github.com/tomtom215/agrismart/internal/analytics"
	"github.com/tomtom215/agrismart/internal/history"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidation       = "VALIDATION_ERROR"
	CodeEmptySubset      = "EMPTY_SUBSET"
	CodeUnknownCategory  = "UNKNOWN_CATEGORY"
	CodeUnknownLabel     = "UNKNOWN_LABEL"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeTooManyRequests  = "TOO_MANY_REQUESTS"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MessageResponse is a bare status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports liveness or readiness.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Version string            `json:"version,omitempty"`
	Uptime  float64           `json:"uptime_seconds"`
}

// CropResponse is the body of a successful POST /predict-crop.
type CropResponse struct {
	Message    string                 `json:"message"`
	Data       []analytics.ChartPoint `json:"data"`
	Prediction int                    `json:"prediction"`
	CropName   string                 `json:"cropName"`
}

// HistoricalPoint is one recent record of the requested area and crop.
type HistoricalPoint struct {
	Year        int     `json:"year"`
	Yield       float64 `json:"yield"`
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
	Pesticides  float64 `json:"pesticides"`
}

// YieldFeatures echoes the accepted scenario.
type YieldFeatures struct {
	Year        int     `json:"year"`
	Rainfall    float64 `json:"rainfall"`
	Pesticides  float64 `json:"pesticides"`
	Temperature float64 `json:"temperature"`
	Area        string  `json:"area"`
	Crop        string  `json:"crop"`
}

// YieldResponse is the body of a successful POST /predict-yield.
type YieldResponse struct {
	Message             string                 `json:"message"`
	Data                []analytics.ChartPoint `json:"data"`
	Prediction          float64                `json:"prediction"`
	Tier                analytics.Tier         `json:"tier"`
	Metadata            analytics.Metadata     `json:"metadata"`
	HistoricalData      []HistoricalPoint      `json:"historical_data"`
	Features            YieldFeatures          `json:"features"`
	Warnings            []string               `json:"warnings"`
	TopAlternativeCrops []history.CropYield    `json:"top_alternative_crops"`
}

// YieldStats summarizes the yield column.
type YieldStats struct {
	AvgYield float64 `json:"avg_yield"`
	MaxYield float64 `json:"max_yield"`
	MinYield float64 `json:"min_yield"`
}

// TableStats is the stats block of GET /api/available-options.
type TableStats struct {
	AvgRainfall   float64    `json:"avg_rainfall"`
	MaxRainfall   float64    `json:"max_rainfall"`
	MinRainfall   float64    `json:"min_rainfall"`
	AvgTemp       float64    `json:"avg_temp"`
	MaxTemp       float64    `json:"max_temp"`
	MinTemp       float64    `json:"min_temp"`
	AvgPesticides float64    `json:"avg_pesticides"`
	MaxPesticides float64    `json:"max_pesticides"`
	MinPesticides float64    `json:"min_pesticides"`
	YieldStats    YieldStats `json:"yield_stats"`
}

// NewTableStats flattens history statistics into the wire shape.
func NewTableStats(s history.Stats) TableStats {
	return TableStats{
		AvgRainfall:   s.Rainfall.Mean,
		MaxRainfall:   s.Rainfall.Max,
		MinRainfall:   s.Rainfall.Min,
		AvgTemp:       s.Temperature.Mean,
		MaxTemp:       s.Temperature.Max,
		MinTemp:       s.Temperature.Min,
		AvgPesticides: s.Pesticides.Mean,
		MaxPesticides: s.Pesticides.Max,
		MinPesticides: s.Pesticides.Min,
		YieldStats: YieldStats{
			AvgYield: s.Yield.Mean,
			MaxYield: s.Yield.Max,
			MinYield: s.Yield.Min,
		},
	}
}

// YearRange bounds the selectable prediction years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// OptionsResponse is the body of GET /api/available-options.
type OptionsResponse struct {
	Areas             []string              `json:"areas"`
	Crops             []string              `json:"crops"`
	YearRange         YearRange             `json:"yearRange"`
	Stats             TableStats            `json:"stats"`
	RecommendedRanges history.Quartiles     `json:"recommended_ranges"`
	TopCombinations   []history.Combination `json:"top_combinations"`
}

// LegacyOptionsResponse is the body of GET /get_options.
type LegacyOptionsResponse struct {
	Areas []string `json:"areas"`
	Crops []string `json:"crops"`
}
