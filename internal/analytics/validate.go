// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package analytics checks a yield scenario against history and turns a raw
// prediction into an assessed, chart-ready result.
//
// Every function here is pure: it reads a history.Subset or a slice of area
// aggregates and never retains state between calls. Range checks only ever
// produce warnings; a scenario is never rejected for being implausible.
package analytics

import (
	"fmt"

	"github.com/tomtom215/agrismart/internal/history"
)

// Year window bounds.
const (
	YearLookahead = 5
	YearCeiling   = 2030
)

// Soft bound factors applied to the matched subset.
const (
	rainfallLowFactor   = 0.8
	rainfallHighFactor  = 1.2
	temperatureMargin   = 5.0
	pesticideHighFactor = 1.5
)

// Scenario is a validated yield prediction request.
type Scenario struct {
	Year             int
	Area             string
	Crop             string
	RainfallMM       float64
	PesticidesTonnes float64
	AvgTemp          float64
}

// Field names used to tag warnings.
const (
	FieldYear        = "year"
	FieldRainfall    = "rainfall"
	FieldTemperature = "temperature"
	FieldPesticides  = "pesticides"
)

// Warning flags an input outside the typical range for its subset.
type Warning struct {
	Field   string
	Message string
}

// YearWindow returns the accepted year range for subset: from the first
// recorded year to YearLookahead years past the last, capped at YearCeiling.
func YearWindow(subset history.Subset) (lo, hi int) {
	s := subset.Stats()
	lo = int(s.Year.Min)
	hi = int(s.Year.Max) + YearLookahead
	if hi > YearCeiling {
		hi = YearCeiling
	}
	return lo, hi
}

// Validate returns the soft-bound warnings for sc against subset, in the
// order year, rainfall, temperature, pesticides. An empty subset yields none.
func Validate(sc Scenario, subset history.Subset) []Warning {
	if len(subset) == 0 {
		return nil
	}
	s := subset.Stats()
	var out []Warning

	if lo, hi := YearWindow(subset); sc.Year < lo || sc.Year > hi {
		out = append(out, Warning{
			Field:   FieldYear,
			Message: fmt.Sprintf("Year is outside historical range (%d-%d) for %s.", lo, hi, sc.Area),
		})
	}

	rain := s.Rainfall
	if sc.RainfallMM < rain.Min*rainfallLowFactor || sc.RainfallMM > rain.Max*rainfallHighFactor {
		out = append(out, Warning{
			Field:   FieldRainfall,
			Message: fmt.Sprintf("Rainfall is outside typical range (%.1f-%.1f mm) for %s.", rain.Min, rain.Max, sc.Area),
		})
	}

	temp := s.Temperature
	if sc.AvgTemp < temp.Min-temperatureMargin || sc.AvgTemp > temp.Max+temperatureMargin {
		out = append(out, Warning{
			Field:   FieldTemperature,
			Message: fmt.Sprintf("Temperature is outside typical range (%.1f-%.1f°C) for %s.", temp.Min, temp.Max, sc.Area),
		})
	}

	pest := s.Pesticides
	if sc.PesticidesTonnes < 0 || sc.PesticidesTonnes > pest.Max*pesticideHighFactor {
		out = append(out, Warning{
			Field:   FieldPesticides,
			Message: fmt.Sprintf("Pesticides are outside typical range (0-%.1f tonnes) for %s.", pest.Max, sc.Area),
		})
	}

	return out
}

// Messages flattens warnings to their text.
func Messages(ws []Warning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Message
	}
	return out
}
