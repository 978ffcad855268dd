// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package analytics

import (
	"fmt"
	"strings"

	"github.com/tomtom215/agrismart/internal/history"
)

// Tier buckets the predicted yield relative to the historical mean.
type Tier string

const (
	TierExceptional  Tier = "exceptional"
	TierGood         Tier = "good"
	TierAverage      Tier = "average"
	TierBelowAverage Tier = "below-average"
)

const (
	// ChartCrops is how many area-wide crops lead the chart series.
	ChartCrops = 5
	// MaxAlternatives caps the suggestions for a below-average scenario.
	MaxAlternatives = 3
	// HistoryDepth is how many recent records accompany a result.
	HistoryDepth = 5
)

// TierFor maps a yield difference percentage to its tier. Boundaries are
// exclusive: exactly 15 is good, exactly 5 is average, exactly -5 is below.
func TierFor(percent float64) Tier {
	switch {
	case percent > 15:
		return TierExceptional
	case percent > 5:
		return TierGood
	case percent > -5:
		return TierAverage
	default:
		return TierBelowAverage
	}
}

// Metadata compares a prediction with the matched subset.
type Metadata struct {
	AverageHistoricalYield float64 `json:"average_historical_yield"`
	MinHistoricalYield     float64 `json:"min_historical_yield"`
	MaxHistoricalYield     float64 `json:"max_historical_yield"`
	YieldDifference        float64 `json:"yield_difference"`
	YieldDifferencePercent float64 `json:"yield_difference_percent"`
}

// ChartPoint is one bar of the response chart.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Result is an assessed yield prediction.
type Result struct {
	PredictedYield float64
	Metadata       Metadata
	Tier           Tier
	Message        string
	Warnings       []Warning
	// Alternatives is only populated for TierBelowAverage.
	Alternatives []history.CropYield
	Chart        []ChartPoint
	Recent       []history.Record
}

// Compare computes the metadata block. The percentage is 0 whenever the
// historical mean is not positive.
func Compare(prediction float64, subset history.Subset) Metadata {
	s := subset.Stats()
	avg := subset.MeanYield()
	diff := prediction - avg
	pct := 0.0
	if avg > 0 {
		pct = diff / avg * 100
	}
	return Metadata{
		AverageHistoricalYield: avg,
		MinHistoricalYield:     s.Yield.Min,
		MaxHistoricalYield:     s.Yield.Max,
		YieldDifference:        diff,
		YieldDifferencePercent: pct,
	}
}

// Alternatives returns up to MaxAlternatives crops from areaCrops, which must
// be sorted by mean yield descending, skipping crop itself.
func Alternatives(crop string, areaCrops []history.CropYield) []history.CropYield {
	out := make([]history.CropYield, 0, MaxAlternatives)
	for _, cy := range areaCrops {
		if len(out) == MaxAlternatives {
			break
		}
		if cy.Crop != crop {
			out = append(out, cy)
		}
	}
	return out
}

// Chart returns the top ChartCrops area crops followed by the predicted and
// average values for the requested crop.
func Chart(crop string, prediction, average float64, areaCrops []history.CropYield) []ChartPoint {
	n := len(areaCrops)
	if n > ChartCrops {
		n = ChartCrops
	}
	out := make([]ChartPoint, 0, n+2)
	for _, cy := range areaCrops[:n] {
		out = append(out, ChartPoint{Name: cy.Crop, Value: cy.AverageYield})
	}
	return append(out,
		ChartPoint{Name: "Predicted " + crop, Value: prediction},
		ChartPoint{Name: "Average " + crop, Value: average},
	)
}

// Message renders the human-readable assessment for a tier.
func Message(tier Tier, sc Scenario, alternatives []history.CropYield) string {
	var assessment, suggestion string
	switch tier {
	case TierExceptional:
		assessment = fmt.Sprintf("Excellent! %s in %s shows exceptional yield potential", sc.Crop, sc.Area)
		suggestion = "Perfect conditions for cultivation"
	case TierGood:
		assessment = fmt.Sprintf("Good choice! %s in %s is expected to perform well", sc.Crop, sc.Area)
		suggestion = "Conditions are favorable for cultivation"
	case TierAverage:
		assessment = fmt.Sprintf("%s in %s shows average yield potential", sc.Crop, sc.Area)
		suggestion = "Consider factors that could improve yield"
	default:
		assessment = fmt.Sprintf("Warning: %s might not be optimal for %s", sc.Crop, sc.Area)
		if len(alternatives) == 0 {
			suggestion = "No other crops are recorded for this area"
			break
		}
		names := make([]string, len(alternatives))
		for i, a := range alternatives {
			names[i] = a.Crop
		}
		suggestion = fmt.Sprintf("Consider: %s which historically perform better in this area", strings.Join(names, ", "))
	}
	return assessment + ". " + suggestion + "."
}

// Enrich assembles the full result for a prediction. subset is the matched
// (area, crop) history and areaCrops the area-wide aggregate from
// history.Table.AggregateBy.
func Enrich(sc Scenario, prediction float64, subset history.Subset, areaCrops []history.CropYield) Result {
	meta := Compare(prediction, subset)
	tier := TierFor(meta.YieldDifferencePercent)

	var alts []history.CropYield
	if tier == TierBelowAverage {
		alts = Alternatives(sc.Crop, areaCrops)
	}

	return Result{
		PredictedYield: prediction,
		Metadata:       meta,
		Tier:           tier,
		Message:        Message(tier, sc, alts),
		Warnings:       Validate(sc, subset),
		Alternatives:   alts,
		Chart:          Chart(sc.Crop, prediction, meta.AverageHistoricalYield, areaCrops),
		Recent:         subset.Recent(sc.Year, HistoryDepth),
	}
}
