// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package classify recommends a crop from soil and climate measurements.
//
// A Sample is min-max scaled, then standardized, then passed to a fitted
// classifier whose integer output is looked up in a fixed table of 22 crops.
package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/agrismart/internal/predict"
)

// FeatureCount is the length of a soil/climate vector.
const FeatureCount = 7

// Sample is one soil/climate reading.
type Sample struct {
	Nitrogen    float64
	Phosphorus  float64
	Potassium   float64
	Temperature float64
	Humidity    float64
	PH          float64
	Rainfall    float64
}

// Vector returns the fields in fitted column order.
func (s Sample) Vector() []float64 {
	return []float64{s.Nitrogen, s.Phosphorus, s.Potassium, s.Temperature, s.Humidity, s.PH, s.Rainfall}
}

// MinMaxParams is a fitted min-max transform: x*Scale + Min.
type MinMaxParams struct {
	Min   []float64 `json:"min" yaml:"min"`
	Scale []float64 `json:"scale" yaml:"scale"`
}

// StandardParams is a fitted standardization: (x - Mean) / Scale.
type StandardParams struct {
	Mean  []float64 `json:"mean" yaml:"mean"`
	Scale []float64 `json:"scale" yaml:"scale"`
}

// Label is a classifier outcome.
type Label struct {
	ID   int
	Name string
}

// Pipeline chains both transforms and the classifier. It is immutable.
type Pipeline struct {
	minmax   MinMaxParams
	standard StandardParams
	model    predict.Classifier
}

// NewPipeline checks that every stage agrees on FeatureCount.
func NewPipeline(minmax MinMaxParams, standard StandardParams, model predict.Classifier) (*Pipeline, error) {
	if model == nil {
		return nil, errors.New("classify: nil classifier")
	}
	for name, n := range map[string]int{
		"min-max min":    len(minmax.Min),
		"min-max scale":  len(minmax.Scale),
		"standard mean":  len(standard.Mean),
		"standard scale": len(standard.Scale),
	} {
		if n != FeatureCount {
			return nil, fmt.Errorf("classify: %s has %d values, want %d", name, n, FeatureCount)
		}
	}
	if w := model.Width(); w > 0 && w != FeatureCount {
		return nil, fmt.Errorf("classify: classifier fitted on %d features, want %d: %w", w, FeatureCount, predict.ErrDimensionMismatch)
	}

	std := StandardParams{Mean: standard.Mean, Scale: make([]float64, FeatureCount)}
	for i, s := range standard.Scale {
		std.Scale[i] = s
		if s == 0 {
			std.Scale[i] = 1
		}
	}
	return &Pipeline{minmax: minmax, standard: std, model: model}, nil
}

// Transform applies both scalers to s.
func (p *Pipeline) Transform(s Sample) []float64 {
	x := s.Vector()
	for i := range x {
		x[i] = x[i]*p.minmax.Scale[i] + p.minmax.Min[i]
		x[i] = (x[i] - p.standard.Mean[i]) / p.standard.Scale[i]
	}
	return x
}

// Classify recommends a crop for s.
func (p *Pipeline) Classify(ctx context.Context, s Sample) (Label, error) {
	id, err := p.model.PredictClass(ctx, p.Transform(s))
	if err != nil {
		return Label{}, fmt.Errorf("classify: %w", err)
	}
	name, err := LabelName(id)
	if err != nil {
		return Label{}, err
	}
	return Label{ID: id, Name: name}, nil
}
