// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package predict scores encoded feature vectors with fitted models.
//
// Two backends are provided: TreeEnsemble, decoded from a JSON export of the
// fitted trees, and ONNXModel, which runs an ONNX graph through onnxruntime.
// Engine wraps a Regressor and enforces the vector width; a wrong-length
// vector is a programming error and fails immediately without retry.
package predict

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when a vector does not match the model width.
var ErrDimensionMismatch = errors.New("feature dimension mismatch")

// DimensionMismatchError reports the expected and actual vector lengths.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("feature dimension mismatch: model expects %d values, got %d", e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrDimensionMismatch.
func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}

// CheckWidth returns a *DimensionMismatchError unless len(x) == want.
func CheckWidth(want int, x []float64) error {
	if len(x) != want {
		return &DimensionMismatchError{Want: want, Got: len(x)}
	}
	return nil
}

// Regressor produces a continuous estimate from a feature vector.
type Regressor interface {
	// Width is the number of features the model was fitted on, or 0 when
	// the model does not declare it.
	Width() int
	PredictValue(ctx context.Context, x []float64) (float64, error)
}

// Classifier produces an integer class label from a feature vector.
type Classifier interface {
	Width() int
	PredictClass(ctx context.Context, x []float64) (int, error)
}

// Engine is the dimension-checked entry point for yield regression.
type Engine struct {
	model Regressor
	width int
}

// NewEngine binds model to the encoder width. A model that declares a
// different width is rejected up front.
func NewEngine(model Regressor, width int) (*Engine, error) {
	if model == nil {
		return nil, errors.New("predict: nil regressor")
	}
	if width <= 0 {
		return nil, fmt.Errorf("predict: invalid feature width %d", width)
	}
	if w := model.Width(); w > 0 && w != width {
		return nil, fmt.Errorf("predict: regressor fitted on %d features, encoder produces %d: %w", w, width, ErrDimensionMismatch)
	}
	return &Engine{model: model, width: width}, nil
}

// Width returns the vector length the engine accepts.
func (e *Engine) Width() int {
	return e.width
}

// Predict scores x. It never pads, truncates or retries.
func (e *Engine) Predict(ctx context.Context, x []float64) (float64, error) {
	if err := CheckWidth(e.width, x); err != nil {
		return 0, err
	}
	y, err := e.model.PredictValue(ctx, x)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("predict: model returned non-finite value %v", y)
	}
	return y, nil
}
