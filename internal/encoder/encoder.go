// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package encoder turns a raw yield scenario into the positional feature
// vector the fitted regressor consumes.
//
// The layout is fixed when the transform is fitted and must be reproduced
// exactly:
//
//	[year, rainfall, pesticides, temperature]   standardized
//	[Area_<c> for c in areas[1:]]               one-hot, first category dropped
//	[Item_<c> for c in crops[1:]]               one-hot, first category dropped
//
// A category outside the fitted vocabulary is rejected with
// *UnknownCategoryError; it is never encoded as an all-zero block, since that
// is indistinguishable from the dropped reference category.
package encoder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned for a categorical value the transform was not fitted on.
var ErrUnknownCategory = errors.New("unknown category")

// UnknownCategoryError names the column and the rejected value.
type UnknownCategoryError struct {
	Column string
	Value  string
}

func (e *UnknownCategoryError) Error() string {
	label := strings.ToLower(e.Column)
	if e.Column == ColCrop {
		label = "crop"
	}
	return fmt.Sprintf("unknown %s %q: not present in the fitted vocabulary", label, e.Value)
}

// Unwrap lets errors.Is match ErrUnknownCategory.
func (e *UnknownCategoryError) Unwrap() error {
	return ErrUnknownCategory
}

// Input column names as fitted.
const (
	ColYear       = "Year"
	ColRainfall   = "average_rain_fall_mm_per_year"
	ColPesticides = "pesticides_tonnes"
	ColTemp       = "avg_temp"
	ColArea       = "Area"
	ColCrop       = "Item"
)

var numericOrder = []string{ColYear, ColRainfall, ColPesticides, ColTemp}
var categoricalOrder = []string{ColArea, ColCrop}

// NumericColumn holds standardization parameters fixed at fit time.
type NumericColumn struct {
	Name  string  `json:"name" yaml:"name"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Scale float64 `json:"scale" yaml:"scale"`
}

// CategoricalColumn holds the fitted vocabulary of a one-hot column.
// Categories are in fitted order; the first is the dropped reference.
type CategoricalColumn struct {
	Name       string   `json:"name" yaml:"name"`
	Categories []string `json:"categories" yaml:"categories"`
}

// Params is the serialized form of a fitted transform.
type Params struct {
	Numeric     []NumericColumn     `json:"numeric" yaml:"numeric"`
	Categorical []CategoricalColumn `json:"categorical" yaml:"categorical"`
}

// Features is one raw yield scenario.
type Features struct {
	Year             int
	RainfallMM       float64
	PesticidesTonnes float64
	AvgTemp          float64
	Area             string
	Crop             string
}

// Encoder applies a fitted transform. It is immutable and safe for concurrent use.
type Encoder struct {
	means   [4]float64
	scales  [4]float64
	vocab   [2]map[string]int
	offsets [2]int
	columns []string
}

// New validates params and builds an Encoder.
func New(params Params) (*Encoder, error) {
	if len(params.Numeric) != len(numericOrder) {
		return nil, fmt.Errorf("transform has %d numeric columns, want %d", len(params.Numeric), len(numericOrder))
	}
	if len(params.Categorical) != len(categoricalOrder) {
		return nil, fmt.Errorf("transform has %d categorical columns, want %d", len(params.Categorical), len(categoricalOrder))
	}

	e := &Encoder{}
	for i, col := range params.Numeric {
		if col.Name != numericOrder[i] {
			return nil, fmt.Errorf("numeric column %d is %q, want %q", i, col.Name, numericOrder[i])
		}
		e.means[i] = col.Mean
		e.scales[i] = col.Scale
		// Zero-variance columns are left unscaled
		if col.Scale == 0 {
			e.scales[i] = 1
		}
		e.columns = append(e.columns, col.Name)
	}

	offset := len(numericOrder)
	for i, col := range params.Categorical {
		if col.Name != categoricalOrder[i] {
			return nil, fmt.Errorf("categorical column %d is %q, want %q", i, col.Name, categoricalOrder[i])
		}
		if len(col.Categories) == 0 {
			return nil, fmt.Errorf("categorical column %q has no categories", col.Name)
		}
		vocab := make(map[string]int, len(col.Categories))
		for j, c := range col.Categories {
			if _, dup := vocab[c]; dup {
				return nil, fmt.Errorf("categorical column %q lists %q twice", col.Name, c)
			}
			vocab[c] = j
			if j > 0 {
				e.columns = append(e.columns, col.Name+"_"+c)
			}
		}
		e.vocab[i] = vocab
		e.offsets[i] = offset
		offset += len(col.Categories) - 1
	}

	return e, nil
}

// Width returns the length of an encoded vector.
func (e *Encoder) Width() int {
	return len(e.columns)
}

// Columns returns the output column names in positional order.
func (e *Encoder) Columns() []string {
	return append([]string(nil), e.columns...)
}

// Knows reports whether area and crop are both in the fitted vocabulary.
func (e *Encoder) Knows(area, crop string) bool {
	_, okArea := e.vocab[0][area]
	_, okCrop := e.vocab[1][crop]
	return okArea && okCrop
}

// Encode returns the feature vector for f. Identical inputs produce
// bit-identical vectors.
func (e *Encoder) Encode(f Features) ([]float64, error) {
	out := make([]float64, e.Width())

	raw := [4]float64{float64(f.Year), f.RainfallMM, f.PesticidesTonnes, f.AvgTemp}
	for i, v := range raw {
		out[i] = (v - e.means[i]) / e.scales[i]
	}

	for i, value := range [2]string{f.Area, f.Crop} {
		idx, ok := e.vocab[i][value]
		if !ok {
			return nil, &UnknownCategoryError{Column: categoricalOrder[i], Value: value}
		}
		if idx > 0 {
			out[e.offsets[i]+idx-1] = 1
		}
	}

	return out, nil
}
