// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package encoder

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func testParams() Params {
	return Params{
		Numeric: []NumericColumn{
			{Name: ColYear, Mean: 2001.5, Scale: 7.0},
			{Name: ColRainfall, Mean: 1149.0, Scale: 709.8},
			{Name: ColPesticides, Mean: 37077.0, Scale: 59958.8},
			{Name: ColTemp, Mean: 20.5, Scale: 6.3},
		},
		Categorical: []CategoricalColumn{
			{Name: ColArea, Categories: []string{"Albania", "Algeria", "Angola"}},
			{Name: ColCrop, Categories: []string{"Cassava", "Maize", "Potatoes", "Wheat"}},
		},
	}
}

func mustEncoder(t *testing.T) *Encoder {
	t.Helper()
	enc, err := New(testParams())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return enc
}

func TestEncoder_Columns(t *testing.T) {
	t.Parallel()

	enc := mustEncoder(t)
	want := []string{
		ColYear, ColRainfall, ColPesticides, ColTemp,
		"Area_Algeria", "Area_Angola",
		"Item_Maize", "Item_Potatoes", "Item_Wheat",
	}
	got := enc.Columns()
	if len(got) != len(want) || enc.Width() != len(want) {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEncoder_Encode(t *testing.T) {
	t.Parallel()

	enc := mustEncoder(t)
	vec, err := enc.Encode(Features{
		Year:             1990,
		RainfallMM:       1485,
		PesticidesTonnes: 121,
		AvgTemp:          16.37,
		Area:             "Albania",
		Crop:             "Maize",
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	numeric := []float64{
		(1990 - 2001.5) / 7.0,
		(1485 - 1149.0) / 709.8,
		(121 - 37077.0) / 59958.8,
		(16.37 - 20.5) / 6.3,
	}
	for i, want := range numeric {
		if math.Abs(vec[i]-want) > 1e-12 {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want)
		}
	}

	// Albania is the reference area: both area slots stay zero
	oneHot := []float64{0, 0, 1, 0, 0}
	for i, want := range oneHot {
		if vec[4+i] != want {
			t.Errorf("one-hot slot %d = %v, want %v (vec=%v)", i, vec[4+i], want, vec)
		}
	}
}

func TestEncoder_EncodeLastCategories(t *testing.T) {
	t.Parallel()

	vec, err := mustEncoder(t).Encode(Features{Year: 2000, Area: "Angola", Crop: "Wheat"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := []float64{0, 1, 0, 0, 1}
	for i := range want {
		if vec[4+i] != want[i] {
			t.Errorf("one-hot slot %d = %v, want %v", i, vec[4+i], want[i])
		}
	}
}

func TestEncoder_Deterministic(t *testing.T) {
	t.Parallel()

	enc := mustEncoder(t)
	f := Features{Year: 2013, RainfallMM: 657, PesticidesTonnes: 2550.07, AvgTemp: 19.76, Area: "Algeria", Crop: "Potatoes"}

	a, err := enc.Encode(f)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	b, err := enc.Encode(f)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEncoder_UnknownCategory(t *testing.T) {
	t.Parallel()

	enc := mustEncoder(t)

	tests := []struct {
		name       string
		features   Features
		wantColumn string
		wantText   string
	}{
		{"unknown area", Features{Area: "Atlantis", Crop: "Maize"}, ColArea, `unknown area "Atlantis"`},
		{"unknown crop", Features{Area: "Albania", Crop: "Quinoa"}, ColCrop, `unknown crop "Quinoa"`},
		{"case mismatch", Features{Area: "albania", Crop: "Maize"}, ColArea, "albania"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vec, err := enc.Encode(tt.features)
			if vec != nil {
				t.Errorf("expected nil vector, got %v", vec)
			}
			if !errors.Is(err, ErrUnknownCategory) {
				t.Fatalf("error = %v, want ErrUnknownCategory", err)
			}
			var uce *UnknownCategoryError
			if !errors.As(err, &uce) || uce.Column != tt.wantColumn {
				t.Errorf("error = %#v, want column %s", err, tt.wantColumn)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error text %q should contain %q", err.Error(), tt.wantText)
			}
		})
	}
}

func TestEncoder_Knows(t *testing.T) {
	t.Parallel()

	enc := mustEncoder(t)
	if !enc.Knows("Algeria", "Cassava") {
		t.Error("expected Algeria/Cassava to be known")
	}
	if enc.Knows("Algeria", "Rice") {
		t.Error("expected Rice to be unknown")
	}
}

func TestEncoder_ZeroScale(t *testing.T) {
	t.Parallel()

	params := testParams()
	params.Numeric[0].Scale = 0
	enc, err := New(params)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	vec, err := enc.Encode(Features{Year: 2003, Area: "Albania", Crop: "Cassava"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if vec[0] != 1.5 {
		t.Errorf("zero-scale year = %v, want 1.5", vec[0])
	}
}

func TestNew_InvalidParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"too few numeric", func(p *Params) { p.Numeric = p.Numeric[:3] }},
		{"numeric out of order", func(p *Params) { p.Numeric[0], p.Numeric[1] = p.Numeric[1], p.Numeric[0] }},
		{"missing categorical", func(p *Params) { p.Categorical = p.Categorical[:1] }},
		{"categorical out of order", func(p *Params) { p.Categorical[0], p.Categorical[1] = p.Categorical[1], p.Categorical[0] }},
		{"empty vocabulary", func(p *Params) { p.Categorical[0].Categories = nil }},
		{"duplicate category", func(p *Params) { p.Categorical[1].Categories = []string{"Maize", "Maize"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			params := testParams()
			tt.mutate(&params)
			if _, err := New(params); err == nil {
				t.Error("New() expected error")
			}
		})
	}
}
