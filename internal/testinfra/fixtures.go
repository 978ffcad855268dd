// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package testinfra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/tomtom215/agrismart/internal/classify"
	"github.com/tomtom215/agrismart/internal/config"
	"github.com/tomtom215/agrismart/internal/encoder"
	"github.com/tomtom215/agrismart/internal/predict"
)

// Fixture regressor outputs.
const (
	YieldPotatoes = 70000.0
	YieldEarly    = 25000.0
	YieldLate     = 40000.0
)

// Fixture classifier labels.
const (
	LabelRice     = 1
	LabelChickpea = 21
	LabelUnknown  = 23
)

// TableFile is the name of the fixture yield table.
const TableFile = "yield_df.csv"

// TableCSV is the fixture yield table. Albania/Maize averages 30185.67,
// Albania/Potatoes 72242.5 and Albania/Wheat 21000.
const TableCSV = `Year,Area,Item,hg/ha_yield,average_rain_fall_mm_per_year,pesticides_tonnes,avg_temp
1990,Albania,Maize,36613,1485,121,16.37
1991,Albania,Maize,29068,1485,121,15.36
1992,Albania,Maize,24876,1485,121,16.06
1990,Albania,Potatoes,66667,1485,121,16.37
1991,Albania,Potatoes,77818,1485,121,15.36
1990,Albania,Wheat,20000,1485,121,16.37
1991,Albania,Wheat,22000,1485,121,15.36
2000,India,Rice,30000,1083,41000,25.5
2001,India,Rice,32000,1083,42000,26.0
2000,India,Maize,18000,1083,41000,25.5
2000,India,Wheat,27000,1083,41000,25.5
2000,India,Potatoes,180000,1083,41000,25.5
`

// EncoderParams is the fixture transform. Encoded width is 8:
// four numerics, Area_India, Item_Potatoes, Item_Rice, Item_Wheat.
func EncoderParams() encoder.Params {
	return encoder.Params{
		Numeric: []encoder.NumericColumn{
			{Name: encoder.ColYear, Mean: 2000, Scale: 10},
			{Name: encoder.ColRainfall, Mean: 1000, Scale: 500},
			{Name: encoder.ColPesticides, Mean: 20000, Scale: 20000},
			{Name: encoder.ColTemp, Mean: 20, Scale: 5},
		},
		Categorical: []encoder.CategoricalColumn{
			{Name: encoder.ColArea, Categories: []string{"Albania", "India"}},
			{Name: encoder.ColCrop, Categories: []string{"Maize", "Potatoes", "Rice", "Wheat"}},
		},
	}
}

// Regressor is the fixture yield model over the EncoderParams layout.
func Regressor() *predict.TreeEnsemble {
	return &predict.TreeEnsemble{
		Kind:      predict.KindRegressor,
		NFeatures: 8,
		Trees: []predict.Tree{{
			ChildrenLeft:  []int{1, 2, -1, -1, -1},
			ChildrenRight: []int{4, 3, -1, -1, -1},
			Feature:       []int{5, 0, -2, -2, -2},
			Threshold:     []float64{0.5, 0, -2, -2, -2},
			Value:         [][]float64{{0}, {0}, {YieldEarly}, {YieldLate}, {YieldPotatoes}},
		}},
	}
}

// Classifier is the fixture crop model. Inputs are scaled by MinMax (x/100)
// before reaching it.
func Classifier() *predict.TreeEnsemble {
	return &predict.TreeEnsemble{
		Kind:      predict.KindClassifier,
		NFeatures: classify.FeatureCount,
		Classes:   []int{LabelRice, LabelChickpea, LabelUnknown},
		Trees: []predict.Tree{{
			ChildrenLeft:  []int{1, 2, -1, -1, -1},
			ChildrenRight: []int{4, 3, -1, -1, -1},
			Feature:       []int{0, 1, -2, -2, -2},
			Threshold:     []float64{0.5, 0.9, -2, -2, -2},
			Value:         [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 5, 0}, {0, 0, 3}, {7, 0, 0}},
		}},
	}
}

// MinMax divides every feature by 100.
func MinMax() classify.MinMaxParams {
	return classify.MinMaxParams{
		Min:   make([]float64, classify.FeatureCount),
		Scale: []float64{0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01},
	}
}

// Standard is the identity standardization.
func Standard() classify.StandardParams {
	return classify.StandardParams{
		Mean:  make([]float64, classify.FeatureCount),
		Scale: []float64{1, 1, 1, 1, 1, 1, 1},
	}
}

// WriteArtifacts writes every fixture artifact into dir. Transforms for the
// crop pipeline are written as YAML, everything else as JSON.
func WriteArtifacts(t testing.TB, dir string) {
	t.Helper()

	WriteJSON(t, filepath.Join(dir, "preprocessor.json"), EncoderParams())
	WriteJSON(t, filepath.Join(dir, "dtr.json"), Regressor())
	WriteJSON(t, filepath.Join(dir, "model.json"), Classifier())
	WriteYAML(t, filepath.Join(dir, "minmaxscaler.yaml"), MinMax())
	WriteYAML(t, filepath.Join(dir, "standscaler.yaml"), Standard())
	WriteFile(t, filepath.Join(dir, TableFile), TableCSV)
}

// Config returns a configuration pointing at freshly written fixtures. The
// first search directory is empty so artifact resolution falls through to
// the second.
func Config(t testing.TB) *config.Config {
	t.Helper()

	root := t.TempDir()
	empty := filepath.Join(root, "empty")
	models := filepath.Join(root, "models")
	for _, dir := range []string{empty, models} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("create %s: %v", dir, err)
		}
	}
	WriteArtifacts(t, models)

	return &config.Config{
		Server: config.ServerConfig{
			Port:        5000,
			Host:        "127.0.0.1",
			Timeout:     30 * time.Second,
			Environment: "test",
			CurrentYear: 2025,
		},
		Data: config.DataConfig{
			TablePath: filepath.Join(models, TableFile),
		},
		Models: config.ModelsConfig{
			SearchPaths: []string{empty, models},
		},
		Security: config.SecurityConfig{
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
		Cache: config.CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		Logging: config.LoggingConfig{
			Level:  "error",
			Format: "json",
		},
	}
}

// WriteJSON marshals v to path.
func WriteJSON(t testing.TB, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	WriteFile(t, path, string(data))
}

// WriteYAML marshals v to path.
func WriteYAML(t testing.TB, path string, v any) {
	t.Helper()
	data, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	WriteFile(t, path, string(data))
}

// WriteFile writes content to path.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
