// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package artifact

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type scaler struct {
	Mean  []float64 `json:"mean" yaml:"mean"`
	Scale []float64 `json:"scale" yaml:"scale"`
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestStrategies_Order(t *testing.T) {
	t.Parallel()

	got := Strategies("standscaler", []string{"a", "b"}, JSON[scaler](), YAML[scaler]())
	want := []string{
		filepath.Join("a", "standscaler.json"),
		filepath.Join("a", "standscaler.yaml"),
		filepath.Join("b", "standscaler.json"),
		filepath.Join("b", "standscaler.yaml"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d strategies, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Path != want[i] {
			t.Errorf("strategy %d = %s, want %s", i, got[i].Path, want[i])
		}
	}
}

func TestLoad_FirstSuccessWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	writeFile(t, filepath.Join(first, "standscaler.yaml"), "mean: [1, 2]\nscale: [3, 4]\n")
	writeFile(t, filepath.Join(second, "standscaler.json"), `{"mean":[9],"scale":[9]}`)

	v, path, err := Load("standscaler", Strategies("standscaler", []string{first, second}, JSON[scaler](), YAML[scaler]()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != filepath.Join(first, "standscaler.yaml") {
		t.Errorf("path = %s, want the yaml file in the first directory", path)
	}
	if len(v.Mean) != 2 || v.Mean[1] != 2 || v.Scale[0] != 3 {
		t.Errorf("decoded = %+v", v)
	}
}

func TestLoad_FallsBackPastCorruptFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "minmaxscaler.json"), `{"mean": [1`)
	writeFile(t, filepath.Join(root, "b", "minmaxscaler.json"), `{"mean":[5],"scale":[6]}`)

	v, _, err := Load("minmaxscaler", Strategies("minmaxscaler",
		[]string{filepath.Join(root, "a"), filepath.Join(root, "b")}, JSON[scaler]()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v.Mean[0] != 5 {
		t.Errorf("Mean = %v, want [5]", v.Mean)
	}
}

func TestLoad_AggregatesFailures(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "model.json"), `{"unexpected": true}`)

	_, _, err := Load("model", Strategies("model", []string{root, filepath.Join(root, "missing")}, JSON[scaler](), YAML[scaler]()))
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("error = %v, want ErrModelLoad", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("joined error should expose the missing-file failures")
	}

	var le *LoadError
	if !errors.As(err, &le) || le.Artifact != "model" {
		t.Fatalf("error = %#v, want *LoadError for model", err)
	}
	// One line per strategy: unknown field, then three missing files
	msg := err.Error()
	for _, part := range []string{"model.json", "model.yaml", "unexpected", filepath.Join("missing", "model.json")} {
		if !strings.Contains(msg, part) {
			t.Errorf("error message missing %q:\n%s", part, msg)
		}
	}
}

func TestLoad_NoStrategies(t *testing.T) {
	t.Parallel()

	if _, _, err := Load[scaler]("dtr", nil); !errors.Is(err, ErrModelLoad) {
		t.Errorf("error = %v, want ErrModelLoad", err)
	}
}

func TestDecodeYAML_UnknownField(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "s.yaml")
	writeFile(t, path, "mean: [1]\nvariance: [2]\n")
	if _, err := DecodeYAML[scaler](path); err == nil {
		t.Error("DecodeYAML() expected error for unknown field")
	}
}
