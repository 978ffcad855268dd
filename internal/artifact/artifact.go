// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package artifact resolves fitted model and transform files.
//
// Each artifact is looked up through an ordered list of strategies, one per
// candidate directory and serialization format. The first strategy that
// decodes successfully wins. When every strategy fails, the individual
// failures are joined into a single *LoadError so the operator sees why each
// location was rejected.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/metrics"
)

// ErrModelLoad is matched by every *LoadError.
var ErrModelLoad = errors.New("model artifact could not be loaded")

// LoadError reports that no strategy could produce an artifact.
type LoadError struct {
	Artifact string
	// Err joins one error per attempted strategy, in order.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: all strategies failed:\n%v", e.Artifact, e.Err)
}

// Unwrap exposes ErrModelLoad and the individual strategy failures.
func (e *LoadError) Unwrap() []error {
	return []error{ErrModelLoad, e.Err}
}

// Decoder reads one serialization format of an artifact.
type Decoder[T any] struct {
	// Ext is the file extension, including the dot.
	Ext    string
	Decode func(path string) (T, error)
}

// Strategy is a single place to look for an artifact.
type Strategy[T any] struct {
	Path   string
	Decode func(path string) (T, error)
}

// Strategies expands name into one strategy per directory and decoder,
// directory-major so an earlier directory always wins.
func Strategies[T any](name string, dirs []string, decoders ...Decoder[T]) []Strategy[T] {
	out := make([]Strategy[T], 0, len(dirs)*len(decoders))
	for _, dir := range dirs {
		for _, d := range decoders {
			out = append(out, Strategy[T]{
				Path:   filepath.Join(dir, name+d.Ext),
				Decode: d.Decode,
			})
		}
	}
	return out
}

// Load tries strategies in order and returns the first artifact that decodes,
// along with the path it came from.
func Load[T any](name string, strategies []Strategy[T]) (T, string, error) {
	var zero T
	if len(strategies) == 0 {
		return zero, "", &LoadError{Artifact: name, Err: errors.New("no strategies configured")}
	}

	var failures []error
	for _, s := range strategies {
		v, err := s.Decode(s.Path)
		metrics.RecordArtifactLoad(name, err)
		if err == nil {
			logging.Info().Str("artifact", name).Str("path", s.Path).Msg("Loaded artifact")
			return v, s.Path, nil
		}
		logging.Debug().Str("artifact", name).Str("path", s.Path).Err(err).Msg("Artifact strategy failed")
		failures = append(failures, fmt.Errorf("%s: %w", s.Path, err))
	}

	return zero, "", &LoadError{Artifact: name, Err: errors.Join(failures...)}
}

// JSON returns a decoder for .json files.
func JSON[T any]() Decoder[T] {
	return Decoder[T]{Ext: ".json", Decode: DecodeJSON[T]}
}

// YAML returns a decoder for .yaml files.
func YAML[T any]() Decoder[T] {
	return Decoder[T]{Ext: ".yaml", Decode: DecodeYAML[T]}
}

// DecodeJSON reads path as a JSON document. Unknown fields are rejected so a
// file meant for a different artifact fails loudly.
func DecodeJSON[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path) //nolint:gosec // path built from configured model directories
	if err != nil {
		return v, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

// DecodeYAML reads path as a YAML document with strict field checking.
func DecodeYAML[T any](path string) (T, error) {
	var v T
	f, err := os.Open(path) //nolint:gosec // path built from configured model directories
	if err != nil {
		return v, err
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode yaml: %w", err)
	}
	return v, nil
}
