// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package app assembles the read-only prediction context shared by every
// request: the historical table, the fitted encoder and both models.
//
// Load is called once at startup. Any failure is fatal to the process, so
// Load returns as soon as one component cannot be built, closing whatever it
// had already opened.
package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/agrismart/internal/artifact"
	"github.com/tomtom215/agrismart/internal/cache"
	"github.com/tomtom215/agrismart/internal/classify"
	"github.com/tomtom215/agrismart/internal/config"
	"github.com/tomtom215/agrismart/internal/database"
	"github.com/tomtom215/agrismart/internal/encoder"
	"github.com/tomtom215/agrismart/internal/history"
	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/metrics"
	"github.com/tomtom215/agrismart/internal/predict"
)

// Artifact base names, resolved in every configured search directory.
const (
	ArtifactClassifier   = "model"
	ArtifactStandard     = "standscaler"
	ArtifactMinMax       = "minmaxscaler"
	ArtifactRegressor    = "dtr"
	ArtifactPreprocessor = "preprocessor"
)

// Context is everything a request handler needs. It is built once and never
// mutated afterwards, apart from the caches which synchronize internally.
type Context struct {
	Config  *config.Config
	Table   *history.Table
	Encoder *encoder.Encoder
	Yield   *predict.Engine
	Crops   *classify.Pipeline

	// DB reads the raw options file on demand.
	DB *database.DB

	// Options caches /get_options results; Charts caches rendered PNGs.
	// Both are nil when caching is disabled.
	Options *cache.Cache[database.Options]
	Charts  *cache.Cache[[]byte]

	Sources   map[string]string
	StartTime time.Time

	closers []func() error

	runtime   onnxRuntime
	onnxReady bool
}

// onnxModel is a loaded ONNX session. Close must run before the runtime
// shuts down.
type onnxModel interface {
	predict.Regressor
	predict.Classifier
	Close() error
}

// onnxRuntime holds the native runtime entry points. Tests swap in fakes.
type onnxRuntime struct {
	init           func(libraryPath string) error
	shutdown       func() error
	loadRegressor  func(path string) (onnxModel, error)
	loadClassifier func(path string) (onnxModel, error)
}

var defaultRuntime = onnxRuntime{
	init:     predict.InitRuntime,
	shutdown: predict.ShutdownRuntime,
	loadRegressor: func(path string) (onnxModel, error) {
		m, err := predict.LoadONNXRegressor(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	},
	loadClassifier: func(path string) (onnxModel, error) {
		m, err := predict.LoadONNXClassifier(path)
		if err != nil {
			return nil, err
		}
		return m, nil
	},
}

// Load builds a Context from cfg.
func Load(cfg *config.Config) (*Context, error) {
	return load(cfg, defaultRuntime)
}

func load(cfg *config.Config, runtime onnxRuntime) (*Context, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	c := &Context{
		Config:    cfg,
		Sources:   make(map[string]string),
		StartTime: time.Now(),
		runtime:   runtime,
	}
	if err := c.load(); err != nil {
		if closeErr := c.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error releasing partially loaded context")
		}
		return nil, err
	}
	return c, nil
}

func (c *Context) load() error {
	cfg := c.Config

	table, err := history.Load(cfg.Data.TablePath)
	if err != nil {
		return fmt.Errorf("load historical table: %w", err)
	}
	c.Table = table
	metrics.HistoricalRecords.Set(float64(table.Len()))
	logging.Info().
		Str("path", cfg.Data.TablePath).
		Int("records", table.Len()).
		Int("areas", len(table.Areas())).
		Int("crops", len(table.Crops())).
		Msg("Historical table loaded")

	dirs := cfg.Models.SearchPaths

	params, src, err := artifact.Load(ArtifactPreprocessor, artifact.Strategies(ArtifactPreprocessor, dirs,
		artifact.JSON[encoder.Params](), artifact.YAML[encoder.Params]()))
	if err != nil {
		return err
	}
	c.Sources[ArtifactPreprocessor] = src
	if c.Encoder, err = encoder.New(params); err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	regressor, src, err := artifact.Load(ArtifactRegressor, artifact.Strategies(ArtifactRegressor, dirs,
		artifact.Decoder[predict.Regressor]{Ext: ".json", Decode: decodeTreeRegressor},
		artifact.Decoder[predict.Regressor]{Ext: ".onnx", Decode: c.decodeONNXRegressor},
	))
	if err != nil {
		return err
	}
	c.Sources[ArtifactRegressor] = src
	if c.Yield, err = predict.NewEngine(regressor, c.Encoder.Width()); err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	classifier, src, err := artifact.Load(ArtifactClassifier, artifact.Strategies(ArtifactClassifier, dirs,
		artifact.Decoder[predict.Classifier]{Ext: ".json", Decode: decodeTreeClassifier},
		artifact.Decoder[predict.Classifier]{Ext: ".onnx", Decode: c.decodeONNXClassifier},
	))
	if err != nil {
		return err
	}
	c.Sources[ArtifactClassifier] = src

	minmax, src, err := artifact.Load(ArtifactMinMax, artifact.Strategies(ArtifactMinMax, dirs,
		artifact.JSON[classify.MinMaxParams](), artifact.YAML[classify.MinMaxParams]()))
	if err != nil {
		return err
	}
	c.Sources[ArtifactMinMax] = src

	standard, src, err := artifact.Load(ArtifactStandard, artifact.Strategies(ArtifactStandard, dirs,
		artifact.JSON[classify.StandardParams](), artifact.YAML[classify.StandardParams]()))
	if err != nil {
		return err
	}
	c.Sources[ArtifactStandard] = src

	if c.Crops, err = classify.NewPipeline(minmax, standard, classifier); err != nil {
		return err
	}

	db, err := database.Open()
	if err != nil {
		return err
	}
	c.DB = db
	c.closers = append(c.closers, db.Close)

	if cfg.Cache.Enabled {
		c.Options = cache.New[database.Options]("options", cfg.Cache.TTL)
		c.Charts = cache.New[[]byte]("charts", cfg.Cache.TTL)
		c.closers = append(c.closers, closeFunc(c.Options.Close), closeFunc(c.Charts.Close))
	}

	return nil
}

// Close releases models, the DuckDB connection and cache sweepers, in
// reverse order of acquisition.
func (c *Context) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func closeFunc(fn func()) func() error {
	return func() error {
		fn()
		return nil
	}
}

func decodeTreeRegressor(path string) (predict.Regressor, error) {
	ens, err := predict.LoadTreeEnsemble(path)
	if err != nil {
		return nil, err
	}
	if ens.Kind != predict.KindRegressor {
		return nil, fmt.Errorf("tree ensemble is a %s, want %s", ens.Kind, predict.KindRegressor)
	}
	return ens, nil
}

func decodeTreeClassifier(path string) (predict.Classifier, error) {
	ens, err := predict.LoadTreeEnsemble(path)
	if err != nil {
		return nil, err
	}
	if ens.Kind != predict.KindClassifier {
		return nil, fmt.Errorf("tree ensemble is a %s, want %s", ens.Kind, predict.KindClassifier)
	}
	return ens, nil
}

// initONNX starts the runtime only once an .onnx file is actually present,
// so deployments shipping JSON trees never need the shared library.
// Shutdown is registered once, ahead of every session closer, so the
// reverse-order Close destroys all sessions before the environment.
func (c *Context) initONNX(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if c.onnxReady {
		return nil
	}
	if err := c.runtime.init(c.Config.Models.ONNXLibraryPath); err != nil {
		return err
	}
	c.closers = append(c.closers, c.runtime.shutdown)
	c.onnxReady = true
	return nil
}

func (c *Context) decodeONNXRegressor(path string) (predict.Regressor, error) {
	if err := c.initONNX(path); err != nil {
		return nil, err
	}
	m, err := c.runtime.loadRegressor(path)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, m.Close)
	return predict.GuardRegressor(ArtifactRegressor, m, predict.DefaultBreakerSettings()), nil
}

func (c *Context) decodeONNXClassifier(path string) (predict.Classifier, error) {
	if err := c.initONNX(path); err != nil {
		return nil, err
	}
	m, err := c.runtime.loadClassifier(path)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, m.Close)
	return predict.GuardClassifier(ArtifactClassifier, m, predict.DefaultBreakerSettings()), nil
}
