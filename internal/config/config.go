// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package config loads the Agrismart service configuration.
//
// Configuration is layered with koanf: built-in defaults, then an optional
// YAML file, then environment variables. The resulting Config is validated
// before it is returned.
package config

import (
	"time"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Data     DataConfig     `koanf:"data"`
	Models   ModelsConfig   `koanf:"models"`
	Security SecurityConfig `koanf:"security"`
	Cache    CacheConfig    `koanf:"cache"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`

	// CurrentYear anchors the forecast window served by /api/available-options.
	CurrentYear int `koanf:"current_year"`
}

// DataConfig locates the historical yield table.
type DataConfig struct {
	// TablePath is the table loaded into memory at startup (.csv or .xlsx).
	TablePath string `koanf:"table_path"`

	// RawOptionsPath is the file read on every /get_options call.
	// Empty means TablePath.
	RawOptionsPath string `koanf:"raw_options_path"`
}

// ModelsConfig controls where fitted model artifacts are searched for.
type ModelsConfig struct {
	// SearchPaths are candidate directories, tried in order.
	SearchPaths []string `koanf:"search_paths"`

	// ONNXLibraryPath points at the onnxruntime shared library.
	// Empty uses the platform default lookup.
	ONNXLibraryPath string `koanf:"onnx_library_path"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// CacheConfig controls response caching.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// RawOptionsFile returns the file backing /get_options.
func (c *Config) RawOptionsFile() string {
	if c.Data.RawOptionsPath != "" {
		return c.Data.RawOptionsPath
	}
	return c.Data.TablePath
}
