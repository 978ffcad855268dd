// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.CurrentYear != 2025 {
		t.Errorf("Server.CurrentYear = %d, want 2025", cfg.Server.CurrentYear)
	}
	if cfg.Data.TablePath != "Crop_Yield_Prediction-main/yield_df.csv" {
		t.Errorf("Data.TablePath = %q", cfg.Data.TablePath)
	}
	if len(cfg.Models.SearchPaths) != 2 || cfg.Models.SearchPaths[0] != "." || cfg.Models.SearchPaths[1] != "Crop_Yield_Prediction-main" {
		t.Errorf("Models.SearchPaths = %v, want [. Crop_Yield_Prediction-main]", cfg.Models.SearchPaths)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"HTTP_TIMEOUT", "server.timeout"},
		{"FORECAST_BASE_YEAR", "server.current_year"},
		{"YIELD_TABLE_PATH", "data.table_path"},
		{"MODEL_SEARCH_PATHS", "models.search_paths"},
		{"ONNX_LIBRARY_PATH", "models.onnx_library_path"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"CACHE_TTL", "cache.ttl"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestEnvValue_SplitsLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key, value string
		wantPath   string
		wantValue  interface{}
	}{
		{"MODEL_SEARCH_PATHS", " ., models ,,", "models.search_paths", []string{".", "models"}},
		{"CORS_ORIGINS", "https://a.example", "security.cors_origins", []string{"https://a.example"}},
		{"CORS_ORIGINS", " , ", "", nil},
		{"HTTP_PORT", "8080", "server.port", "8080"},
		{"SHELL", "/bin/sh", "", "/bin/sh"},
	}

	for _, tt := range tests {
		path, value := envValue(tt.key, tt.value)
		if path != tt.wantPath {
			t.Errorf("envValue(%q) path = %q, want %q", tt.key, path, tt.wantPath)
		}
		if fmt.Sprint(value) != fmt.Sprint(tt.wantValue) {
			t.Errorf("envValue(%q, %q) value = %#v, want %#v", tt.key, tt.value, value, tt.wantValue)
		}
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("server:\n  port: 8080\n"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom_config.yaml")
		if err := os.WriteFile(customPath, []byte("server:\n  port: 8080\n"), 0o644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		defer os.Remove(customPath)

		t.Setenv(ConfigPathEnvVar, customPath)
		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadWithKoanf_Layers verifies file values override defaults and env overrides file
func TestLoadWithKoanf_Layers(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	yamlContent := `server:
  port: 8080
  current_year: 2024
data:
  table_path: data/yield.xlsx
logging:
  format: console
`
	configPath := filepath.Join(tmpDir, "agrismart.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MODEL_SEARCH_PATHS", "models, artifacts ,")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env over file)", cfg.Server.Port)
	}
	if cfg.Server.CurrentYear != 2024 {
		t.Errorf("Server.CurrentYear = %d, want 2024 (file over default)", cfg.Server.CurrentYear)
	}
	if cfg.Data.TablePath != "data/yield.xlsx" {
		t.Errorf("Data.TablePath = %q, want data/yield.xlsx", cfg.Data.TablePath)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
	if len(cfg.Models.SearchPaths) != 2 || cfg.Models.SearchPaths[0] != "models" || cfg.Models.SearchPaths[1] != "artifacts" {
		t.Errorf("Models.SearchPaths = %v, want [models artifacts]", cfg.Models.SearchPaths)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache.TTL = %v, want 90s", cfg.Cache.TTL)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default 0.0.0.0", cfg.Server.Host)
	}
}

// TestLoadWithKoanf_InvalidEnv verifies validation runs after layering
func TestLoadWithKoanf_InvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("YIELD_TABLE_PATH", "yield.parquet")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for unsupported table extension")
	}
}

func TestRawOptionsFile(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if got := cfg.RawOptionsFile(); got != cfg.Data.TablePath {
		t.Errorf("RawOptionsFile() = %q, want table path", got)
	}

	cfg.Data.RawOptionsPath = "raw/options.csv"
	if got := cfg.RawOptionsFile(); got != "raw/options.csv" {
		t.Errorf("RawOptionsFile() = %q, want raw/options.csv", got)
	}
}
