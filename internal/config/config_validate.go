// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateModels(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	// 2030 is the forecast ceiling; a base year past it leaves no window
	if c.Server.CurrentYear < 1900 || c.Server.CurrentYear > 2030 {
		return fmt.Errorf("FORECAST_BASE_YEAR must be between 1900 and 2030, got %d", c.Server.CurrentYear)
	}
	return nil
}

func (c *Config) validateData() error {
	if strings.TrimSpace(c.Data.TablePath) == "" {
		return fmt.Errorf("YIELD_TABLE_PATH is required")
	}
	switch ext := strings.ToLower(filepath.Ext(c.Data.TablePath)); ext {
	case ".csv", ".xlsx":
	default:
		return fmt.Errorf("YIELD_TABLE_PATH must be a .csv or .xlsx file, got %q", ext)
	}
	return nil
}

func (c *Config) validateModels() error {
	if len(c.Models.SearchPaths) == 0 {
		return fmt.Errorf("MODEL_SEARCH_PATHS must list at least one directory")
	}
	for _, p := range c.Models.SearchPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("MODEL_SEARCH_PATHS contains an empty entry")
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQS must be positive when rate limiting is enabled, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when caching is enabled, got %s", c.Cache.TTL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
