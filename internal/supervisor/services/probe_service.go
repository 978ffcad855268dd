// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/agrismart/internal/metrics"
)

// Pinger is a dependency that can report whether it is reachable.
//
// Satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeServiceConfig holds configuration for the probe service.
type ProbeServiceConfig struct {
	// Dependency names the probed component in logs and metrics.
	Dependency string

	// Interval is how often to probe. Default: 30s
	Interval time.Duration

	// Timeout bounds a single probe. Default: 5s
	Timeout time.Duration
}

// ProbeService periodically pings a dependency and exports the result as the
// dependency_up gauge. State changes are logged once, not on every tick.
type ProbeService struct {
	target Pinger
	config ProbeServiceConfig
	logger zerolog.Logger
	name   string
	up     *bool
}

// NewProbeService creates a probe for target.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProbeService(target Pinger, cfg ProbeServiceConfig, logger zerolog.Logger) *ProbeService {
	if cfg.Dependency == "" {
		cfg.Dependency = "dependency"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &ProbeService{
		target: target,
		config: cfg,
		logger: logger.With().Str("service", "probe").Str("dependency", cfg.Dependency).Logger(),
		name:   cfg.Dependency + "-probe",
	}
}

// Serve implements suture.Service. It probes once immediately, then on every
// tick until ctx is canceled.
func (s *ProbeService) Serve(ctx context.Context) error {
	s.logger.Debug().Dur("interval", s.config.Interval).Msg("probe service starting")
	s.probe(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *ProbeService) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	err := s.target.Ping(probeCtx)
	metrics.RecordDependencyProbe(s.config.Dependency, err)

	up := err == nil
	if s.up != nil && *s.up == up {
		return
	}
	s.up = &up

	if up {
		s.logger.Info().Msg("dependency reachable")
	} else {
		s.logger.Warn().Err(err).Msg("dependency unreachable")
	}
}

// String returns the service name for logging.
func (s *ProbeService) String() string {
	return s.name
}
