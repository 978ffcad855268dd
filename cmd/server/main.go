// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/agrismart/internal/api"
	"github.com/tomtom215/agrismart/internal/app"
	"github.com/tomtom215/agrismart/internal/config"
	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/supervisor"
	"github.com/tomtom215/agrismart/internal/supervisor/services"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

// dbProbeInterval is how often the data layer pings DuckDB.
const dbProbeInterval = 30 * time.Second

func main() {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("table", cfg.Data.TablePath).
		Strs("model_search_paths", cfg.Models.SearchPaths).
		Msg("Starting Agrismart")

	appCtx, err := app.Load(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load application context")
	}
	defer func() {
		if err := appCtx.Close(); err != nil {
			logging.Error().Err(err).Msg("Error releasing application context")
		}
	}()
	for artifact, path := range appCtx.Sources {
		logging.Info().Str("artifact", artifact).Str("path", path).Msg("Artifact loaded")
	}

	api.Version = version
	router := api.NewRouter(api.NewHandler(appCtx), api.ChiMiddlewareConfigFrom(cfg.Security))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.Timeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewProbeService(appCtx.DB, services.ProbeServiceConfig{
		Dependency: "duckdb",
		Interval:   dbProbeInterval,
	}, logging.WithComponent("supervisor")))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Agrismart stopped")
}
