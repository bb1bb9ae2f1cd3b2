// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package main is the entry point for the Cinelog server.
//
// Cinelog is a self-hosted analytics service for a personal movie
// ratings collection. It imports IMDb ratings exports, enriches them
// with poster metadata from TMDB, and serves search, filtering, taste
// analysis, and similarity recommendations over a REST API.
//
// # Startup
//
// Components come up in dependency order: configuration, then the
// embedded DuckDB store, then the similarity cache and engine, the
// catalog and analysis surfaces on top of the store, the optional TMDB
// enricher, the CSV importer, and finally the supervisor tree that owns
// the maintenance loops and the HTTP server.
//
// Configuration is layered through koanf v2. Environment variables win
// over the YAML file (config.yaml, or whatever CONFIG_PATH names),
// which wins over built-in defaults.
//
// # Shutdown
//
// SIGINT or SIGTERM cancels the root context. The HTTP server stops
// listening and drains in-flight requests for up to ten seconds, a
// running CSV import is canceled and waited on, and background
// enrichment work unwinds before the database closes.
//
// # Example Usage
//
// Minimal local run:
//
//	./cinelog-server
//
// With TMDB poster enrichment:
//
//	export TMDB_ENABLED=true
//	export TMDB_API_KEY=your-api-key
//	./cinelog-server
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danw628/cinelog/internal/analysis"
	"github.com/danw628/cinelog/internal/api"
	"github.com/danw628/cinelog/internal/cache"
	"github.com/danw628/cinelog/internal/catalog"
	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/csvimport"
	"github.com/danw628/cinelog/internal/database"
	"github.com/danw628/cinelog/internal/logging"
	"github.com/danw628/cinelog/internal/posters"
	"github.com/danw628/cinelog/internal/recommend"
	"github.com/danw628/cinelog/internal/supervisor"
	"github.com/danw628/cinelog/internal/supervisor/services"
	"github.com/danw628/cinelog/internal/tmdb"
)

func main() {
	// Configuration has to come first so logging can be set up from it.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Cannot load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	// Edits to the config file retune logging in place. Everything else
	// still needs a restart to change.
	if err := config.Watch(func(next *config.Config) {
		logging.Init(logging.Config{
			Level:  next.Logging.Level,
			Format: next.Logging.Format,
			Caller: next.Logging.Caller,
		})
	}); err != nil {
		logging.Warn().Err(err).Msg("Config watch unavailable")
	}

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("tmdb_enabled", cfg.TMDB.Enabled).
		Msg("Cinelog starting")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Cannot open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Database close failed")
		}
	}()

	logger := logging.Logger()

	// Similarity responses are cached in-process; imports invalidate.
	similarityCache := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	defer similarityCache.Close()
	engine := recommend.NewEngine(db, similarityCache, logger)

	catalogSvc := catalog.New(db, engine, logger)
	analyzer := analysis.New(db, engine, cfg.Analysis, logger)

	// TMDB enrichment is optional. The enricher stays a concrete pointer
	// here; interface-typed nils would read as configured downstream.
	var enricher *tmdb.Enricher
	if cfg.TMDB.Enabled {
		client := tmdb.NewClient(cfg.TMDB, logger)
		enricher = tmdb.NewEnricher(client, db, cfg.TMDB, logger)
		logging.Info().
			Str("image_base_url", cfg.TMDB.ImageBaseURL).
			Str("poster_size", cfg.TMDB.PosterSize).
			Msg("TMDB poster enrichment is on")
	} else {
		logging.Info().Msg("TMDB poster enrichment is off")
	}

	var importEnricher csvimport.Enricher
	if enricher != nil {
		importEnricher = enricher
	}
	importer := csvimport.NewImporter(db, engine, importEnricher, cfg.Import, logger)

	var apiEnricher api.PosterEnricher
	if enricher != nil {
		apiEnricher = enricher
	}
	handlers := api.NewHandlers(catalogSvc, analyzer, importer, apiEnricher, db, cfg.API, logger)
	router := api.NewRouter(handlers, api.NewMiddleware(cfg.API))

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// suture reports restart events through slog, so hand it the zerolog
	// process logger behind the slog bridge.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Cannot build supervisor tree")
	}

	if cfg.Database.CheckpointInterval > 0 {
		tree.AddWorkerService(services.NewCheckpointService(db, cfg.Database.CheckpointInterval, 0))
		logging.Info().
			Dur("interval", cfg.Database.CheckpointInterval).
			Msg("Checkpoint loop registered")
	}

	if cfg.TMDB.Enabled && cfg.Analysis.PosterScanInterval > 0 {
		scanner := posters.NewScanner(db, logger)
		tree.AddWorkerService(services.NewPosterScanService(scanner, cfg.Analysis.PosterScanInterval, posters.DefaultBatchSize))
		logging.Info().
			Dur("interval", cfg.Analysis.PosterScanInterval).
			Msg("Poster scan loop registered")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("Supervision starting")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, draining services")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervision ended early")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervision shutdown reported an error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service ignored the shutdown deadline")
		}
	}

	// The listener is down; cancel any in-flight import and let
	// background work unwind before the deferred database close.
	if importer.Stop() {
		logging.Info().Msg("Canceled running import")
	}
	importer.Wait()
	handlers.Drain()

	logging.Info().Msg("Cinelog stopped")
}
