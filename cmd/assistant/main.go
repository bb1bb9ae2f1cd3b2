// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package main is the entry point for the Cinelog assistant tool server.
//
// The assistant speaks JSON-RPC 2.0 over stdin/stdout, exposing the
// collection to language-model clients as callable tools (search,
// details, filtering, stats, similarity) and readable resources. It is
// meant to be spawned by the client as a subprocess; one process serves
// one session.
//
// Protocol frames own stdout, so all logging goes to stderr.
//
// # Example Usage
//
//	./cinelog-assistant < requests.jsonl
//
// Typical clients launch the binary themselves and keep the pipe open
// for the life of the conversation.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/danw628/cinelog/internal/assistant"
	"github.com/danw628/cinelog/internal/cache"
	"github.com/danw628/cinelog/internal/catalog"
	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/database"
	"github.com/danw628/cinelog/internal/logging"
	"github.com/danw628/cinelog/internal/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Cannot load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("db_path", cfg.Database.Path).Msg("Cinelog assistant starting")

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

	similarityCache := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	defer similarityCache.Close()
	engine := recommend.NewEngine(db, similarityCache, logger)
	catalogSvc := catalog.New(db, engine, logger)

	srv := assistant.NewServer(catalogSvc, db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Assistant session failed")
		// os.Exit skips the deferred close.
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Database close failed")
		}
		os.Exit(1)
	}

	logging.Info().Msg("Assistant stopped")
}
