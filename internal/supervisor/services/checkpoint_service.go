// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/logging"
)

// Checkpointer matches the database checkpoint method. Satisfied by
// *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically forces a DuckDB WAL checkpoint so that
// a crash between requests loses at most one interval of writes.
//
// Checkpoint failures are logged and retried on the next tick rather
// than returned, so a transient failure does not put the service into a
// restart loop.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	timeout  time.Duration
	name     string
}

// NewCheckpointService creates a checkpoint service that runs every
// interval. A non-positive timeout defaults to one minute per attempt.
func NewCheckpointService(db Checkpointer, interval, timeout time.Duration) *CheckpointService {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &CheckpointService{
		db:       db,
		interval: interval,
		timeout:  timeout,
		name:     "duckdb-checkpoint",
	}
}

// Serve implements suture.Service. It ticks until the context is
// canceled.
func (s *CheckpointService) Serve(ctx context.Context) error {
	log := logging.WithComponent("checkpoint")
	log.Info().Dur("interval", s.interval).Msg("Checkpoint service started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx, log)
		}
	}
}

func (s *CheckpointService) runOnce(ctx context.Context, log zerolog.Logger) {
	tickCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.db.Checkpoint(tickCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Msg("Checkpoint failed, will retry next interval")
		return
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Checkpoint complete")
}

// String implements fmt.Stringer. Suture uses it to identify the
// service in log events.
func (s *CheckpointService) String() string {
	return s.name
}
