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

// PosterScanner matches the poster availability scanner. Satisfied by
// *posters.Scanner.
type PosterScanner interface {
	ScanPending(ctx context.Context, batch int) (int, error)
}

// PosterScanService periodically analyzes downloaded poster artwork
// (brightness, contrast, style tags) for movies that have a poster file
// but no analysis row yet. TMDB enrichment leaves that backlog; this
// loop works it off in batches so poster-style preference analysis has
// data to chew on.
//
// Scan failures are logged and retried on the next tick. A bad batch
// should not restart-loop the workers layer.
type PosterScanService struct {
	scanner  PosterScanner
	interval time.Duration
	batch    int
	name     string
}

// NewPosterScanService creates a poster scan service that runs every
// interval, analyzing up to batch posters per tick.
func NewPosterScanService(scanner PosterScanner, interval time.Duration, batch int) *PosterScanService {
	if batch <= 0 {
		batch = 50
	}
	return &PosterScanService{
		scanner:  scanner,
		interval: interval,
		batch:    batch,
		name:     "poster-scan",
	}
}

// Serve implements suture.Service. It ticks until the context is
// canceled.
func (s *PosterScanService) Serve(ctx context.Context) error {
	log := logging.WithComponent("posterscan")
	log.Info().Dur("interval", s.interval).Int("batch", s.batch).Msg("Poster scan service started")

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

func (s *PosterScanService) runOnce(ctx context.Context, log zerolog.Logger) {
	analyzed, err := s.scanner.ScanPending(ctx, s.batch)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Msg("Poster scan failed, will retry next interval")
		return
	}
	if analyzed > 0 {
		log.Debug().Int("analyzed", analyzed).Msg("Poster scan pass complete")
	}
}

// String implements fmt.Stringer. Suture uses it to identify the
// service in log events.
func (s *PosterScanService) String() string {
	return s.name
}
