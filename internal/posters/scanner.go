// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package posters

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// DefaultBatchSize is how many pending posters one scan pass analyzes
// when the caller does not say otherwise.
const DefaultBatchSize = 50

// Store is the subset of database operations the scanner needs.
type Store interface {
	ListMoviesNeedingPosterAnalysis(ctx context.Context, limit int) ([]*models.Movie, error)
	UpsertPosterAnalysis(ctx context.Context, pa *models.PosterAnalysis) error
}

// Scanner walks movies whose poster file is on disk but has no analysis
// row yet and fills in the gap.
type Scanner struct {
	store  Store
	logger zerolog.Logger
}

func NewScanner(store Store, logger zerolog.Logger) *Scanner {
	return &Scanner{
		store:  store,
		logger: logger.With().Str("component", "posters").Logger(),
	}
}

// ScanPending analyzes up to batch pending posters and reports how many
// analyses were stored. Unreadable or undecodable files are logged and
// skipped; they stay in the queue for a later pass.
func (s *Scanner) ScanPending(ctx context.Context, batch int) (int, error) {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	movies, err := s.store.ListMoviesNeedingPosterAnalysis(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending posters: %w", err)
	}

	analyzed := 0
	for _, movie := range movies {
		if err := ctx.Err(); err != nil {
			return analyzed, err
		}
		if movie.PosterLocalPath == nil {
			continue
		}

		start := time.Now()
		pa, err := AnalyzeFile(*movie.PosterLocalPath)
		metrics.RecordPosterAnalysis(time.Since(start), err)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("imdb_id", movie.ImdbID).
				Str("path", *movie.PosterLocalPath).
				Msg("skipping unreadable poster")
			continue
		}

		pa.ImdbID = movie.ImdbID
		if err := s.store.UpsertPosterAnalysis(ctx, pa); err != nil {
			return analyzed, err
		}
		analyzed++

		s.logger.Debug().
			Str("imdb_id", movie.ImdbID).
			Float64("brightness", pa.BrightnessScore).
			Float64("contrast", pa.ContrastScore).
			Strs("style_tags", pa.StyleTags).
			Msg("poster analyzed")
	}

	if analyzed > 0 {
		s.logger.Info().
			Int("analyzed", analyzed).
			Int("pending", len(movies)).
			Msg("poster scan complete")
	}
	return analyzed, nil
}
