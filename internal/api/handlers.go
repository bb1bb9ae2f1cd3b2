// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/analysis"
	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/csvimport"
	"github.com/danw628/cinelog/internal/models"
	"github.com/danw628/cinelog/internal/tmdb"
)

// Catalog is the facade surface the movie and cast handlers call.
// *catalog.Service satisfies it.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]models.MovieSummary, error)
	GetMovieDetails(ctx context.Context, identifier string) (*models.MovieDetails, error)
	GetCastMemberMovies(ctx context.Context, name, role string) ([]models.CastMemberMovie, error)
	FilterMovies(ctx context.Context, filter models.MovieFilter) ([]models.MovieSummary, error)
	GetMovieStats(ctx context.Context) (*models.MovieStats, error)
	FindSimilarMovies(ctx context.Context, identifier, mode string, limit int) ([]models.SimilarMovie, error)
}

// Analyzer is the analysis surface. *analysis.Analyzer satisfies it.
type Analyzer interface {
	Generate(ctx context.Context, analysisType string, force bool) (*analysis.Report, error)
	Highlights(ctx context.Context, limit int, force bool) (*models.HighlightsAnalysis, error)
}

// ImportController starts and stops CSV import runs. *csvimport.Importer
// satisfies it.
type ImportController interface {
	Start(ctx context.Context, opts csvimport.Options) (*models.ImportRun, error)
	Stop() bool
}

// PosterEnricher kicks off a poster enrichment batch. *tmdb.Enricher
// satisfies it; nil means enrichment is not configured.
type PosterEnricher interface {
	Run(ctx context.Context, batch int) (*tmdb.RunResult, error)
}

// Store is the direct read surface for endpoints that bypass the facade:
// the ratings listing, genre list, single-rating lookup, import status, and
// the health probe. *database.DB satisfies it.
type Store interface {
	ListRatings(ctx context.Context, filter models.RatingsFilter) (*models.RatingsPage, error)
	GetGenres(ctx context.Context) ([]string, error)
	GetMovieByID(ctx context.Context, imdbID string) (*models.Movie, error)
	GetRatingForMovie(ctx context.Context, imdbID string) (*models.UserRating, error)
	GetLatestImportRun(ctx context.Context) (*models.ImportRun, error)
	Ping(ctx context.Context) error
}

// Handlers carries every endpoint's dependencies. All methods are safe for
// concurrent use.
type Handlers struct {
	catalog  Catalog
	analyzer Analyzer
	importer ImportController
	enricher PosterEnricher
	store    Store
	cfg      config.APIConfig
	logger   zerolog.Logger

	enriching  atomic.Bool
	background sync.WaitGroup
}

// NewHandlers wires the endpoint handlers. enricher may be nil when poster
// enrichment is not configured; the enrichment endpoint then reports 503.
func NewHandlers(
	catalog Catalog,
	analyzer Analyzer,
	importer ImportController,
	enricher PosterEnricher,
	store Store,
	cfg config.APIConfig,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		catalog:  catalog,
		analyzer: analyzer,
		importer: importer,
		enricher: enricher,
		store:    store,
		cfg:      cfg,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// Drain blocks until background work started by handlers has finished.
// Called during shutdown, after the listener has stopped accepting.
func (h *Handlers) Drain() {
	h.background.Wait()
}
