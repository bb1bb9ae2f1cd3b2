// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

const (
	// DefaultBatchSize caps how many movies one enrichment pass touches.
	DefaultBatchSize = 25

	// minOverviewLen is the shortest overview worth storing as a plot.
	minOverviewLen = 50

	maxActors    = 10
	maxDirectors = 3
)

// Enrichment outcomes, recorded per movie in the enrichment metrics.
const (
	outcomeEnriched = "enriched"
	outcomeNotFound = "not_found"
	outcomeNoPoster = "no_poster"
	outcomeError    = "error"
)

// Store is the subset of database operations enrichment writes through.
type Store interface {
	ListMoviesWithoutPoster(ctx context.Context, limit int) ([]*models.Movie, error)
	UpsertMovie(ctx context.Context, m *models.Movie) error
	UpdateMoviePoster(ctx context.Context, imdbID string, posterURL, localPath *string) error
	AddCastMembers(ctx context.Context, imdbID string, credits []models.CastCredit) error
}

// RunResult summarizes one enrichment pass.
type RunResult struct {
	Processed int `json:"processed"`
	Enriched  int `json:"enriched"`
	NotFound  int `json:"not_found"`
	NoPoster  int `json:"no_poster"`
	Failed    int `json:"failed"`
}

// Enricher walks movies still missing poster data and fills in metadata,
// credits, and a locally stored poster from the API.
type Enricher struct {
	client    *Client
	store     Store
	posterDir string
	logger    zerolog.Logger
}

func NewEnricher(client *Client, store Store, cfg config.TMDBConfig, logger zerolog.Logger) *Enricher {
	return &Enricher{
		client:    client,
		store:     store,
		posterDir: cfg.PosterDir,
		logger:    logger.With().Str("component", "enrich").Logger(),
	}
}

// Run enriches up to batch movies without poster data. Per-movie upstream
// failures are logged and counted; store failures abort the pass.
func (e *Enricher) Run(ctx context.Context, batch int) (*RunResult, error) {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	movies, err := e.store.ListMoviesWithoutPoster(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies for enrichment: %w", err)
	}
	if len(movies) > 0 {
		if err := os.MkdirAll(e.posterDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create poster directory: %w", err)
		}
	}

	result := &RunResult{}
	for _, movie := range movies {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		start := time.Now()
		outcome, err := e.enrichMovie(ctx, movie)
		metrics.RecordEnrichment(outcome, time.Since(start))
		switch outcome {
		case outcomeEnriched:
			result.Enriched++
		case outcomeNotFound:
			result.NotFound++
		case outcomeNoPoster:
			result.NoPoster++
		default:
			result.Failed++
		}
		if err != nil {
			return result, err
		}
	}

	if result.Processed > 0 {
		e.logger.Info().
			Int("processed", result.Processed).
			Int("enriched", result.Enriched).
			Int("not_found", result.NotFound).
			Int("no_poster", result.NoPoster).
			Int("failed", result.Failed).
			Msg("enrichment pass complete")
	}
	return result, nil
}

// enrichMovie resolves one movie. The returned error is non-nil only for
// store failures; upstream failures are reflected in the outcome alone so
// one flaky lookup does not abort the batch.
func (e *Enricher) enrichMovie(ctx context.Context, movie *models.Movie) (string, error) {
	found, err := e.client.FindByIMDbID(ctx, movie.ImdbID)
	if errors.Is(err, ErrNotFound) {
		e.logger.Debug().Str("imdb_id", movie.ImdbID).Msg("no tmdb match")
		return outcomeNotFound, nil
	}
	if err != nil {
		e.logger.Warn().Err(err).Str("imdb_id", movie.ImdbID).Msg("tmdb lookup failed")
		return outcomeError, nil
	}

	details, err := e.client.MovieDetails(ctx, found.ID)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("imdb_id", movie.ImdbID).
			Int("tmdb_id", found.ID).
			Msg("tmdb details failed")
		return outcomeError, nil
	}

	if applyDetails(movie, details) {
		if err := e.store.UpsertMovie(ctx, movie); err != nil {
			return outcomeError, err
		}
	}
	if credits := castCredits(details); len(credits) > 0 {
		if err := e.store.AddCastMembers(ctx, movie.ImdbID, credits); err != nil {
			return outcomeError, err
		}
	}

	posterPath := details.PosterPath
	if posterPath == "" {
		posterPath = found.PosterPath
	}
	if posterPath == "" {
		return outcomeNoPoster, nil
	}
	posterURL := e.client.PosterURL(posterPath)

	localPath, err := e.downloadPoster(ctx, movie.ImdbID, posterURL, posterPath)
	if err != nil {
		// Keep the URL so a later pass retries just the download.
		if serr := e.store.UpdateMoviePoster(ctx, movie.ImdbID, &posterURL, nil); serr != nil {
			return outcomeError, serr
		}
		e.logger.Warn().Err(err).Str("imdb_id", movie.ImdbID).Msg("poster download failed")
		return outcomeError, nil
	}
	if err := e.store.UpdateMoviePoster(ctx, movie.ImdbID, &posterURL, &localPath); err != nil {
		return outcomeError, err
	}

	e.logger.Debug().
		Str("imdb_id", movie.ImdbID).
		Str("poster", localPath).
		Msg("movie enriched")
	return outcomeEnriched, nil
}

func (e *Enricher) downloadPoster(ctx context.Context, imdbID, posterURL, posterPath string) (string, error) {
	data, err := e.client.DownloadImage(ctx, posterURL)
	if err != nil {
		return "", err
	}
	ext := path.Ext(posterPath)
	if ext == "" {
		ext = ".jpg"
	}
	localPath := filepath.Join(e.posterDir, imdbID+ext)
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write poster file: %w", err)
	}
	return localPath, nil
}

// applyDetails copies metadata the CSV export lacks onto the movie and
// reports whether anything changed. Existing values are never overwritten.
func applyDetails(movie *models.Movie, details *MovieDetails) bool {
	changed := false
	if movie.Plot == nil && len(details.Overview) > minOverviewLen {
		overview := details.Overview
		movie.Plot = &overview
		changed = true
	}
	if movie.RuntimeMinutes == nil && details.Runtime > 0 {
		runtime := details.Runtime
		movie.RuntimeMinutes = &runtime
		changed = true
	}
	if movie.Country == nil && len(details.ProductionCountries) > 0 {
		names := make([]string, 0, len(details.ProductionCountries))
		for _, pc := range details.ProductionCountries {
			if pc.Name != "" {
				names = append(names, pc.Name)
			}
		}
		if len(names) > 0 {
			country := strings.Join(names, ", ")
			movie.Country = &country
			changed = true
		}
	}
	if movie.Language == nil && len(details.SpokenLanguages) > 0 {
		lang := details.SpokenLanguages[0].EnglishName
		if lang != "" {
			movie.Language = &lang
			changed = true
		}
	}
	return changed
}

// castCredits flattens the credits block into storable rows: the top
// billed actors and the directing crew. AddCastMembers skips pairs the
// import already recorded.
func castCredits(details *MovieDetails) []models.CastCredit {
	if details.Credits == nil {
		return nil
	}
	credits := make([]models.CastCredit, 0, maxActors+maxDirectors)
	for i, member := range details.Credits.Cast {
		if i >= maxActors {
			break
		}
		if member.Name == "" {
			continue
		}
		credit := models.CastCredit{Name: member.Name, Role: models.RoleActor}
		if member.Character != "" {
			character := member.Character
			credit.Character = &character
		}
		credits = append(credits, credit)
	}
	directors := 0
	for _, member := range details.Credits.Crew {
		if member.Job != "Director" || member.Name == "" {
			continue
		}
		credits = append(credits, models.CastCredit{Name: member.Name, Role: models.RoleDirector})
		directors++
		if directors >= maxDirectors {
			break
		}
	}
	return credits
}
