// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// ErrUnknownAnalysis is returned when a request names an analysis type
// the analyzer does not generate.
var ErrUnknownAnalysis = errors.New("unknown analysis type")

// Store is the narrow view of the database layer the analyzer consumes:
// the aggregate queries behind each report plus the preference rows the
// results persist to. The database package implements it; tests supply
// fixtures.
type Store interface {
	GetMovieStats(ctx context.Context) (*models.MovieStats, error)
	CountRatings(ctx context.Context) (int, error)
	GetGenreStats(ctx context.Context) ([]models.GenreStat, error)
	GetDecadeStats(ctx context.Context) ([]models.DecadeStat, error)
	GetRuntimeBuckets(ctx context.Context) ([]models.RuntimeBucketStat, error)
	GetAverageRuntime(ctx context.Context) (float64, error)
	GetPersonStats(ctx context.Context, role string, minCount, limit int) ([]models.PersonStat, error)
	CountDistinctCastNames(ctx context.Context) (int, error)
	CountAnalyzedPosters(ctx context.Context) (int, error)
	GetColorStats(ctx context.Context, minCount, limit int) ([]models.ColorStat, error)
	GetStyleStats(ctx context.Context, minCount, limit int) ([]models.StyleStat, error)
	GetBrightnessBuckets(ctx context.Context) ([]models.StyleStat, error)
	GetContrastBuckets(ctx context.Context) ([]models.StyleStat, error)
	GetPreference(ctx context.Context, analysisType string) (*models.PreferenceRecord, error)
	SavePreference(ctx context.Context, rec *models.PreferenceRecord) error
}

// Recommender scores the collection against a taste profile. Implemented
// by the recommendation engine.
type Recommender interface {
	ProfileHighlights(ctx context.Context, profile models.TasteProfile, limit int) ([]models.Highlight, error)
}

// Report is one generated analysis together with its insight strings.
// Data holds a pointer to the models type matching Type. Cached is true
// when the report came from the preference store rather than a fresh
// generation.
type Report struct {
	Type        string      `json:"type"`
	Data        any `json:"data"`
	Insights    []string    `json:"insights"`
	GeneratedAt time.Time   `json:"generated_at"`
	Cached      bool        `json:"cached"`
}

// Analyzer generates preference reports and serves stored copies until
// they are explicitly regenerated or the importer clears the store.
type Analyzer struct {
	store     Store
	recommend Recommender
	minGroup  int
	topN      int
	logger    zerolog.Logger
}

// New creates an analyzer. Zero config fields fall back to the shipped
// defaults (group size 2, list length 5).
func New(store Store, recommend Recommender, cfg config.AnalysisConfig, logger zerolog.Logger) *Analyzer {
	if cfg.MinGroupSize <= 0 {
		cfg.MinGroupSize = 2
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	return &Analyzer{
		store:     store,
		recommend: recommend,
		minGroup:  cfg.MinGroupSize,
		topN:      cfg.TopN,
		logger:    logger.With().Str("component", "analysis").Logger(),
	}
}

// Generate produces the named analysis, serving the stored copy unless
// force is set. Unknown types return ErrUnknownAnalysis. Highlights
// generate at their default length here; callers wanting a specific
// length use Highlights directly.
func (a *Analyzer) Generate(ctx context.Context, analysisType string, force bool) (*Report, error) {
	switch analysisType {
	case models.AnalysisGenres:
		return a.genresReport(ctx, force)
	case models.AnalysisYears:
		return a.yearsReport(ctx, force)
	case models.AnalysisRuntime:
		return a.runtimeReport(ctx, force)
	case models.AnalysisCast:
		return a.castReport(ctx, force)
	case models.AnalysisPosterStyle:
		return a.posterStyleReport(ctx, force)
	case models.AnalysisInsights:
		return a.insightsReport(ctx, force)
	case models.AnalysisHighlights:
		return a.highlightsReport(ctx, 0, force)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnalysis, analysisType)
	}
}

// generate is the cached-unless-forced flow shared by the report types:
// serve the stored record when present, otherwise build fresh into out,
// persist, and return. A stored record that no longer unmarshals into
// the current shape is regenerated instead of served.
func (a *Analyzer) generate(ctx context.Context, analysisType string, force bool, out any, build func(context.Context) ([]string, error)) (*Report, error) {
	if !force {
		rec, err := a.store.GetPreference(ctx, analysisType)
		if err != nil {
			return nil, fmt.Errorf("failed to load stored %s analysis: %w", analysisType, err)
		}
		if rec != nil {
			if err := json.Unmarshal(rec.Data, out); err == nil {
				return &Report{
					Type:        analysisType,
					Data:        out,
					Insights:    rec.Insights,
					GeneratedAt: rec.GeneratedAt,
					Cached:      true,
				}, nil
			}
			a.logger.Warn().Str("analysis", analysisType).Msg("stored analysis no longer parses, regenerating")
		}
	}

	start := time.Now()
	insights, err := build(ctx)
	metrics.RecordAnalysisGeneration(analysisType, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	rec, err := a.persist(ctx, analysisType, out, insights)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("analysis", analysisType).
		Dur("elapsed", time.Since(start)).
		Msg("generated analysis")
	return &Report{
		Type:        analysisType,
		Data:        out,
		Insights:    insights,
		GeneratedAt: rec.GeneratedAt,
	}, nil
}

func (a *Analyzer) persist(ctx context.Context, analysisType string, data any, insights []string) (*models.PreferenceRecord, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s analysis: %w", analysisType, err)
	}
	rec := &models.PreferenceRecord{
		AnalysisType: analysisType,
		Data:         raw,
		Insights:     insights,
		GeneratedAt:  time.Now().UTC(),
	}
	if err := a.store.SavePreference(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store %s analysis: %w", analysisType, err)
	}
	return rec, nil
}
