// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/cache"
	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// Comparison modes. The strings are part of the API surface; the facade
// validates them before delegating here.
const (
	ModeGenre    = "genre"
	ModeDirector = "director"
	ModeCast     = "cast"
	ModeAll      = "all"
)

// FeatureSource supplies the one-pass comparison snapshot. Implemented by
// the database layer.
type FeatureSource interface {
	ListMovieFeatures(ctx context.Context) ([]models.MovieFeatures, error)
}

// Engine computes similarity rankings. It holds no mutable state of its
// own and is safe for concurrent use; the cache handles its own locking.
type Engine struct {
	source FeatureSource
	cache  *cache.Cache
	logger zerolog.Logger
}

// NewEngine creates a similarity engine. The cache may be nil, in which
// case every request scores from a fresh snapshot.
func NewEngine(source FeatureSource, c *cache.Cache, logger zerolog.Logger) *Engine {
	return &Engine{
		source: source,
		cache:  c,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// similarRequest is the cache key payload for one similarity query.
type similarRequest struct {
	Reference string `json:"reference"`
	Mode      string `json:"mode"`
	Limit     int    `json:"limit"`
}

// SimilarMovies returns up to limit movies ranked by similarity to the
// reference under the given mode. The reference ID must already be
// resolved; an ID missing from the collection is an error, not an empty
// result, because it means the caller raced a reset.
func (e *Engine) SimilarMovies(ctx context.Context, referenceID, mode string, limit int) ([]models.SimilarMovie, error) {
	switch mode {
	case ModeGenre, ModeDirector, ModeCast, ModeAll:
	default:
		return nil, fmt.Errorf("unknown similarity mode %q", mode)
	}
	if limit <= 0 {
		limit = 10
	}

	key := cache.GenerateKey("similar", similarRequest{Reference: referenceID, Mode: mode, Limit: limit})
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			metrics.RecordCacheAccess("similarity", true)
			return v.([]models.SimilarMovie), nil
		}
		metrics.RecordCacheAccess("similarity", false)
	}

	features, err := e.source.ListMovieFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie features: %w", err)
	}

	var ref *models.MovieFeatures
	for i := range features {
		if features[i].ImdbID == referenceID {
			ref = &features[i]
			break
		}
	}
	if ref == nil {
		return nil, fmt.Errorf("reference movie %s is not in the collection", referenceID)
	}

	sc := newScorer(mode, *ref)
	scored := make([]models.SimilarMovie, 0, len(features))
	for i := range features {
		candidate := features[i]
		if candidate.ImdbID == referenceID {
			continue
		}
		score, ok := sc.score(candidate)
		if !ok {
			continue
		}
		scored = append(scored, models.SimilarMovie{
			MovieSummary: candidate.MovieSummary,
			Score:        score,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if au, bu := ratingValue(a.UserRating), ratingValue(b.UserRating); au != bu {
			return au > bu
		}
		if ai, bi := ratingValue(a.ImdbRating), ratingValue(b.ImdbRating); ai != bi {
			return ai > bi
		}
		return a.ImdbID < b.ImdbID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	if e.cache != nil {
		e.cache.Set(key, scored)
		metrics.CacheSize.Set(float64(e.cache.Len()))
	}
	e.logger.Debug().
		Str("reference", referenceID).
		Str("mode", mode).
		Int("candidates", len(features)-1).
		Int("results", len(scored)).
		Msg("scored similarity")
	return scored, nil
}

// InvalidateCache drops every cached similarity response. The importer
// calls this after each run because any change to the collection can
// change any ranking.
func (e *Engine) InvalidateCache() {
	if e.cache != nil {
		e.cache.Clear()
		metrics.CacheSize.Set(0)
	}
}

// ratingValue orders nil ratings below every real one.
func ratingValue(p *float64) float64 {
	if p == nil {
		return -1
	}
	return *p
}
