// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/danw628/cinelog/internal/cache"
	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// profileRequest is the cache key payload for one highlights query.
type profileRequest struct {
	Genres    []string `json:"genres"`
	Directors []string `json:"directors"`
	Actors    []string `json:"actors"`
	Limit     int      `json:"limit"`
}

// ProfileHighlights ranks the rated collection against an aggregate taste
// profile instead of a single reference movie. Each rated movie earns
// genre affinity weighted by the profile's genre order, a bonus for a
// profile director, and a capped bonus for profile actors; the affinity is
// then scaled by the movie's own rating so a well-loved match outranks a
// tolerated one. Movies matching nothing in the profile are excluded.
//
// An empty profile returns an empty list, not an error: it means the
// collection is too small to say anything yet.
func (e *Engine) ProfileHighlights(ctx context.Context, profile models.TasteProfile, limit int) ([]models.Highlight, error) {
	if limit <= 0 {
		limit = 10
	}
	if profile.Empty() {
		return []models.Highlight{}, nil
	}

	key := cache.GenerateKey("highlights", profileRequest{
		Genres:    profile.Genres,
		Directors: profile.Directors,
		Actors:    profile.Actors,
		Limit:     limit,
	})
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			metrics.RecordCacheAccess("highlights", true)
			return v.([]models.Highlight), nil
		}
		metrics.RecordCacheAccess("highlights", false)
	}

	features, err := e.source.ListMovieFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie features: %w", err)
	}

	sc := newProfileScorer(profile)
	scored := make([]models.Highlight, 0, len(features))
	for i := range features {
		score, reasons, ok := sc.score(features[i])
		if !ok {
			continue
		}
		scored = append(scored, models.Highlight{
			SimilarMovie: models.SimilarMovie{
				MovieSummary: features[i].MovieSummary,
				Score:        score,
			},
			Reasons: reasons,
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
		Int("profile_genres", len(profile.Genres)).
		Int("candidates", len(features)).
		Int("results", len(scored)).
		Msg("scored profile highlights")
	return scored, nil
}

// profileScorer scores one movie against a taste profile. Genre weights
// decay linearly with profile position so the strongest genre counts most.
type profileScorer struct {
	genreOrder  []string
	genreWeight map[string]float64
	actorOrder  []string
	directors   map[string]struct{}
	actors      map[string]struct{}
}

func newProfileScorer(p models.TasteProfile) *profileScorer {
	sc := &profileScorer{
		genreWeight: make(map[string]float64, len(p.Genres)),
		directors:   make(map[string]struct{}, len(p.Directors)),
		actors:      make(map[string]struct{}, len(p.Actors)),
	}
	n := len(p.Genres)
	for i, g := range p.Genres {
		if _, seen := sc.genreWeight[g]; seen {
			continue
		}
		sc.genreWeight[g] = float64(n-i) / float64(n)
		sc.genreOrder = append(sc.genreOrder, g)
	}
	for _, d := range p.Directors {
		sc.directors[d] = struct{}{}
	}
	for _, a := range p.Actors {
		if _, seen := sc.actors[a]; seen {
			continue
		}
		sc.actors[a] = struct{}{}
		sc.actorOrder = append(sc.actorOrder, a)
	}
	return sc
}

// score returns the profile score and reasons for one movie, or ok=false
// when the movie is unrated or matches nothing in the profile.
func (sc *profileScorer) score(f models.MovieFeatures) (float64, []string, bool) {
	if f.UserRating == nil {
		return 0, nil, false
	}

	candidateGenres := make(map[string]struct{}, len(f.Genres))
	for _, g := range f.Genres {
		candidateGenres[g] = struct{}{}
	}
	candidateCast := make(map[string]struct{}, len(f.Cast))
	for _, name := range f.Cast {
		candidateCast[name] = struct{}{}
	}

	var affinity float64
	var reasons []string

	var matchedGenres []string
	for _, g := range sc.genreOrder {
		if _, ok := candidateGenres[g]; ok {
			affinity += sc.genreWeight[g]
			matchedGenres = append(matchedGenres, g)
		}
	}
	if len(matchedGenres) > 0 {
		label := "genres"
		if len(matchedGenres) == 1 {
			label = "genre"
		}
		reasons = append(reasons, fmt.Sprintf("Matches favorite %s: %s", label, strings.Join(matchedGenres, ", ")))
	}

	if f.Director != "" {
		if _, ok := sc.directors[f.Director]; ok {
			affinity++
			reasons = append(reasons, "Directed by "+f.Director)
		}
	}

	var matchedActors []string
	for _, name := range sc.actorOrder {
		if _, ok := candidateCast[name]; ok {
			matchedActors = append(matchedActors, name)
		}
	}
	if len(matchedActors) > 0 {
		bonus := 0.5 * float64(len(matchedActors))
		if bonus > 1 {
			bonus = 1
		}
		affinity += bonus
		reasons = append(reasons, "Features "+strings.Join(matchedActors, ", "))
	}

	if affinity == 0 {
		return 0, nil, false
	}
	return affinity * (*f.UserRating / 10), reasons, true
}
