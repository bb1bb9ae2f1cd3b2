// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// Insights returns the aggregate taste profile assembled from the other
// analyses. Sub-analyses are generated on demand but served from the
// store when already present, so a full profile costs one generation per
// type at most.
func (a *Analyzer) Insights(ctx context.Context, force bool) (*models.InsightsReport, error) {
	rep, err := a.insightsReport(ctx, force)
	if err != nil {
		return nil, err
	}
	return rep.Data.(*models.InsightsReport), nil
}

func (a *Analyzer) insightsReport(ctx context.Context, force bool) (*Report, error) {
	out := &models.InsightsReport{}
	return a.generate(ctx, models.AnalysisInsights, force, out, func(ctx context.Context) ([]string, error) {
		return a.buildInsights(ctx, out)
	})
}

func (a *Analyzer) buildInsights(ctx context.Context, out *models.InsightsReport) ([]string, error) {
	stats, err := a.store.GetMovieStats(ctx)
	if err != nil {
		return nil, err
	}
	out.TotalMovies = stats.TotalMovies
	out.AverageRating = stats.AverageRating
	if stats.TotalMovies == 0 {
		out.Insights = []string{"No ratings in the collection yet."}
		return out.Insights, nil
	}

	genres, err := a.Genres(ctx, false)
	if err != nil {
		return nil, err
	}
	years, err := a.Years(ctx, false)
	if err != nil {
		return nil, err
	}
	runtime, err := a.Runtime(ctx, false)
	if err != nil {
		return nil, err
	}
	cast, err := a.Cast(ctx, false)
	if err != nil {
		return nil, err
	}

	insights := []string{fmt.Sprintf(
		"You have rated %d movies with an average score of %s/10.",
		stats.TotalMovies, formatScore(stats.AverageRating))}

	profileGenres := genreNames(profileGenreStats(genres), 3)
	if len(profileGenres) > 0 {
		insights = append(insights, fmt.Sprintf(
			"You gravitate towards %s films.", joinAnd(profileGenres)))
	}
	if years.FavoriteDecade > 0 {
		insights = append(insights, fmt.Sprintf(
			"You show a strong preference for %ds cinema.", years.FavoriteDecade))
	}
	if runtime.PreferredBucket != "" {
		if r := bucketRange(runtime.Buckets, runtime.PreferredBucket); r != "" {
			insights = append(insights, fmt.Sprintf(
				"You favor %s movies (%s).", strings.ToLower(runtime.PreferredBucket), r))
		}
	}
	if len(cast.TopDirectors) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Films by %s rank among your favorites.", cast.TopDirectors[0].Name))
	}
	if len(cast.TopActors) > 0 {
		insights = append(insights, fmt.Sprintf(
			"You rate movies featuring %s highly.", cast.TopActors[0].Name))
	}
	if len(profileGenres) > 0 {
		insights = append(insights, fmt.Sprintf("Seek out more %s films.", profileGenres[0]))
	}
	if len(cast.TopDirectors) > 0 {
		insights = append(insights, fmt.Sprintf("Explore more work by %s.", cast.TopDirectors[0].Name))
	}

	out.Insights = insights
	return insights, nil
}

// Highlights returns the collection movies that best match the taste
// profile, at most limit entries. limit <= 0 uses twice the configured
// list length.
func (a *Analyzer) Highlights(ctx context.Context, limit int, force bool) (*models.HighlightsAnalysis, error) {
	rep, err := a.highlightsReport(ctx, limit, force)
	if err != nil {
		return nil, err
	}
	return rep.Data.(*models.HighlightsAnalysis), nil
}

// highlightsReport runs its own cache flow: a stored record serves any
// request up to its own length by truncation, while longer requests
// regenerate. The engine's response cache absorbs the recomputation when
// the profile has not changed.
func (a *Analyzer) highlightsReport(ctx context.Context, limit int, force bool) (*Report, error) {
	if limit <= 0 {
		limit = a.topN * 2
	}

	if !force {
		rec, err := a.store.GetPreference(ctx, models.AnalysisHighlights)
		if err != nil {
			return nil, fmt.Errorf("failed to load stored highlights analysis: %w", err)
		}
		if rec != nil {
			cached := &models.HighlightsAnalysis{}
			if err := json.Unmarshal(rec.Data, cached); err == nil && len(cached.Highlights) >= limit {
				cached.Highlights = cached.Highlights[:limit]
				return &Report{
					Type:        models.AnalysisHighlights,
					Data:        cached,
					Insights:    rec.Insights,
					GeneratedAt: rec.GeneratedAt,
					Cached:      true,
				}, nil
			}
		}
	}

	start := time.Now()
	out, insights, err := a.buildHighlights(ctx, limit)
	metrics.RecordAnalysisGeneration(models.AnalysisHighlights, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	rec, err := a.persist(ctx, models.AnalysisHighlights, out, insights)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Int("limit", limit).
		Int("results", len(out.Highlights)).
		Dur("elapsed", time.Since(start)).
		Msg("generated highlights")
	return &Report{
		Type:        models.AnalysisHighlights,
		Data:        out,
		Insights:    insights,
		GeneratedAt: rec.GeneratedAt,
	}, nil
}

func (a *Analyzer) buildHighlights(ctx context.Context, limit int) (*models.HighlightsAnalysis, []string, error) {
	genres, err := a.Genres(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	cast, err := a.Cast(ctx, false)
	if err != nil {
		return nil, nil, err
	}

	profileGenres := genreNames(profileGenreStats(genres), a.topN)
	profile := models.TasteProfile{
		Genres:    profileGenres,
		Directors: personNames(cast.TopDirectors, a.topN),
		Actors:    personNames(cast.TopActors, a.topN),
	}

	out := &models.HighlightsAnalysis{
		ProfileGenres: profileGenres,
		Highlights:    []models.Highlight{},
	}
	if profile.Empty() {
		return out, []string{"Not enough rating data to build a preference profile yet."}, nil
	}

	highlights, err := a.recommend.ProfileHighlights(ctx, profile, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to score highlights: %w", err)
	}
	out.Highlights = highlights

	var insights []string
	if len(profileGenres) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Highlights are scored against your favorite genres: %s.",
			strings.Join(profileGenres, ", ")))
	}
	if len(highlights) == 0 {
		insights = append(insights, "No rated movie matches your preference profile yet.")
	} else {
		insights = append(insights, fmt.Sprintf("Showing your top %d profile matches.", len(highlights)))
	}
	return out, insights, nil
}

// profileGenreStats picks the genre list a profile should be built from:
// the quality ranking when enough data exists, the watch-count ranking
// otherwise.
func profileGenreStats(g *models.GenreAnalysis) []models.GenreStat {
	if len(g.TopRated) > 0 {
		return g.TopRated
	}
	return g.MostWatched
}

func genreNames(stats []models.GenreStat, n int) []string {
	if n > len(stats) {
		n = len(stats)
	}
	names := make([]string, 0, n)
	for _, s := range stats[:n] {
		names = append(names, s.Genre)
	}
	return names
}

func personNames(stats []models.PersonStat, n int) []string {
	if n > len(stats) {
		n = len(stats)
	}
	names := make([]string, 0, n)
	for _, s := range stats[:n] {
		names = append(names, s.Name)
	}
	return names
}

func bucketRange(buckets []models.RuntimeBucketStat, name string) string {
	for _, b := range buckets {
		if b.Bucket == name {
			return b.Range
		}
	}
	return ""
}

// joinAnd renders a short list as prose: "Drama", "Drama and Crime",
// "Drama, Crime, and Thriller".
func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
