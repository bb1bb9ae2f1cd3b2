// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/danw628/cinelog/internal/models"
)

// Genres returns the genre preference analysis.
func (a *Analyzer) Genres(ctx context.Context, force bool) (*models.GenreAnalysis, error) {
	rep, err := a.genresReport(ctx, force)
	if err != nil {
		return nil, err
	}
	return rep.Data.(*models.GenreAnalysis), nil
}

func (a *Analyzer) genresReport(ctx context.Context, force bool) (*Report, error) {
	out := &models.GenreAnalysis{}
	return a.generate(ctx, models.AnalysisGenres, force, out, func(ctx context.Context) ([]string, error) {
		return a.buildGenres(ctx, out)
	})
}

func (a *Analyzer) buildGenres(ctx context.Context, out *models.GenreAnalysis) ([]string, error) {
	stats, err := a.store.GetGenreStats(ctx)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		*out = models.GenreAnalysis{
			MostWatched:   []models.GenreStat{},
			TopRated:      []models.GenreStat{},
			LeastFavorite: []models.GenreStat{},
		}
		return []string{"No genre data available."}, nil
	}

	// The store orders by count, which is exactly the most-watched list.
	out.TotalGenres = len(stats)
	out.MostWatched = firstGenreStats(stats, a.topN)

	ranked := make([]models.GenreStat, 0, len(stats))
	for _, s := range stats {
		if s.Count >= a.minGroup {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].AverageRating != ranked[j].AverageRating {
			return ranked[i].AverageRating > ranked[j].AverageRating
		}
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Genre < ranked[j].Genre
	})
	out.TopRated = firstGenreStats(ranked, a.topN)
	out.LeastFavorite = lastGenreStatsReversed(ranked, a.topN)

	totalRated, err := a.store.CountRatings(ctx)
	if err != nil {
		return nil, err
	}

	var insights []string
	if len(out.TopRated) > 0 {
		top := out.TopRated[0]
		insights = append(insights, fmt.Sprintf(
			"Your highest-rated genre is %s with an average rating of %s/10.",
			top.Genre, formatScore(top.AverageRating)))
	}
	insights = append(insights, fmt.Sprintf(
		"You have rated %d movies across %d different genres.", totalRated, out.TotalGenres))
	if out.TotalGenres > 5 {
		insights = append(insights, "You enjoy a diverse range of genres.")
	} else {
		insights = append(insights, "You tend to stick to a smaller set of preferred genres.")
	}
	return insights, nil
}

// Years returns the era preference analysis.
func (a *Analyzer) Years(ctx context.Context, force bool) (*models.YearAnalysis, error) {
	rep, err := a.yearsReport(ctx, force)
	if err != nil {
		return nil, err
	}
	return rep.Data.(*models.YearAnalysis), nil
}

func (a *Analyzer) yearsReport(ctx context.Context, force bool) (*Report, error) {
	out := &models.YearAnalysis{}
	return a.generate(ctx, models.AnalysisYears, force, out, func(ctx context.Context) ([]string, error) {
		return a.buildYears(ctx, out)
	})
}

func (a *Analyzer) buildYears(ctx context.Context, out *models.YearAnalysis) ([]string, error) {
	decades, err := a.store.GetDecadeStats(ctx)
	if err != nil {
		return nil, err
	}
	if len(decades) == 0 {
		*out = models.YearAnalysis{Decades: []models.DecadeStat{}}
		return []string{"No year data available."}, nil
	}
	out.Decades = decades

	favorite := decades[0]
	total := 0
	for _, d := range decades {
		total += d.Count
		if d.AverageRating > favorite.AverageRating ||
			(d.AverageRating == favorite.AverageRating && d.Count > favorite.Count) {
			favorite = d
		}
	}
	out.FavoriteDecade = favorite.Decade

	stats, err := a.store.GetMovieStats(ctx)
	if err != nil {
		return nil, err
	}
	out.EarliestYear = stats.EarliestYear
	out.LatestYear = stats.LatestYear

	share := math.Round(float64(favorite.Count)/float64(total)*1000) / 10
	return []string{
		fmt.Sprintf("Your favorite decade is the %ds with an average rating of %s/10.",
			favorite.Decade, formatScore(favorite.AverageRating)),
		fmt.Sprintf("It accounts for %s%% of your rated movies.", formatScore(share)),
	}, nil
}

// Runtime returns the length preference analysis.
func (a *Analyzer) Runtime(ctx context.Context, force bool) (*models.RuntimeAnalysis, error) {
	rep, err := a.runtimeReport(ctx, force)
	if err != nil {
		return nil, err
	}
	return rep.Data.(*models.RuntimeAnalysis), nil
}

func (a *Analyzer) runtimeReport(ctx context.Context, force bool) (*Report, error) {
	out := &models.RuntimeAnalysis{}
	return a.generate(ctx, models.AnalysisRuntime, force, out, func(ctx context.Context) ([]string, error) {
		return a.buildRuntime(ctx, out)
	})
}

func (a *Analyzer) buildRuntime(ctx context.Context, out *models.RuntimeAnalysis) ([]string, error) {
	buckets, err := a.store.GetRuntimeBuckets(ctx)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		*out = models.RuntimeAnalysis{Buckets: []models.RuntimeBucketStat{}}
		return []string{"No runtime data available."}, nil
	}
	avg, err := a.store.GetAverageRuntime(ctx)
	if err != nil {
		return nil, err
	}

	out.Buckets = buckets
	out.AverageRuntime = avg

	preferred := pickBucket(buckets, a.minGroup)
	if preferred == nil {
		// Small collections: no bucket met the group size.
		preferred = pickBucket(buckets, 0)
	}
	out.PreferredBucket = preferred.Bucket

	return []string{
		fmt.Sprintf("You prefer %s movies (%s), rating them %s/10 on average.",
			strings.ToLower(preferred.Bucket), preferred.Range, formatScore(preferred.AverageRating)),
		fmt.Sprintf("Your average movie runtime is %s minutes.", formatScore(avg)),
	}, nil
}

// pickBucket returns the highest-rated bucket with at least minCount
// movies, ties broken by count, or nil when none qualifies.
func pickBucket(buckets []models.RuntimeBucketStat, minCount int) *models.RuntimeBucketStat {
	var best *models.RuntimeBucketStat
	for i := range buckets {
		b := &buckets[i]
		if b.Count < minCount {
			continue
		}
		if best == nil || b.AverageRating > best.AverageRating ||
			(b.AverageRating == best.AverageRating && b.Count > best.Count) {
			best = b
		}
	}
	return best
}

// Cast returns the people preference analysis.
func (a *Analyzer) Cast(ctx context.Context, force bool) (*models.CastAnalysis, error) {
	rep, err := a.castReport(ctx, force)
	if err != nil {
		return nil, err
	}
	return rep.Data.(*models.CastAnalysis), nil
}

func (a *Analyzer) castReport(ctx context.Context, force bool) (*Report, error) {
	out := &models.CastAnalysis{}
	return a.generate(ctx, models.AnalysisCast, force, out, func(ctx context.Context) ([]string, error) {
		return a.buildCast(ctx, out)
	})
}

func (a *Analyzer) buildCast(ctx context.Context, out *models.CastAnalysis) ([]string, error) {
	actors, err := a.store.GetPersonStats(ctx, models.RoleActor, a.minGroup, a.topN*2)
	if err != nil {
		return nil, err
	}
	directors, err := a.store.GetPersonStats(ctx, models.RoleDirector, a.minGroup, a.topN*2)
	if err != nil {
		return nil, err
	}
	total, err := a.store.CountDistinctCastNames(ctx)
	if err != nil {
		return nil, err
	}

	out.TopActors = actors
	out.TopDirectors = directors
	out.TotalPeople = total

	if len(actors) == 0 && len(directors) == 0 {
		return []string{fmt.Sprintf(
			"No actor or director appears in at least %d rated movies yet.", a.minGroup)}, nil
	}
	var insights []string
	if len(actors) > 0 {
		top := actors[0]
		insights = append(insights, fmt.Sprintf(
			"Your favorite actor is %s with an average rating of %s/10 across %d movies.",
			top.Name, formatScore(top.AverageRating), top.Count))
	}
	if len(directors) > 0 {
		top := directors[0]
		insights = append(insights, fmt.Sprintf(
			"Your favorite director is %s with an average rating of %s/10 across %d movies.",
			top.Name, formatScore(top.AverageRating), top.Count))
	}
	return insights, nil
}

// PosterStyle returns the visual taste analysis from analyzed posters.
func (a *Analyzer) PosterStyle(ctx context.Context, force bool) (*models.PosterStyleAnalysis, error) {
	rep, err := a.posterStyleReport(ctx, force)
	if err != nil {
		return nil, err
	}
	return rep.Data.(*models.PosterStyleAnalysis), nil
}

func (a *Analyzer) posterStyleReport(ctx context.Context, force bool) (*Report, error) {
	out := &models.PosterStyleAnalysis{}
	return a.generate(ctx, models.AnalysisPosterStyle, force, out, func(ctx context.Context) ([]string, error) {
		return a.buildPosterStyle(ctx, out)
	})
}

func (a *Analyzer) buildPosterStyle(ctx context.Context, out *models.PosterStyleAnalysis) ([]string, error) {
	analyzed, err := a.store.CountAnalyzedPosters(ctx)
	if err != nil {
		return nil, err
	}
	if analyzed == 0 {
		*out = models.PosterStyleAnalysis{
			BrightnessPreference: "unknown",
			ContrastPreference:   "unknown",
			CommonColors:         []models.ColorStat{},
			CommonStyles:         []models.StyleStat{},
		}
		return []string{"No poster data available."}, nil
	}

	colors, err := a.store.GetColorStats(ctx, a.minGroup, a.topN*2)
	if err != nil {
		return nil, err
	}
	styles, err := a.store.GetStyleStats(ctx, a.minGroup, a.topN*2)
	if err != nil {
		return nil, err
	}
	brightness, err := a.store.GetBrightnessBuckets(ctx)
	if err != nil {
		return nil, err
	}
	contrast, err := a.store.GetContrastBuckets(ctx)
	if err != nil {
		return nil, err
	}

	out.AnalyzedPosters = analyzed
	out.CommonColors = colors
	out.CommonStyles = styles
	out.BrightnessPreference = topBucketTag(brightness)
	out.ContrastPreference = topBucketTag(contrast)

	insights := []string{fmt.Sprintf("Analyzed %d posters from your collection.", analyzed)}
	if out.BrightnessPreference != "unknown" && out.ContrastPreference != "unknown" {
		insights = append(insights, fmt.Sprintf(
			"You rate %s posters with %s contrast highest.",
			out.BrightnessPreference, out.ContrastPreference))
	}
	if len(styles) > 0 {
		insights = append(insights, fmt.Sprintf(
			"The most common style across your posters is %s.", styles[0].Tag))
	}
	return insights, nil
}

// topBucketTag returns the highest-rated bucket's label; the store
// already orders buckets by average rating descending.
func topBucketTag(buckets []models.StyleStat) string {
	if len(buckets) == 0 {
		return "unknown"
	}
	return buckets[0].Tag
}

func firstGenreStats(stats []models.GenreStat, n int) []models.GenreStat {
	if n > len(stats) {
		n = len(stats)
	}
	res := make([]models.GenreStat, n)
	copy(res, stats[:n])
	return res
}

// lastGenreStatsReversed returns the tail of a descending ranking in
// ascending order, so the worst entry comes first.
func lastGenreStatsReversed(stats []models.GenreStat, n int) []models.GenreStat {
	if n > len(stats) {
		n = len(stats)
	}
	res := make([]models.GenreStat, 0, n)
	for i := len(stats) - 1; i >= len(stats)-n; i-- {
		res = append(res, stats[i])
	}
	return res
}

// formatScore renders a rating or percentage without trailing zeros,
// matching how the values read in sentences: 8.5, 8, 8.25.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
