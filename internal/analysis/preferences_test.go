// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package analysis

import (
	"context"
	"testing"

	"github.com/danw628/cinelog/internal/models"
)

func genreFixtures() []models.GenreStat {
	// Count-ordered, the way the store returns them.
	return []models.GenreStat{
		{Genre: "Drama", Count: 10, AverageRating: 8.5},
		{Genre: "Action", Count: 8, AverageRating: 6},
		{Genre: "Crime", Count: 5, AverageRating: 9},
		{Genre: "Horror", Count: 2, AverageRating: 4},
		{Genre: "Romance", Count: 1, AverageRating: 9.5},
	}
}

func TestGenresAnalysis(t *testing.T) {
	store := newMockStore()
	store.genreStats = genreFixtures()
	store.ratingCount = 20
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Genres(context.Background(), false)
	if err != nil {
		t.Fatalf("Genres failed: %v", err)
	}

	if got.TotalGenres != 5 {
		t.Errorf("TotalGenres = %d, want 5", got.TotalGenres)
	}
	if len(got.MostWatched) != 5 || got.MostWatched[0].Genre != "Drama" {
		t.Errorf("MostWatched = %v, want Drama first", got.MostWatched)
	}

	// Romance has a single movie and must not enter the rated rankings.
	wantTop := []string{"Crime", "Drama", "Action", "Horror"}
	if len(got.TopRated) != len(wantTop) {
		t.Fatalf("TopRated has %d entries, want %d", len(got.TopRated), len(wantTop))
	}
	for i, want := range wantTop {
		if got.TopRated[i].Genre != want {
			t.Errorf("TopRated[%d] = %s, want %s", i, got.TopRated[i].Genre, want)
		}
	}

	// Least favorite runs worst-first.
	wantLeast := []string{"Horror", "Action", "Drama", "Crime"}
	for i, want := range wantLeast {
		if got.LeastFavorite[i].Genre != want {
			t.Errorf("LeastFavorite[%d] = %s, want %s", i, got.LeastFavorite[i].Genre, want)
		}
	}

	rec := store.prefs[models.AnalysisGenres]
	if rec == nil {
		t.Fatal("no genres record persisted")
	}
	wantInsights := []string{
		"Your highest-rated genre is Crime with an average rating of 9/10.",
		"You have rated 20 movies across 5 different genres.",
		"You tend to stick to a smaller set of preferred genres.",
	}
	if len(rec.Insights) != len(wantInsights) {
		t.Fatalf("insights = %v, want %v", rec.Insights, wantInsights)
	}
	for i, want := range wantInsights {
		if rec.Insights[i] != want {
			t.Errorf("insight[%d] = %q, want %q", i, rec.Insights[i], want)
		}
	}
}

func TestGenresDiversityInsight(t *testing.T) {
	store := newMockStore()
	store.genreStats = append(genreFixtures(), models.GenreStat{Genre: "Sci-Fi", Count: 3, AverageRating: 7.5})
	store.ratingCount = 22
	a := newTestAnalyzer(store, &mockRecommender{})

	if _, err := a.Genres(context.Background(), false); err != nil {
		t.Fatalf("Genres failed: %v", err)
	}
	insights := store.prefs[models.AnalysisGenres].Insights
	last := insights[len(insights)-1]
	if last != "You enjoy a diverse range of genres." {
		t.Errorf("diversity insight = %q, want the diverse variant for 6 genres", last)
	}
}

func TestGenresEmpty(t *testing.T) {
	store := newMockStore()
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Genres(context.Background(), false)
	if err != nil {
		t.Fatalf("Genres failed: %v", err)
	}
	if got.TotalGenres != 0 || len(got.MostWatched) != 0 || len(got.TopRated) != 0 {
		t.Errorf("empty collection produced %+v, want zero analysis", got)
	}
	insights := store.prefs[models.AnalysisGenres].Insights
	if len(insights) != 1 || insights[0] != "No genre data available." {
		t.Errorf("insights = %v, want the no-data message", insights)
	}
}

func TestYearsAnalysis(t *testing.T) {
	store := newMockStore()
	store.decadeStats = []models.DecadeStat{
		{Decade: 1970, Count: 3, AverageRating: 7},
		{Decade: 1990, Count: 5, AverageRating: 8.8},
		{Decade: 2000, Count: 2, AverageRating: 8.8},
	}
	store.movieStats = &models.MovieStats{EarliestYear: 1972, LatestYear: 2008}
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Years(context.Background(), false)
	if err != nil {
		t.Fatalf("Years failed: %v", err)
	}

	// 1990 and 2000 tie on rating; the larger decade wins.
	if got.FavoriteDecade != 1990 {
		t.Errorf("FavoriteDecade = %d, want 1990", got.FavoriteDecade)
	}
	if got.EarliestYear != 1972 || got.LatestYear != 2008 {
		t.Errorf("year span = %d-%d, want 1972-2008", got.EarliestYear, got.LatestYear)
	}
	if len(got.Decades) != 3 {
		t.Errorf("Decades has %d entries, want 3", len(got.Decades))
	}

	wantInsights := []string{
		"Your favorite decade is the 1990s with an average rating of 8.8/10.",
		"It accounts for 50% of your rated movies.",
	}
	insights := store.prefs[models.AnalysisYears].Insights
	for i, want := range wantInsights {
		if insights[i] != want {
			t.Errorf("insight[%d] = %q, want %q", i, insights[i], want)
		}
	}
}

func TestYearsEmpty(t *testing.T) {
	store := newMockStore()
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Years(context.Background(), false)
	if err != nil {
		t.Fatalf("Years failed: %v", err)
	}
	if got.FavoriteDecade != 0 || len(got.Decades) != 0 {
		t.Errorf("empty collection produced %+v, want zero analysis", got)
	}
	insights := store.prefs[models.AnalysisYears].Insights
	if len(insights) != 1 || insights[0] != "No year data available." {
		t.Errorf("insights = %v, want the no-data message", insights)
	}
}

func TestRuntimeAnalysis(t *testing.T) {
	store := newMockStore()
	store.runtimeBuckets = []models.RuntimeBucketStat{
		{Bucket: models.RuntimeShort, Range: "< 90 min", Count: 1, AverageRating: 9.5},
		{Bucket: models.RuntimeStandard, Range: "90-119 min", Count: 6, AverageRating: 7.5},
		{Bucket: models.RuntimeLong, Range: "120-149 min", Count: 3, AverageRating: 8.2},
	}
	store.averageRuntime = 112.5
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Runtime(context.Background(), false)
	if err != nil {
		t.Fatalf("Runtime failed: %v", err)
	}

	// Short rates highest but has one movie; Long is the best qualified.
	if got.PreferredBucket != models.RuntimeLong {
		t.Errorf("PreferredBucket = %s, want Long", got.PreferredBucket)
	}
	if got.AverageRuntime != 112.5 {
		t.Errorf("AverageRuntime = %v, want 112.5", got.AverageRuntime)
	}

	wantInsights := []string{
		"You prefer long movies (120-149 min), rating them 8.2/10 on average.",
		"Your average movie runtime is 112.5 minutes.",
	}
	insights := store.prefs[models.AnalysisRuntime].Insights
	for i, want := range wantInsights {
		if insights[i] != want {
			t.Errorf("insight[%d] = %q, want %q", i, insights[i], want)
		}
	}
}

func TestRuntimeFallbackBelowGroupSize(t *testing.T) {
	store := newMockStore()
	store.runtimeBuckets = []models.RuntimeBucketStat{
		{Bucket: models.RuntimeShort, Range: "< 90 min", Count: 1, AverageRating: 6},
		{Bucket: models.RuntimeEpic, Range: "150+ min", Count: 1, AverageRating: 9},
	}
	store.averageRuntime = 120
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Runtime(context.Background(), false)
	if err != nil {
		t.Fatalf("Runtime failed: %v", err)
	}
	if got.PreferredBucket != models.RuntimeEpic {
		t.Errorf("PreferredBucket = %s, want Epic via fallback", got.PreferredBucket)
	}
}

func TestRuntimeEmpty(t *testing.T) {
	store := newMockStore()
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Runtime(context.Background(), false)
	if err != nil {
		t.Fatalf("Runtime failed: %v", err)
	}
	if got.PreferredBucket != "" || len(got.Buckets) != 0 {
		t.Errorf("empty collection produced %+v, want zero analysis", got)
	}
}

func TestCastAnalysis(t *testing.T) {
	store := newMockStore()
	store.personStats[models.RoleActor] = []models.PersonStat{
		{Name: "Frances McDormand", Count: 3, AverageRating: 9},
		{Name: "Steve Buscemi", Count: 2, AverageRating: 8},
	}
	store.personStats[models.RoleDirector] = []models.PersonStat{
		{Name: "Joel Coen", Count: 2, AverageRating: 9.5},
	}
	store.castNames = 40
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Cast(context.Background(), false)
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}

	if len(got.TopActors) != 2 || got.TopActors[0].Name != "Frances McDormand" {
		t.Errorf("TopActors = %v, want Frances McDormand first", got.TopActors)
	}
	if len(got.TopDirectors) != 1 || got.TopDirectors[0].Name != "Joel Coen" {
		t.Errorf("TopDirectors = %v, want Joel Coen", got.TopDirectors)
	}
	if got.TotalPeople != 40 {
		t.Errorf("TotalPeople = %d, want 40", got.TotalPeople)
	}
	// Default thresholds flow through to the store query.
	if store.lastPersonMin != 2 || store.lastPersonLimit != 10 {
		t.Errorf("person query used min %d limit %d, want 2 and 10", store.lastPersonMin, store.lastPersonLimit)
	}

	wantInsights := []string{
		"Your favorite actor is Frances McDormand with an average rating of 9/10 across 3 movies.",
		"Your favorite director is Joel Coen with an average rating of 9.5/10 across 2 movies.",
	}
	insights := store.prefs[models.AnalysisCast].Insights
	for i, want := range wantInsights {
		if insights[i] != want {
			t.Errorf("insight[%d] = %q, want %q", i, insights[i], want)
		}
	}
}

func TestCastNoQualifiers(t *testing.T) {
	store := newMockStore()
	store.castNames = 12
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Cast(context.Background(), false)
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if got.TotalPeople != 12 {
		t.Errorf("TotalPeople = %d, want 12", got.TotalPeople)
	}
	insights := store.prefs[models.AnalysisCast].Insights
	if len(insights) != 1 || insights[0] != "No actor or director appears in at least 2 rated movies yet." {
		t.Errorf("insights = %v, want the below-threshold message", insights)
	}
}

func TestPosterStyleAnalysis(t *testing.T) {
	store := newMockStore()
	store.posterCount = 12
	store.colorStats = []models.ColorStat{{Color: "#101010", Count: 5, AverageRating: 8.4}}
	store.styleStats = []models.StyleStat{
		{Tag: "dark", Count: 6, AverageRating: 8.2},
		{Tag: "high-contrast", Count: 4, AverageRating: 8},
	}
	store.brightness = []models.StyleStat{
		{Tag: "dark", Count: 7, AverageRating: 8.5},
		{Tag: "bright", Count: 3, AverageRating: 6},
	}
	store.contrast = []models.StyleStat{
		{Tag: "high", Count: 6, AverageRating: 8.3},
		{Tag: "medium", Count: 4, AverageRating: 7},
	}
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.PosterStyle(context.Background(), false)
	if err != nil {
		t.Fatalf("PosterStyle failed: %v", err)
	}

	if got.AnalyzedPosters != 12 {
		t.Errorf("AnalyzedPosters = %d, want 12", got.AnalyzedPosters)
	}
	if got.BrightnessPreference != "dark" || got.ContrastPreference != "high" {
		t.Errorf("preferences = %s/%s, want dark/high", got.BrightnessPreference, got.ContrastPreference)
	}
	if len(got.CommonColors) != 1 || got.CommonColors[0].Color != "#101010" {
		t.Errorf("CommonColors = %v", got.CommonColors)
	}

	wantInsights := []string{
		"Analyzed 12 posters from your collection.",
		"You rate dark posters with high contrast highest.",
		"The most common style across your posters is dark.",
	}
	insights := store.prefs[models.AnalysisPosterStyle].Insights
	if len(insights) != len(wantInsights) {
		t.Fatalf("insights = %v, want %v", insights, wantInsights)
	}
	for i, want := range wantInsights {
		if insights[i] != want {
			t.Errorf("insight[%d] = %q, want %q", i, insights[i], want)
		}
	}
}

func TestPosterStyleNoPosters(t *testing.T) {
	store := newMockStore()
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.PosterStyle(context.Background(), false)
	if err != nil {
		t.Fatalf("PosterStyle failed: %v", err)
	}
	if got.BrightnessPreference != "unknown" || got.ContrastPreference != "unknown" {
		t.Errorf("preferences = %s/%s, want unknown/unknown", got.BrightnessPreference, got.ContrastPreference)
	}
	if store.colorCalls != 0 {
		t.Errorf("color stats queried %d times with no posters, want 0", store.colorCalls)
	}
	insights := store.prefs[models.AnalysisPosterStyle].Insights
	if len(insights) != 1 || insights[0] != "No poster data available." {
		t.Errorf("insights = %v, want the no-data message", insights)
	}
}
