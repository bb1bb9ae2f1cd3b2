// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/danw628/cinelog/internal/models"
)

// fullStore seeds every aggregate the insights report draws from.
func fullStore() *mockStore {
	store := newMockStore()
	store.movieStats = &models.MovieStats{TotalMovies: 20, AverageRating: 7.7, EarliestYear: 1972, LatestYear: 2008}
	store.ratingCount = 20
	store.genreStats = genreFixtures()
	store.decadeStats = []models.DecadeStat{
		{Decade: 1970, Count: 3, AverageRating: 7},
		{Decade: 1990, Count: 5, AverageRating: 8.8},
		{Decade: 2000, Count: 2, AverageRating: 8.8},
	}
	store.runtimeBuckets = []models.RuntimeBucketStat{
		{Bucket: models.RuntimeStandard, Range: "90-119 min", Count: 6, AverageRating: 7.5},
		{Bucket: models.RuntimeLong, Range: "120-149 min", Count: 3, AverageRating: 8.2},
	}
	store.averageRuntime = 112.5
	store.personStats[models.RoleActor] = []models.PersonStat{
		{Name: "Frances McDormand", Count: 3, AverageRating: 9},
	}
	store.personStats[models.RoleDirector] = []models.PersonStat{
		{Name: "Joel Coen", Count: 2, AverageRating: 9.5},
	}
	store.castNames = 40
	return store
}

func TestInsightsReport(t *testing.T) {
	store := fullStore()
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Insights(context.Background(), false)
	if err != nil {
		t.Fatalf("Insights failed: %v", err)
	}

	if got.TotalMovies != 20 || got.AverageRating != 7.7 {
		t.Errorf("headline = %d movies at %v, want 20 at 7.7", got.TotalMovies, got.AverageRating)
	}

	want := []string{
		"You have rated 20 movies with an average score of 7.7/10.",
		"You gravitate towards Crime, Drama, and Action films.",
		"You show a strong preference for 1990s cinema.",
		"You favor long movies (120-149 min).",
		"Films by Joel Coen rank among your favorites.",
		"You rate movies featuring Frances McDormand highly.",
		"Seek out more Crime films.",
		"Explore more work by Joel Coen.",
	}
	if len(got.Insights) != len(want) {
		t.Fatalf("insights = %v, want %v", got.Insights, want)
	}
	for i := range want {
		if got.Insights[i] != want[i] {
			t.Errorf("insight[%d] = %q, want %q", i, got.Insights[i], want[i])
		}
	}

	// Building the report persists the sub-analyses it generated.
	for _, sub := range []string{
		models.AnalysisGenres, models.AnalysisYears,
		models.AnalysisRuntime, models.AnalysisCast, models.AnalysisInsights,
	} {
		if store.prefs[sub] == nil {
			t.Errorf("no %s record persisted while building insights", sub)
		}
	}
}

func TestInsightsReusesStoredSubAnalyses(t *testing.T) {
	store := fullStore()
	a := newTestAnalyzer(store, &mockRecommender{})
	ctx := context.Background()

	if _, err := a.Genres(ctx, false); err != nil {
		t.Fatalf("Genres failed: %v", err)
	}
	builds := store.genreCalls

	if _, err := a.Insights(ctx, false); err != nil {
		t.Fatalf("Insights failed: %v", err)
	}
	if store.genreCalls != builds {
		t.Errorf("insights rebuilt the genre analysis (%d builds), want stored copy reused", store.genreCalls)
	}
}

func TestInsightsEmptyCollection(t *testing.T) {
	store := newMockStore()
	a := newTestAnalyzer(store, &mockRecommender{})

	got, err := a.Insights(context.Background(), false)
	if err != nil {
		t.Fatalf("Insights failed: %v", err)
	}
	if got.TotalMovies != 0 {
		t.Errorf("TotalMovies = %d, want 0", got.TotalMovies)
	}
	if len(got.Insights) != 1 || got.Insights[0] != "No ratings in the collection yet." {
		t.Errorf("insights = %v, want the empty-collection message", got.Insights)
	}
}

func sampleHighlights(n int) []models.Highlight {
	hs := make([]models.Highlight, 0, n)
	for i := 0; i < n; i++ {
		hs = append(hs, models.Highlight{
			SimilarMovie: models.SimilarMovie{
				MovieSummary: models.MovieSummary{ImdbID: fmt.Sprintf("tt000000%d", i+1), Title: "Highlight"},
				Score:        float64(n - i),
			},
			Reasons: []string{"Matches favorite genre: Crime"},
		})
	}
	return hs
}

func TestHighlightsProfileAndDelegation(t *testing.T) {
	store := fullStore()
	rec := &mockRecommender{highlights: sampleHighlights(3)}
	a := newTestAnalyzer(store, rec)

	got, err := a.Highlights(context.Background(), 0, false)
	if err != nil {
		t.Fatalf("Highlights failed: %v", err)
	}

	// Default limit is twice the list length.
	if rec.lastLimit != 10 {
		t.Errorf("engine limit = %d, want 10", rec.lastLimit)
	}
	wantGenres := []string{"Crime", "Drama", "Action", "Horror"}
	if len(rec.lastProfile.Genres) != len(wantGenres) {
		t.Fatalf("profile genres = %v, want %v", rec.lastProfile.Genres, wantGenres)
	}
	for i, want := range wantGenres {
		if rec.lastProfile.Genres[i] != want {
			t.Errorf("profile genre[%d] = %s, want %s", i, rec.lastProfile.Genres[i], want)
		}
	}
	if len(rec.lastProfile.Directors) != 1 || rec.lastProfile.Directors[0] != "Joel Coen" {
		t.Errorf("profile directors = %v, want Joel Coen", rec.lastProfile.Directors)
	}
	if len(rec.lastProfile.Actors) != 1 || rec.lastProfile.Actors[0] != "Frances McDormand" {
		t.Errorf("profile actors = %v, want Frances McDormand", rec.lastProfile.Actors)
	}

	if len(got.Highlights) != 3 {
		t.Errorf("got %d highlights, want 3", len(got.Highlights))
	}
	if len(got.ProfileGenres) != len(wantGenres) || got.ProfileGenres[0] != "Crime" {
		t.Errorf("ProfileGenres = %v, want %v", got.ProfileGenres, wantGenres)
	}

	insights := store.prefs[models.AnalysisHighlights].Insights
	wantInsights := []string{
		"Highlights are scored against your favorite genres: Crime, Drama, Action, Horror.",
		"Showing your top 3 profile matches.",
	}
	for i, want := range wantInsights {
		if insights[i] != want {
			t.Errorf("insight[%d] = %q, want %q", i, insights[i], want)
		}
	}
}

func TestHighlightsServedFromStore(t *testing.T) {
	store := fullStore()
	stored := &models.HighlightsAnalysis{
		ProfileGenres: []string{"Crime"},
		Highlights:    sampleHighlights(3),
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	store.prefs[models.AnalysisHighlights] = &models.PreferenceRecord{
		AnalysisType: models.AnalysisHighlights,
		Data:         raw,
		Insights:     []string{"stored"},
		GeneratedAt:  time.Now(),
	}
	rec := &mockRecommender{highlights: sampleHighlights(5)}
	a := newTestAnalyzer(store, rec)
	ctx := context.Background()

	// A request within the stored length truncates the stored list.
	got, err := a.Highlights(ctx, 2, false)
	if err != nil {
		t.Fatalf("Highlights failed: %v", err)
	}
	if len(got.Highlights) != 2 {
		t.Errorf("got %d highlights, want 2 from the stored record", len(got.Highlights))
	}
	if rec.calls != 0 {
		t.Errorf("engine called %d times for a stored-record hit, want 0", rec.calls)
	}

	// A longer request regenerates.
	got, err = a.Highlights(ctx, 5, false)
	if err != nil {
		t.Fatalf("Highlights failed: %v", err)
	}
	if rec.calls != 1 {
		t.Errorf("engine called %d times for a longer request, want 1", rec.calls)
	}
	if len(got.Highlights) != 5 {
		t.Errorf("got %d highlights after regeneration, want 5", len(got.Highlights))
	}

	// Force always regenerates.
	if _, err := a.Highlights(ctx, 2, true); err != nil {
		t.Fatalf("forced Highlights failed: %v", err)
	}
	if rec.calls != 2 {
		t.Errorf("engine called %d times after force, want 2", rec.calls)
	}
}

func TestHighlightsEmptyProfile(t *testing.T) {
	store := newMockStore()
	rec := &mockRecommender{highlights: sampleHighlights(3)}
	a := newTestAnalyzer(store, rec)

	got, err := a.Highlights(context.Background(), 0, false)
	if err != nil {
		t.Fatalf("Highlights failed: %v", err)
	}
	if rec.calls != 0 {
		t.Errorf("engine called %d times with an empty profile, want 0", rec.calls)
	}
	if len(got.Highlights) != 0 || len(got.ProfileGenres) != 0 {
		t.Errorf("got %+v, want an empty analysis", got)
	}
	insights := store.prefs[models.AnalysisHighlights].Insights
	if len(insights) != 1 || insights[0] != "Not enough rating data to build a preference profile yet." {
		t.Errorf("insights = %v, want the no-profile message", insights)
	}
}

func TestHighlightsEngineError(t *testing.T) {
	store := fullStore()
	cause := errors.New("snapshot failed")
	a := newTestAnalyzer(store, &mockRecommender{err: cause})

	_, err := a.Highlights(context.Background(), 0, false)
	if !errors.Is(err, cause) {
		t.Fatalf("Highlights error = %v, want wrapped engine failure", err)
	}
	if store.prefs[models.AnalysisHighlights] != nil {
		t.Error("failed generation persisted a highlights record")
	}
}

func TestJoinAnd(t *testing.T) {
	cases := []struct {
		items []string
		want  string
	}{
		{nil, ""},
		{[]string{"Drama"}, "Drama"},
		{[]string{"Drama", "Crime"}, "Drama and Crime"},
		{[]string{"Drama", "Crime", "Thriller"}, "Drama, Crime, and Thriller"},
	}
	for _, tc := range cases {
		if got := joinAnd(tc.items); got != tc.want {
			t.Errorf("joinAnd(%v) = %q, want %q", tc.items, got, tc.want)
		}
	}
}
