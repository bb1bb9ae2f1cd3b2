// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package database

import (
	"context"
	"testing"

	"github.com/goccy/go-json"

	"github.com/danw628/cinelog/internal/models"
)

func TestPosterAnalysisRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedCollection(t, db, []seedMovie{
		{id: "tt0133093", title: "The Matrix", year: 1999},
	})

	analysis := &models.PosterAnalysis{
		ImdbID:          "tt0133093",
		DominantColors:  []string{"#0a1f0a", "#1b3a1b", "#000000"},
		BrightnessScore: 0.21,
		ContrastScore:   0.68,
		TextRatio:       0.12,
		FaceCount:       2,
		StyleTags:       []string{"dark", "high-contrast"},
	}
	if err := db.UpsertPosterAnalysis(ctx, analysis); err != nil {
		t.Fatalf("UpsertPosterAnalysis failed: %v", err)
	}

	got, err := db.GetPosterAnalysis(ctx, "tt0133093")
	if err != nil {
		t.Fatalf("GetPosterAnalysis failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected analysis, got nil")
	}
	if got.BrightnessScore != 0.21 || got.ContrastScore != 0.68 {
		t.Errorf("Scores = %v/%v, want 0.21/0.68", got.BrightnessScore, got.ContrastScore)
	}
	if len(got.DominantColors) != 3 || got.DominantColors[0] != "#0a1f0a" {
		t.Errorf("DominantColors = %v, want 3 hex values in order", got.DominantColors)
	}
	if len(got.StyleTags) != 2 || got.FaceCount != 2 {
		t.Errorf("StyleTags/FaceCount = %v/%d, want 2 tags, 2 faces", got.StyleTags, got.FaceCount)
	}
	if got.AnalyzedAt.IsZero() {
		t.Error("AnalyzedAt should be stamped on insert")
	}

	// Re-analysis overwrites the row instead of stacking a second one.
	analysis.BrightnessScore = 0.35
	analysis.StyleTags = []string{"balanced"}
	if err := db.UpsertPosterAnalysis(ctx, analysis); err != nil {
		t.Fatalf("Second UpsertPosterAnalysis failed: %v", err)
	}
	got, err = db.GetPosterAnalysis(ctx, "tt0133093")
	if err != nil {
		t.Fatalf("GetPosterAnalysis after overwrite failed: %v", err)
	}
	if got.BrightnessScore != 0.35 || len(got.StyleTags) != 1 {
		t.Errorf("Overwrite kept stale values: %v / %v", got.BrightnessScore, got.StyleTags)
	}

	missing, err := db.GetPosterAnalysis(ctx, "tt9999999")
	if err != nil {
		t.Fatalf("GetPosterAnalysis for unanalyzed movie failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unanalyzed movie, got %+v", missing)
	}
}

func TestUpdateMoviePosterProgressive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedCollection(t, db, []seedMovie{
		{id: "tt0110912", title: "Pulp Fiction", year: 1994},
	})

	// The URL arrives first, from metadata lookup.
	url := "https://image.tmdb.org/t/p/w500/pulp.jpg"
	if err := db.UpdateMoviePoster(ctx, "tt0110912", sptr(url), nil); err != nil {
		t.Fatalf("UpdateMoviePoster with URL failed: %v", err)
	}
	movie, err := db.GetMovieByID(ctx, "tt0110912")
	if err != nil {
		t.Fatalf("GetMovieByID failed: %v", err)
	}
	if movie.PosterURL == nil || *movie.PosterURL != url {
		t.Errorf("PosterURL = %v, want %s", movie.PosterURL, url)
	}
	if movie.PosterLocalPath != nil {
		t.Errorf("PosterLocalPath = %v, want nil before download", movie.PosterLocalPath)
	}

	// The download completes later; the URL must survive the second write.
	local := "posters/tt0110912.jpg"
	if err := db.UpdateMoviePoster(ctx, "tt0110912", nil, sptr(local)); err != nil {
		t.Fatalf("UpdateMoviePoster with local path failed: %v", err)
	}
	movie, err = db.GetMovieByID(ctx, "tt0110912")
	if err != nil {
		t.Fatalf("GetMovieByID failed: %v", err)
	}
	if movie.PosterURL == nil || *movie.PosterURL != url {
		t.Errorf("PosterURL after partial update = %v, want %s preserved", movie.PosterURL, url)
	}
	if movie.PosterLocalPath == nil || *movie.PosterLocalPath != local {
		t.Errorf("PosterLocalPath = %v, want %s", movie.PosterLocalPath, local)
	}
}

func TestPosterWorkQueues(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedCollection(t, db, []seedMovie{
		{id: "tt0000001", title: "A", year: 2000},
		{id: "tt0000002", title: "B", year: 2001},
		{id: "tt0000003", title: "C", year: 2002},
	})

	// Everything needs a poster initially.
	pending, err := db.ListMoviesWithoutPoster(ctx, 10)
	if err != nil {
		t.Fatalf("ListMoviesWithoutPoster failed: %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("Without poster = %d movies, want 3", len(pending))
	}

	// Nothing is analyzable until a poster file exists locally.
	analyzable, err := db.ListMoviesNeedingPosterAnalysis(ctx, 10)
	if err != nil {
		t.Fatalf("ListMoviesNeedingPosterAnalysis failed: %v", err)
	}
	if len(analyzable) != 0 {
		t.Errorf("Needing analysis = %d movies, want 0 with no local files", len(analyzable))
	}

	if err := db.UpdateMoviePoster(ctx, "tt0000001", sptr("https://example.com/a.jpg"), sptr("posters/tt0000001.jpg")); err != nil {
		t.Fatalf("UpdateMoviePoster failed: %v", err)
	}

	pending, err = db.ListMoviesWithoutPoster(ctx, 10)
	if err != nil {
		t.Fatalf("ListMoviesWithoutPoster failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("Without poster after one download = %d, want 2", len(pending))
	}

	analyzable, err = db.ListMoviesNeedingPosterAnalysis(ctx, 10)
	if err != nil {
		t.Fatalf("ListMoviesNeedingPosterAnalysis failed: %v", err)
	}
	if len(analyzable) != 1 || analyzable[0].ImdbID != "tt0000001" {
		t.Errorf("Needing analysis = %v, want only tt0000001", analyzable)
	}

	// Analyzing drains the queue.
	if err := db.UpsertPosterAnalysis(ctx, &models.PosterAnalysis{
		ImdbID:          "tt0000001",
		DominantColors:  []string{"#ffffff"},
		BrightnessScore: 0.9,
		StyleTags:       []string{"bright"},
	}); err != nil {
		t.Fatalf("UpsertPosterAnalysis failed: %v", err)
	}
	analyzable, err = db.ListMoviesNeedingPosterAnalysis(ctx, 10)
	if err != nil {
		t.Fatalf("ListMoviesNeedingPosterAnalysis failed: %v", err)
	}
	if len(analyzable) != 0 {
		t.Errorf("Needing analysis after analyzing = %d, want 0", len(analyzable))
	}
}

func TestPreferenceRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	payload, err := json.Marshal(map[string]any{
		"genres": []map[string]any{
			{"genre": "Drama", "movie_count": 12, "average_rating": 8.1},
		},
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	rec := &models.PreferenceRecord{
		AnalysisType: models.AnalysisGenres,
		Data:         payload,
		Insights:     []string{"Drama dominates your highest ratings"},
	}
	if err := db.SavePreference(ctx, rec); err != nil {
		t.Fatalf("SavePreference failed: %v", err)
	}

	got, err := db.GetPreference(ctx, models.AnalysisGenres)
	if err != nil {
		t.Fatalf("GetPreference failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected preference, got nil")
	}
	if got.AnalysisType != models.AnalysisGenres {
		t.Errorf("AnalysisType = %s, want %s", got.AnalysisType, models.AnalysisGenres)
	}
	var decoded map[string]any
	if err := json.Unmarshal(got.Data, &decoded); err != nil {
		t.Fatalf("Stored data is not valid JSON: %v", err)
	}
	if len(got.Insights) != 1 {
		t.Errorf("Insights = %v, want the saved sentence", got.Insights)
	}
	if got.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be stamped")
	}

	// Regeneration replaces the cached row for that analysis type.
	rec.Insights = []string{"Updated insight"}
	if err := db.SavePreference(ctx, rec); err != nil {
		t.Fatalf("Second SavePreference failed: %v", err)
	}
	got, err = db.GetPreference(ctx, models.AnalysisGenres)
	if err != nil {
		t.Fatalf("GetPreference after overwrite failed: %v", err)
	}
	if len(got.Insights) != 1 || got.Insights[0] != "Updated insight" {
		t.Errorf("Insights after overwrite = %v, want [Updated insight]", got.Insights)
	}

	missing, err := db.GetPreference(ctx, models.AnalysisYears)
	if err != nil {
		t.Fatalf("GetPreference for missing type failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for uncached analysis, got %+v", missing)
	}
}

func TestDeletePreferences(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, at := range []string{models.AnalysisGenres, models.AnalysisYears} {
		rec := &models.PreferenceRecord{
			AnalysisType: at,
			Data:         json.RawMessage(`{}`),
		}
		if err := db.SavePreference(ctx, rec); err != nil {
			t.Fatalf("SavePreference(%s) failed: %v", at, err)
		}
	}

	if err := db.DeletePreference(ctx, models.AnalysisGenres); err != nil {
		t.Fatalf("DeletePreference failed: %v", err)
	}
	got, err := db.GetPreference(ctx, models.AnalysisGenres)
	if err != nil {
		t.Fatalf("GetPreference failed: %v", err)
	}
	if got != nil {
		t.Error("Deleted preference still present")
	}
	got, err = db.GetPreference(ctx, models.AnalysisYears)
	if err != nil {
		t.Fatalf("GetPreference failed: %v", err)
	}
	if got == nil {
		t.Error("Unrelated preference was deleted")
	}

	if err := db.DeleteAllPreferences(ctx); err != nil {
		t.Fatalf("DeleteAllPreferences failed: %v", err)
	}
	got, err = db.GetPreference(ctx, models.AnalysisYears)
	if err != nil {
		t.Fatalf("GetPreference failed: %v", err)
	}
	if got != nil {
		t.Error("DeleteAllPreferences left a row behind")
	}
}
