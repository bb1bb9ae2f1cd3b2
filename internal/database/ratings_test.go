// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package database

import (
	"context"
	"testing"
	"time"

	"github.com/danw628/cinelog/internal/models"
)

func ratingIDs(rows []models.RatingRow) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ImdbID)
	}
	return ids
}

func TestCreateRatingAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedCollection(t, db, []seedMovie{
		{id: "tt0110912", title: "Pulp Fiction", year: 1994},
	})

	ratedAt := time.Date(2025, 3, 14, 20, 30, 0, 0, time.UTC)
	review := "Still holds up."
	err := db.CreateRating(ctx, &models.UserRating{
		ImdbID:  "tt0110912",
		Rating:  9,
		Review:  &review,
		RatedAt: ratedAt,
	})
	if err != nil {
		t.Fatalf("CreateRating failed: %v", err)
	}

	rating, err := db.GetRatingForMovie(ctx, "tt0110912")
	if err != nil {
		t.Fatalf("GetRatingForMovie failed: %v", err)
	}
	if rating == nil {
		t.Fatal("Expected rating, got nil")
	}
	if rating.Rating != 9 {
		t.Errorf("Rating = %v, want 9", rating.Rating)
	}
	if rating.Review == nil || *rating.Review != review {
		t.Errorf("Review = %v, want %q", rating.Review, review)
	}
	if !rating.RatedAt.Equal(ratedAt) {
		t.Errorf("RatedAt = %v, want %v", rating.RatedAt, ratedAt)
	}

	missing, err := db.GetRatingForMovie(ctx, "tt9999999")
	if err != nil {
		t.Fatalf("GetRatingForMovie for unrated movie failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unrated movie, got %+v", missing)
	}
}

func TestListRatingsDefaultOrderAndPaging(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	seedCollection(t, db, []seedMovie{
		{id: "tt0000001", title: "Oldest", year: 2000, rating: fptr(7), ratedAt: base},
		{id: "tt0000002", title: "Middle", year: 2001, rating: fptr(8), ratedAt: base.AddDate(0, 1, 0)},
		{id: "tt0000003", title: "Newest", year: 2002, rating: fptr(9), ratedAt: base.AddDate(0, 2, 0)},
	})

	// Default view: most recently rated first.
	page, err := db.ListRatings(context.Background(), models.RatingsFilter{Limit: 10})
	if err != nil {
		t.Fatalf("ListRatings failed: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("Total = %d, want 3", page.Total)
	}
	want := []string{"tt0000003", "tt0000002", "tt0000001"}
	got := ratingIDs(page.Ratings)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Default order = %v, want %v", got, want)
		}
	}

	// Skip/limit paginate without changing Total.
	page, err = db.ListRatings(context.Background(), models.RatingsFilter{Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("ListRatings paged failed: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("Paged Total = %d, want 3", page.Total)
	}
	if len(page.Ratings) != 1 || page.Ratings[0].ImdbID != "tt0000002" {
		t.Errorf("Page skip=1 limit=1 = %v, want [tt0000002]", ratingIDs(page.Ratings))
	}
	if page.Skip != 1 || page.Limit != 1 {
		t.Errorf("Page echo = skip %d limit %d, want 1/1", page.Skip, page.Limit)
	}

	// Skip beyond the end yields an empty page, not an error.
	page, err = db.ListRatings(context.Background(), models.RatingsFilter{Skip: 10, Limit: 5})
	if err != nil {
		t.Fatalf("ListRatings past end failed: %v", err)
	}
	if len(page.Ratings) != 0 || page.Total != 3 {
		t.Errorf("Past-end page = %d rows total %d, want 0 rows total 3", len(page.Ratings), page.Total)
	}
}

func TestListRatingsSortKeys(t *testing.T) {
	db := setupTestDB(t)

	seedCollection(t, db, []seedMovie{
		{id: "tt0000001", title: "Charlie", year: 2002, imdb: fptr(6.5), runtime: iptr(100), rating: fptr(7)},
		{id: "tt0000002", title: "alpha", year: 2000, imdb: fptr(8.5), runtime: iptr(120), rating: fptr(9)},
		{id: "tt0000003", title: "Bravo", year: 2001, imdb: fptr(7.5), runtime: iptr(110), rating: fptr(8)},
	})

	cases := []struct {
		sortBy string
		order  string
		want   []string
	}{
		{"rating", "desc", []string{"tt0000002", "tt0000003", "tt0000001"}},
		{"rating", "asc", []string{"tt0000001", "tt0000003", "tt0000002"}},
		// Title sorting is case-insensitive.
		{"title", "asc", []string{"tt0000002", "tt0000003", "tt0000001"}},
		{"year", "asc", []string{"tt0000002", "tt0000003", "tt0000001"}},
		{"imdb_rating", "desc", []string{"tt0000002", "tt0000003", "tt0000001"}},
		{"runtime_minutes", "asc", []string{"tt0000001", "tt0000003", "tt0000002"}},
	}
	for _, tc := range cases {
		page, err := db.ListRatings(context.Background(), models.RatingsFilter{
			SortBy: tc.sortBy,
			Order:  tc.order,
			Limit:  10,
		})
		if err != nil {
			t.Fatalf("ListRatings sort=%s order=%s failed: %v", tc.sortBy, tc.order, err)
		}
		got := ratingIDs(page.Ratings)
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("Sort %s %s = %v, want %v", tc.sortBy, tc.order, got, tc.want)
				break
			}
		}
	}
}

func TestListRatingsSearchAndFilters(t *testing.T) {
	db := setupTestDB(t)

	seedCollection(t, db, []seedMovie{
		{id: "tt0000001", title: "The Dark Knight", year: 2008, genres: []string{"Action", "Crime"},
			imdb: fptr(9.0), runtime: iptr(152), rating: fptr(10)},
		{id: "tt0000002", title: "Dark City", year: 1998, genres: []string{"Sci-Fi"},
			imdb: fptr(7.6), runtime: iptr(100), rating: fptr(8)},
		{id: "tt0000003", title: "The Matrix", year: 1999, genres: []string{"Action", "Sci-Fi"},
			imdb: fptr(8.7), runtime: iptr(136), rating: fptr(9)},
	})

	// Title substring search, case-insensitive.
	page, err := db.ListRatings(context.Background(), models.RatingsFilter{Search: "dark", Limit: 10})
	if err != nil {
		t.Fatalf("ListRatings search failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Search 'dark' Total = %d, want 2", page.Total)
	}

	// Genre OR group combined with a rating bound.
	page, err = db.ListRatings(context.Background(), models.RatingsFilter{
		Genres:    []string{"Action"},
		RatingMin: fptr(9),
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("ListRatings filtered failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Action with rating >= 9 Total = %d, want 2", page.Total)
	}
	for _, r := range page.Ratings {
		if r.Rating < 9 {
			t.Errorf("Row %s violates rating bound: %v", r.ImdbID, r.Rating)
		}
	}

	// Year and runtime bounds stack with the rest.
	page, err = db.ListRatings(context.Background(), models.RatingsFilter{
		YearMin:    iptr(1998),
		YearMax:    iptr(1999),
		RuntimeMin: iptr(120),
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("ListRatings bounds failed: %v", err)
	}
	if page.Total != 1 || page.Ratings[0].ImdbID != "tt0000003" {
		t.Errorf("Stacked bounds = %v, want [tt0000003]", ratingIDs(page.Ratings))
	}

	// A filter that matches nothing gives an empty page with Total 0.
	page, err = db.ListRatings(context.Background(), models.RatingsFilter{Search: "nothing here", Limit: 10})
	if err != nil {
		t.Fatalf("ListRatings no-match failed: %v", err)
	}
	if page.Total != 0 || len(page.Ratings) != 0 {
		t.Errorf("No-match page = %d rows total %d, want empty", len(page.Ratings), page.Total)
	}
}

func TestListRatingsRowShape(t *testing.T) {
	db := setupTestDB(t)

	seedCollection(t, db, []seedMovie{
		{id: "tt0137523", title: "Fight Club", year: 1999, genres: []string{"Drama"},
			director: "David Fincher", imdb: fptr(8.8), runtime: iptr(139), rating: fptr(9)},
	})

	page, err := db.ListRatings(context.Background(), models.RatingsFilter{Limit: 10})
	if err != nil {
		t.Fatalf("ListRatings failed: %v", err)
	}
	if len(page.Ratings) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(page.Ratings))
	}

	row := page.Ratings[0]
	if row.ID == 0 {
		t.Error("Rating ID should be assigned by the sequence")
	}
	if row.Title != "Fight Club" || row.Year != 1999 {
		t.Errorf("Row carries %s (%d), want Fight Club (1999)", row.Title, row.Year)
	}
	if row.Director != "David Fincher" {
		t.Errorf("Director = %v, want David Fincher", row.Director)
	}
	if row.ImdbRating == nil || *row.ImdbRating != 8.8 {
		t.Errorf("ImdbRating = %v, want 8.8", row.ImdbRating)
	}
	if row.RuntimeMinutes == nil || *row.RuntimeMinutes != 139 {
		t.Errorf("RuntimeMinutes = %v, want 139", row.RuntimeMinutes)
	}
	if len(row.Genres) != 1 || row.Genres[0] != "Drama" {
		t.Errorf("Genres = %v, want [Drama]", row.Genres)
	}
}

func TestCountRatings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	count, err := db.CountRatings(ctx)
	if err != nil {
		t.Fatalf("CountRatings failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Empty collection CountRatings = %d, want 0", count)
	}

	seedCollection(t, db, []seedMovie{
		{id: "tt0000001", title: "A", year: 2000, rating: fptr(7)},
		{id: "tt0000002", title: "B", year: 2001, rating: fptr(8)},
		{id: "tt0000003", title: "C", year: 2002}, // in catalog but unrated
	})

	count, err = db.CountRatings(ctx)
	if err != nil {
		t.Fatalf("CountRatings failed: %v", err)
	}
	if count != 2 {
		t.Errorf("CountRatings = %d, want 2", count)
	}
}
