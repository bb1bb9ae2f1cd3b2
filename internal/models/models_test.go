// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestImportRunProgress(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		processed int
		want      float64
	}{
		{"zero total", 0, 10, 0},
		{"negative total", -5, 10, 0},
		{"start", 200, 0, 0},
		{"half", 200, 100, 50},
		{"third rounds to two decimals", 3, 1, 33.33},
		{"two thirds", 3, 2, 66.67},
		{"complete", 150, 150, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ImportRun{TotalRows: tt.total, ProcessedRows: tt.processed}
			if got := r.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImportRunActive(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{ImportPending, true},
		{ImportRunning, true},
		{ImportCompleted, false},
		{ImportFailed, false},
	}
	for _, tt := range tests {
		r := &ImportRun{Status: tt.status}
		if got := r.Active(); got != tt.want {
			t.Errorf("Active() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidAnalysisType(t *testing.T) {
	for _, known := range AnalysisTypes {
		if !ValidAnalysisType(known) {
			t.Errorf("ValidAnalysisType(%q) = false, want true", known)
		}
	}
	for _, bad := range []string{"", "mood", "GENRES", "poster"} {
		if ValidAnalysisType(bad) {
			t.Errorf("ValidAnalysisType(%q) = true, want false", bad)
		}
	}
}

func TestMovieDetailsJSON(t *testing.T) {
	rating := 9.0
	imdb := 9.3
	ratedAt := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	details := MovieDetails{
		Movie: Movie{
			ImdbID: "tt0111161",
			Title:  "The Shawshank Redemption",
			Year:   1994,
			Genres: []string{"Drama"},
		},
		UserRating: &rating,
		RatedAt:    &ratedAt,
		Cast: []CastCredit{
			{Name: "Morgan Freeman", Role: RoleActor},
			{Name: "Frank Darabont", Role: RoleDirector},
		},
		HasPoster: false,
	}
	details.ImdbRating = &imdb

	data, err := json.Marshal(details)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	s := string(data)

	// Embedded Movie fields flatten into the top-level object.
	for _, want := range []string{
		`"imdb_id":"tt0111161"`,
		`"user_rating":9`,
		`"imdb_rating":9.3`,
		`"has_poster":false`,
		`"role":"director"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("marshaled details missing %s: %s", want, s)
		}
	}
	// Nil optional fields are omitted entirely.
	for _, banned := range []string{"imdb_votes", "runtime_minutes", "poster_url"} {
		if strings.Contains(s, banned) {
			t.Errorf("marshaled details should omit %s: %s", banned, s)
		}
	}
}

func TestAPIResponseErrorShape(t *testing.T) {
	resp := APIResponse{
		Status: "error",
		Error: &APIError{
			Code:    "AMBIGUOUS_REFERENCE",
			Message: `title "Robin Hood" matches multiple movies`,
			Details: map[string]any{
				"candidates": []string{"tt0955308", "tt4532826"},
			},
		},
		Metadata: Metadata{Timestamp: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded["status"] != "error" {
		t.Errorf("status = %v, want error", decoded["status"])
	}
	errObj, ok := decoded["error"].(map[string]any)
	if !ok {
		t.Fatalf("error field missing or wrong type: %v", decoded["error"])
	}
	if errObj["code"] != "AMBIGUOUS_REFERENCE" {
		t.Errorf("error.code = %v, want AMBIGUOUS_REFERENCE", errObj["code"])
	}
}

func TestMovieSummaryOmitsNilRatings(t *testing.T) {
	data, err := json.Marshal(MovieSummary{ImdbID: "tt0050083", Title: "12 Angry Men", Year: 1957})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if strings.Contains(string(data), "user_rating") || strings.Contains(string(data), "imdb_rating") {
		t.Errorf("nil ratings should be omitted: %s", data)
	}
}
