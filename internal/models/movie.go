// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package models

import (
	"time"
)

// Movie is the core database model: one row per movie the user has rated,
// keyed by IMDb ID ("tt" prefix, e.g. "tt0111161").
//
// Optional fields are pointers; a nil value means the IMDb export or the
// enrichment source did not provide it.
//
// Genres is stored as a comma-separated string in DuckDB and split at the
// storage boundary, so the rest of the application always sees a slice.
type Movie struct {
	ImdbID          string    `json:"imdb_id"`
	Title           string    `json:"title"`
	Year            int       `json:"year"`
	ImdbRating      *float64  `json:"imdb_rating,omitempty"`
	ImdbVotes       *int      `json:"imdb_votes,omitempty"`
	RuntimeMinutes  *int      `json:"runtime_minutes,omitempty"`
	Genres          []string  `json:"genres"`
	Director        string    `json:"director,omitempty"`
	Plot            *string   `json:"plot,omitempty"`
	Country         *string   `json:"country,omitempty"`
	Language        *string   `json:"language,omitempty"`
	BoxOffice       *string   `json:"box_office,omitempty"`
	PosterURL       *string   `json:"poster_url,omitempty"`
	PosterLocalPath *string   `json:"poster_local_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserRating is the user's rating of one movie. Ratings come from the IMDb
// CSV export ("Your Rating" and "Date Rated" columns); each movie has at
// most one. Review is free text the export does not carry; it stays nil
// unless filled in by hand.
type UserRating struct {
	ID        int64     `json:"id"`
	ImdbID    string    `json:"imdb_id"`
	Rating    float64   `json:"rating"`
	Review    *string   `json:"review,omitempty"`
	RatedAt   time.Time `json:"rated_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Cast member roles. The importer records the first three directors as cast
// rows with RoleDirector so person lookups cover them uniformly.
const (
	RoleActor    = "actor"
	RoleDirector = "director"
	RoleWriter   = "writer"
)

// CastCredit is one person credit on a movie. Character is the played
// character and only ever set on actor credits.
type CastCredit struct {
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Character *string `json:"character,omitempty"`
}

// MovieSummary is the compact movie row returned by list operations
// (search results, filter results, person filmographies).
//
// UserRating is a pointer because a movie row can briefly exist without its
// rating while an import is in flight.
type MovieSummary struct {
	ImdbID     string   `json:"imdb_id"`
	Title      string   `json:"title"`
	Year       int      `json:"year"`
	UserRating *float64 `json:"user_rating,omitempty"`
	ImdbRating *float64 `json:"imdb_rating,omitempty"`
}

// MovieDetails is the full single-movie view: the movie row joined with the
// user's rating, the cast list, and whether a locally analyzed poster
// exists.
type MovieDetails struct {
	Movie
	UserRating *float64     `json:"user_rating,omitempty"`
	RatedAt    *time.Time   `json:"rated_at,omitempty"`
	Cast       []CastCredit `json:"cast"`
	HasPoster  bool         `json:"has_poster"`
}

// SimilarMovie is a similarity result: a movie summary plus its score under
// the requested comparison mode. Scores are comparable only within a single
// response.
type SimilarMovie struct {
	MovieSummary
	Score float64 `json:"score"`
}

// CastMemberMovie is one entry in a person's filmography: the movie summary
// plus the role the person had on it.
type CastMemberMovie struct {
	MovieSummary
	Role string `json:"role"`
}

// MovieFeatures is the denormalized row the similarity engine scores on:
// the summary fields plus the attributes the comparison modes look at.
// Cast holds credited names across every role.
type MovieFeatures struct {
	MovieSummary
	Genres   []string `json:"genres"`
	Director string   `json:"director,omitempty"`
	Cast     []string `json:"cast,omitempty"`
}

// MovieFilter holds the multi-dimension filter for collection queries.
//
// Semantics:
//   - Genres: match any listed genre (OR within the field)
//   - Range bounds: inclusive, nil means unbounded on that side
//   - ImdbRatingMin: lower bound only; there is no upper-bound use case
//   - All present conditions combine with AND
//
// SortBy accepts title, year, user_rating, imdb_rating, runtime; Order
// accepts asc or desc. Movies missing the sort field sort last in both
// directions.
type MovieFilter struct {
	Genres        []string `json:"genres,omitempty"`
	YearMin       *int     `json:"year_min,omitempty"`
	YearMax       *int     `json:"year_max,omitempty"`
	UserRatingMin *float64 `json:"user_rating_min,omitempty"`
	UserRatingMax *float64 `json:"user_rating_max,omitempty"`
	ImdbRatingMin *float64 `json:"imdb_rating_min,omitempty"`
	RuntimeMin    *int     `json:"runtime_min,omitempty"`
	RuntimeMax    *int     `json:"runtime_max,omitempty"`
	SortBy        string   `json:"sort_by,omitempty"`
	Order         string   `json:"order,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}
