// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package models

import (
	"time"
)

// RatingRow is one entry in the ratings listing: the rating joined with the
// movie fields a list view needs.
type RatingRow struct {
	ID             int64     `json:"id"`
	ImdbID         string    `json:"imdb_id"`
	Rating         float64   `json:"rating"`
	Review         *string   `json:"review,omitempty"`
	RatedAt        time.Time `json:"rated_at"`
	Title          string    `json:"title"`
	Year           int       `json:"year"`
	ImdbRating     *float64  `json:"imdb_rating,omitempty"`
	RuntimeMinutes *int      `json:"runtime_minutes,omitempty"`
	Genres         []string  `json:"genres"`
	Director       string    `json:"director,omitempty"`
	PosterURL      *string   `json:"poster_url,omitempty"`
}

// RatingsPage wraps a ratings listing with offset pagination metadata.
// Total is the count matching the filter before skip/limit are applied.
type RatingsPage struct {
	Ratings []RatingRow `json:"ratings"`
	Total   int         `json:"total"`
	Skip    int         `json:"skip"`
	Limit   int         `json:"limit"`
}

// RatingsFilter holds pagination, sorting, and filtering for the ratings
// listing endpoint.
//
// Skip/Limit are offset pagination; Search matches movie titles
// case-insensitively; the range bounds are inclusive and nil means
// unbounded. SortBy accepts rating, rated_at, title, year, imdb_rating,
// runtime_minutes.
type RatingsFilter struct {
	Skip          int      `json:"skip"`
	Limit         int      `json:"limit"`
	SortBy        string   `json:"sort_by,omitempty"`
	Order         string   `json:"order,omitempty"`
	Search        string   `json:"search,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	YearMin       *int     `json:"year_min,omitempty"`
	YearMax       *int     `json:"year_max,omitempty"`
	RatingMin     *float64 `json:"rating_min,omitempty"`
	RatingMax     *float64 `json:"rating_max,omitempty"`
	ImdbRatingMin *float64 `json:"imdb_rating_min,omitempty"`
	ImdbRatingMax *float64 `json:"imdb_rating_max,omitempty"`
	RuntimeMin    *int     `json:"runtime_min,omitempty"`
	RuntimeMax    *int     `json:"runtime_max,omitempty"`
}
