// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package models

// MovieStats holds aggregate statistics over the whole collection.
//
// AverageRating is rounded to one decimal place. An empty collection
// returns the zero value of every field rather than an error, so clients
// can render an empty-state dashboard without special-casing.
type MovieStats struct {
	TotalMovies       int     `json:"total_movies"`
	AverageRating     float64 `json:"average_rating"`
	MinRating         float64 `json:"min_rating"`
	MaxRating         float64 `json:"max_rating"`
	DistinctYears     int     `json:"distinct_years"`
	EarliestYear      int     `json:"earliest_year"`
	LatestYear        int     `json:"latest_year"`
	MoviesWithGenres  int     `json:"movies_with_genres"`
	UniqueCastMembers int     `json:"unique_cast_members"`
}
