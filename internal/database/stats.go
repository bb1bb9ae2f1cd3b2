// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// GetMovieStats returns aggregate statistics over the rated collection. An
// empty collection yields the zero value of every field, never an error.
// The mean rounds to one decimal place.
func (db *DB) GetMovieStats(ctx context.Context) (*models.MovieStats, error) {
	start := time.Now()
	stats := &models.MovieStats{}

	var avg float64
	ratingQuery := `
		SELECT COUNT(r.id),
			COALESCE(AVG(r.rating), 0),
			COALESCE(MIN(r.rating), 0),
			COALESCE(MAX(r.rating), 0),
			COUNT(DISTINCT m.year),
			COALESCE(MIN(m.year), 0),
			COALESCE(MAX(m.year), 0)
		FROM user_ratings r
		JOIN movies m ON m.imdb_id = r.imdb_id`
	if err := db.queryRowWithContext(ctx, ratingQuery, nil,
		&stats.TotalMovies, &avg, &stats.MinRating, &stats.MaxRating,
		&stats.DistinctYears, &stats.EarliestYear, &stats.LatestYear); err != nil {
		metrics.RecordDBQuery("stats", "user_ratings", time.Since(start), err)
		return nil, fmt.Errorf("failed to query rating stats: %w", err)
	}
	stats.AverageRating = math.Round(avg*10) / 10

	genreQuery := `SELECT COUNT(*) FROM movies WHERE genres IS NOT NULL AND genres <> ''`
	if err := db.queryRowWithContext(ctx, genreQuery, nil, &stats.MoviesWithGenres); err != nil {
		metrics.RecordDBQuery("stats", "movies", time.Since(start), err)
		return nil, fmt.Errorf("failed to query genre count: %w", err)
	}

	castQuery := `SELECT COUNT(DISTINCT name) FROM cast_members`
	if err := db.queryRowWithContext(ctx, castQuery, nil, &stats.UniqueCastMembers); err != nil {
		metrics.RecordDBQuery("stats", "cast_members", time.Since(start), err)
		return nil, fmt.Errorf("failed to query cast count: %w", err)
	}

	metrics.RecordDBQuery("stats", "movies", time.Since(start), nil)
	return stats, nil
}
