// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// CreateRating inserts a rating for a movie. The importer calls this only
// after confirming no rating exists; re-imports keep the original rating.
func (db *DB) CreateRating(ctx context.Context, r *models.UserRating) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `INSERT INTO user_ratings (imdb_id, rating, review, rated_at) VALUES (?, ?, ?, ?)`

	var ratedAt any
	if !r.RatedAt.IsZero() {
		ratedAt = r.RatedAt
	}

	_, err := db.conn.ExecContext(ctx, query, r.ImdbID, r.Rating, r.Review, ratedAt)
	metrics.RecordDBQuery("insert", "user_ratings", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to create rating for %s: %w", r.ImdbID, err)
	}
	return nil
}

// GetRatingForMovie returns the user's rating of a movie, or nil if the
// movie is unrated.
func (db *DB) GetRatingForMovie(ctx context.Context, imdbID string) (*models.UserRating, error) {
	start := time.Now()

	query := `SELECT id, imdb_id, rating, review, rated_at, created_at
		FROM user_ratings WHERE imdb_id = ?`

	var rating *models.UserRating
	err := db.queryAndScan(ctx, query, []any{imdbID}, func(rows *sql.Rows) error {
		var (
			r       models.UserRating
			review  sql.NullString
			ratedAt sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.ImdbID, &r.Rating, &review, &ratedAt, &r.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan rating: %w", err)
		}
		r.Review = stringPtr(review)
		if ratedAt.Valid {
			r.RatedAt = ratedAt.Time
		}
		rating = &r
		return nil
	})
	metrics.RecordDBQuery("select", "user_ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating for %s: %w", imdbID, err)
	}
	return rating, nil
}

// ratingsSortColumns whitelists sort keys for ListRatings. Values are SQL
// expressions, never user input.
var ratingsSortColumns = map[string]string{
	"rating":          "r.rating",
	"rated_at":        "r.rated_at",
	"title":           "lower(m.title)",
	"year":            "m.year",
	"imdb_rating":     "m.imdb_rating",
	"runtime_minutes": "m.runtime_minutes",
}

// buildRatingsConditions renders the filter portion of the ratings listing
// as " AND ..." clauses appended to a WHERE 1=1 base, shared by the count
// and page queries so they always agree.
func buildRatingsConditions(filter models.RatingsFilter) (string, []any) {
	query := ""
	args := []any{}

	if search := strings.TrimSpace(filter.Search); search != "" {
		query += " AND lower(m.title) LIKE ?"
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	if len(filter.Genres) > 0 {
		conditions := make([]string, 0, len(filter.Genres))
		for _, genre := range filter.Genres {
			conditions = append(conditions, "list_contains(string_split(coalesce(m.genres, ''), ','), ?)")
			args = append(args, genre)
		}
		query += " AND (" + strings.Join(conditions, " OR ") + ")"
	}
	if filter.YearMin != nil {
		query += " AND m.year >= ?"
		args = append(args, *filter.YearMin)
	}
	if filter.YearMax != nil {
		query += " AND m.year <= ?"
		args = append(args, *filter.YearMax)
	}
	if filter.RatingMin != nil {
		query += " AND r.rating >= ?"
		args = append(args, *filter.RatingMin)
	}
	if filter.RatingMax != nil {
		query += " AND r.rating <= ?"
		args = append(args, *filter.RatingMax)
	}
	if filter.ImdbRatingMin != nil {
		query += " AND m.imdb_rating >= ?"
		args = append(args, *filter.ImdbRatingMin)
	}
	if filter.ImdbRatingMax != nil {
		query += " AND m.imdb_rating <= ?"
		args = append(args, *filter.ImdbRatingMax)
	}
	if filter.RuntimeMin != nil {
		query += " AND m.runtime_minutes >= ?"
		args = append(args, *filter.RuntimeMin)
	}
	if filter.RuntimeMax != nil {
		query += " AND m.runtime_minutes <= ?"
		args = append(args, *filter.RuntimeMax)
	}

	return query, args
}

// ListRatings returns one page of the ratings listing plus the total count
// matching the filter before pagination. Default sort is rated_at
// descending, so the listing opens with the most recently rated movies.
func (db *DB) ListRatings(ctx context.Context, filter models.RatingsFilter) (*models.RatingsPage, error) {
	start := time.Now()
	conditions, args := buildRatingsConditions(filter)

	const baseFrom = ` FROM user_ratings r JOIN movies m ON m.imdb_id = r.imdb_id WHERE 1=1`

	var total int
	countQuery := `SELECT COUNT(*)` + baseFrom + conditions
	if err := db.queryRowWithContext(ctx, countQuery, args, &total); err != nil {
		metrics.RecordDBQuery("count", "user_ratings", time.Since(start), err)
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	sortColumn, ok := ratingsSortColumns[filter.SortBy]
	if !ok {
		sortColumn = ratingsSortColumns["rated_at"]
	}
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	pageQuery := `SELECT r.id, r.imdb_id, r.rating, r.review, r.rated_at,
			m.title, m.year, m.imdb_rating, m.runtime_minutes,
			coalesce(m.genres, ''), coalesce(m.director, ''), m.poster_url` +
		baseFrom + conditions +
		fmt.Sprintf(" ORDER BY %s %s NULLS LAST, r.id ASC", sortColumn, direction)

	pageArgs := append([]any{}, args...)
	if filter.Limit > 0 {
		pageQuery += " LIMIT ?"
		pageArgs = append(pageArgs, filter.Limit)
	}
	if filter.Skip > 0 {
		pageQuery += " OFFSET ?"
		pageArgs = append(pageArgs, filter.Skip)
	}

	ratings := []models.RatingRow{}
	err := db.queryAndScan(ctx, pageQuery, pageArgs, func(rows *sql.Rows) error {
		var (
			row        models.RatingRow
			review     sql.NullString
			ratedAt    sql.NullTime
			imdbRating sql.NullFloat64
			runtime    sql.NullInt64
			genres     string
			director   string
			posterURL  sql.NullString
		)
		if err := rows.Scan(&row.ID, &row.ImdbID, &row.Rating, &review, &ratedAt,
			&row.Title, &row.Year, &imdbRating, &runtime,
			&genres, &director, &posterURL); err != nil {
			return fmt.Errorf("failed to scan rating row: %w", err)
		}
		row.Review = stringPtr(review)
		if ratedAt.Valid {
			row.RatedAt = ratedAt.Time
		}
		row.ImdbRating = floatPtr(imdbRating)
		row.RuntimeMinutes = intPtr(runtime)
		row.Genres = splitList(genres)
		row.Director = director
		row.PosterURL = stringPtr(posterURL)
		ratings = append(ratings, row)
		return nil
	})
	metrics.RecordDBQuery("list", "user_ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	return &models.RatingsPage{
		Ratings: ratings,
		Total:   total,
		Skip:    filter.Skip,
		Limit:   filter.Limit,
	}, nil
}

// CountRatings returns the total number of user ratings.
func (db *DB) CountRatings(ctx context.Context) (int, error) {
	var count int
	if err := db.queryRowWithContext(ctx, `SELECT COUNT(*) FROM user_ratings`, nil, &count); err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}
