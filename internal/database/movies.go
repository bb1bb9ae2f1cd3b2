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

// movieColumns is the full movies column list in scanMovieRow order.
const movieColumns = `imdb_id, title, year, imdb_rating, imdb_votes, runtime_minutes,
	genres, director, plot, country, language, box_office,
	poster_url, poster_local_path, created_at, updated_at`

// scanMovieRow scans one full movies row, converting nullable columns to
// pointers and the genres column to a slice.
func scanMovieRow(rows *sql.Rows) (*models.Movie, error) {
	var (
		m         models.Movie
		rating    sql.NullFloat64
		votes     sql.NullInt64
		runtime   sql.NullInt64
		genres    sql.NullString
		director  sql.NullString
		plot      sql.NullString
		country   sql.NullString
		language  sql.NullString
		boxOffice sql.NullString
		posterURL sql.NullString
		localPath sql.NullString
	)

	if err := rows.Scan(&m.ImdbID, &m.Title, &m.Year, &rating, &votes, &runtime,
		&genres, &director, &plot, &country, &language, &boxOffice,
		&posterURL, &localPath, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	m.ImdbRating = floatPtr(rating)
	m.ImdbVotes = intPtr(votes)
	m.RuntimeMinutes = intPtr(runtime)
	m.Genres = splitList(genres.String)
	m.Director = director.String
	m.Plot = stringPtr(plot)
	m.Country = stringPtr(country)
	m.Language = stringPtr(language)
	m.BoxOffice = stringPtr(boxOffice)
	m.PosterURL = stringPtr(posterURL)
	m.PosterLocalPath = stringPtr(localPath)
	return &m, nil
}

// UpsertMovie inserts a movie or replaces its attributes if the IMDb ID
// already exists. The enrichment pipeline uses the replace path to fill in
// fields the CSV export does not carry.
func (db *DB) UpsertMovie(ctx context.Context, m *models.Movie) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		INSERT INTO movies (
			imdb_id, title, year, imdb_rating, imdb_votes, runtime_minutes,
			genres, director, plot, country, language, box_office,
			poster_url, poster_local_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (imdb_id) DO UPDATE SET
			title = excluded.title,
			year = excluded.year,
			imdb_rating = excluded.imdb_rating,
			imdb_votes = excluded.imdb_votes,
			runtime_minutes = excluded.runtime_minutes,
			genres = excluded.genres,
			director = excluded.director,
			plot = excluded.plot,
			country = excluded.country,
			language = excluded.language,
			box_office = excluded.box_office,
			poster_url = excluded.poster_url,
			poster_local_path = excluded.poster_local_path,
			updated_at = CURRENT_TIMESTAMP`

	_, err := db.conn.ExecContext(ctx, query,
		m.ImdbID, m.Title, m.Year, m.ImdbRating, m.ImdbVotes, m.RuntimeMinutes,
		joinList(m.Genres), m.Director, m.Plot, m.Country, m.Language, m.BoxOffice,
		m.PosterURL, m.PosterLocalPath)
	metrics.RecordDBQuery("upsert", "movies", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert movie %s: %w", m.ImdbID, err)
	}
	return nil
}

// GetMovieByID returns the movie with the given IMDb ID, or nil if no such
// movie exists.
func (db *DB) GetMovieByID(ctx context.Context, imdbID string) (*models.Movie, error) {
	start := time.Now()

	var movie *models.Movie
	query := `SELECT ` + movieColumns + ` FROM movies WHERE imdb_id = ?`
	err := db.queryAndScan(ctx, query, []any{imdbID}, func(rows *sql.Rows) error {
		m, err := scanMovieRow(rows)
		if err != nil {
			return err
		}
		movie = m
		return nil
	})
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query movie %s: %w", imdbID, err)
	}
	return movie, nil
}

// GetMoviesByExactTitle returns every movie whose title matches exactly,
// case-insensitively. Callers use the result length to distinguish a unique
// resolution from an ambiguous one; candidates order by descending IMDb
// rating so the strongest match leads the candidate list.
func (db *DB) GetMoviesByExactTitle(ctx context.Context, title string) ([]*models.Movie, error) {
	start := time.Now()

	query := `SELECT ` + movieColumns + ` FROM movies
		WHERE lower(title) = lower(?)
		ORDER BY imdb_rating DESC NULLS LAST, imdb_id ASC`

	movies := []*models.Movie{}
	err := db.queryAndScan(ctx, query, []any{title}, func(rows *sql.Rows) error {
		m, err := scanMovieRow(rows)
		if err != nil {
			return err
		}
		movies = append(movies, m)
		return nil
	})
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies by title: %w", err)
	}
	return movies, nil
}

// FindMoviesByTitle returns movies whose title contains the query,
// case-insensitively, ordered by descending IMDb rating so the first entry
// is the best fuzzy match.
func (db *DB) FindMoviesByTitle(ctx context.Context, title string, limit int) ([]*models.Movie, error) {
	start := time.Now()
	pattern := "%" + strings.ToLower(strings.TrimSpace(title)) + "%"

	query := `SELECT ` + movieColumns + ` FROM movies
		WHERE lower(title) LIKE ?
		ORDER BY imdb_rating DESC NULLS LAST, lower(title) ASC
		LIMIT ?`

	movies := []*models.Movie{}
	err := db.queryAndScan(ctx, query, []any{pattern, limit}, func(rows *sql.Rows) error {
		m, err := scanMovieRow(rows)
		if err != nil {
			return err
		}
		movies = append(movies, m)
		return nil
	})
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to find movies by title: %w", err)
	}
	return movies, nil
}

// SearchMovies resolves a free-text query against titles, director names,
// and cast-member names. A movie matching several categories appears once,
// ranked by its best category: title matches first, then director matches,
// then cast-only matches. Within a tier, descending IMDb rating breaks
// ties, then descending user rating.
func (db *DB) SearchMovies(ctx context.Context, query string, limit int) ([]models.MovieSummary, error) {
	start := time.Now()
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	sqlQuery := `
		SELECT m.imdb_id, m.title, m.year, r.rating, m.imdb_rating,
			CASE
				WHEN lower(m.title) LIKE ? THEN 0
				WHEN lower(coalesce(m.director, '')) LIKE ? THEN 1
				ELSE 2
			END AS match_tier
		FROM movies m
		LEFT JOIN user_ratings r ON r.imdb_id = m.imdb_id
		WHERE lower(m.title) LIKE ?
			OR lower(coalesce(m.director, '')) LIKE ?
			OR EXISTS (
				SELECT 1 FROM cast_members c
				WHERE c.imdb_id = m.imdb_id AND lower(c.name) LIKE ?
			)
		ORDER BY match_tier ASC,
			m.imdb_rating DESC NULLS LAST,
			r.rating DESC NULLS LAST,
			lower(m.title) ASC
		LIMIT ?`

	results := []models.MovieSummary{}
	err := db.queryAndScan(ctx, sqlQuery,
		[]any{pattern, pattern, pattern, pattern, pattern, limit},
		func(rows *sql.Rows) error {
			var (
				s          models.MovieSummary
				userRating sql.NullFloat64
				imdbRating sql.NullFloat64
				tier       int
			)
			if err := rows.Scan(&s.ImdbID, &s.Title, &s.Year, &userRating, &imdbRating, &tier); err != nil {
				return fmt.Errorf("failed to scan search result: %w", err)
			}
			s.UserRating = floatPtr(userRating)
			s.ImdbRating = floatPtr(imdbRating)
			results = append(results, s)
			return nil
		})
	metrics.RecordDBQuery("search", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return results, nil
}

// movieSortColumns whitelists sort keys for FilterMovies. Values are SQL
// expressions, never user input.
var movieSortColumns = map[string]string{
	"title":       "lower(m.title)",
	"year":        "m.year",
	"user_rating": "r.rating",
	"imdb_rating": "m.imdb_rating",
	"runtime":     "m.runtime_minutes",
}

// movieSortExpression maps a sort request onto a whitelisted ORDER BY
// clause. Unknown keys fall back to user_rating. Rows with a null sort key
// order last regardless of direction, and title breaks remaining ties so
// pagination stays stable.
func movieSortExpression(sortBy, order string) string {
	column, ok := movieSortColumns[sortBy]
	if !ok {
		column = movieSortColumns["user_rating"]
	}
	direction := "DESC"
	if strings.EqualFold(order, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s NULLS LAST, lower(m.title) ASC", column, direction)
}

// FilterMovies returns the movies matching every present filter condition,
// sorted and limited. Genres within the filter are ORed; everything else is
// ANDed. A movie with no user rating fails any user-rating bound.
func (db *DB) FilterMovies(ctx context.Context, filter models.MovieFilter) ([]models.MovieSummary, error) {
	start := time.Now()

	query := `
		SELECT m.imdb_id, m.title, m.year, r.rating, m.imdb_rating
		FROM movies m
		LEFT JOIN user_ratings r ON r.imdb_id = m.imdb_id
		WHERE 1=1`
	args := []any{}

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
	if filter.UserRatingMin != nil {
		query += " AND r.rating >= ?"
		args = append(args, *filter.UserRatingMin)
	}
	if filter.UserRatingMax != nil {
		query += " AND r.rating <= ?"
		args = append(args, *filter.UserRatingMax)
	}
	if filter.ImdbRatingMin != nil {
		query += " AND m.imdb_rating >= ?"
		args = append(args, *filter.ImdbRatingMin)
	}
	if filter.RuntimeMin != nil {
		query += " AND m.runtime_minutes >= ?"
		args = append(args, *filter.RuntimeMin)
	}
	if filter.RuntimeMax != nil {
		query += " AND m.runtime_minutes <= ?"
		args = append(args, *filter.RuntimeMax)
	}

	query += " ORDER BY " + movieSortExpression(filter.SortBy, filter.Order)

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	results := []models.MovieSummary{}
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var (
			s          models.MovieSummary
			userRating sql.NullFloat64
			imdbRating sql.NullFloat64
		)
		if err := rows.Scan(&s.ImdbID, &s.Title, &s.Year, &userRating, &imdbRating); err != nil {
			return fmt.Errorf("failed to scan filter result: %w", err)
		}
		s.UserRating = floatPtr(userRating)
		s.ImdbRating = floatPtr(imdbRating)
		results = append(results, s)
		return nil
	})
	metrics.RecordDBQuery("filter", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to filter movies: %w", err)
	}
	return results, nil
}

// CountMovies returns the total number of movies in the collection.
func (db *DB) CountMovies(ctx context.Context) (int, error) {
	var count int
	if err := db.queryRowWithContext(ctx, `SELECT COUNT(*) FROM movies`, nil, &count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// GetMovieDetails returns the full single-movie view for a resolved IMDb
// ID: the movie row, the user's rating, the cast list, and whether a poster
// reference is populated. Returns nil if the movie does not exist.
func (db *DB) GetMovieDetails(ctx context.Context, imdbID string) (*models.MovieDetails, error) {
	movie, err := db.GetMovieByID(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, nil
	}

	details := &models.MovieDetails{
		Movie:     *movie,
		Cast:      []models.CastCredit{},
		HasPoster: movie.PosterURL != nil || movie.PosterLocalPath != nil,
	}

	rating, err := db.GetRatingForMovie(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	if rating != nil {
		details.UserRating = &rating.Rating
		if !rating.RatedAt.IsZero() {
			ratedAt := rating.RatedAt
			details.RatedAt = &ratedAt
		}
	}

	cast, err := db.GetCastForMovie(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	details.Cast = cast

	return details, nil
}

// ListMovieFeatures returns the comparison features of every movie in one
// pass: summary fields plus genres, director, and all credited names. The
// similarity engine scores over this snapshot in memory, which stays cheap
// for a personal collection.
func (db *DB) ListMovieFeatures(ctx context.Context) ([]models.MovieFeatures, error) {
	start := time.Now()

	// Cast names aggregate with "|" because names can contain commas.
	query := `
		SELECT m.imdb_id, m.title, m.year, r.rating, m.imdb_rating,
			coalesce(m.genres, ''), coalesce(m.director, ''), coalesce(c.names, '')
		FROM movies m
		LEFT JOIN user_ratings r ON r.imdb_id = m.imdb_id
		LEFT JOIN (
			SELECT imdb_id, string_agg(name, '|') AS names
			FROM cast_members
			GROUP BY imdb_id
		) c ON c.imdb_id = m.imdb_id
		ORDER BY m.imdb_id`

	features := []models.MovieFeatures{}
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var (
			f          models.MovieFeatures
			userRating sql.NullFloat64
			imdbRating sql.NullFloat64
			genres     string
			director   string
			names      string
		)
		if err := rows.Scan(&f.ImdbID, &f.Title, &f.Year, &userRating, &imdbRating,
			&genres, &director, &names); err != nil {
			return fmt.Errorf("failed to scan movie features: %w", err)
		}
		f.UserRating = floatPtr(userRating)
		f.ImdbRating = floatPtr(imdbRating)
		f.Genres = splitList(genres)
		f.Director = director
		f.Cast = splitListOn(names, "|")
		features = append(features, f)
		return nil
	})
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list movie features: %w", err)
	}
	return features, nil
}

// GetGenres returns every distinct genre across the collection, sorted
// alphabetically.
func (db *DB) GetGenres(ctx context.Context) ([]string, error) {
	start := time.Now()

	query := `
		SELECT DISTINCT trim(genre) AS genre FROM (
			SELECT unnest(string_split(coalesce(genres, ''), ',')) AS genre
			FROM movies
		) t
		WHERE trim(genre) <> ''
		ORDER BY genre`

	genres := []string{}
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
		return nil
	})
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	return genres, nil
}
