// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// Aggregate queries backing the preference analysis generators. Every query
// joins through user_ratings, so only rated movies contribute, and averages
// round to two decimals in SQL.

// GetGenreStats returns per-genre movie counts and average ratings, ordered
// by count descending.
func (db *DB) GetGenreStats(ctx context.Context) ([]models.GenreStat, error) {
	start := time.Now()

	query := `
		SELECT trim(g.genre) AS genre, COUNT(*) AS movie_count,
			ROUND(AVG(r.rating), 2) AS avg_rating
		FROM (
			SELECT imdb_id, unnest(string_split(coalesce(genres, ''), ',')) AS genre
			FROM movies
		) g
		JOIN user_ratings r ON r.imdb_id = g.imdb_id
		WHERE trim(g.genre) <> ''
		GROUP BY trim(g.genre)
		ORDER BY movie_count DESC, avg_rating DESC, genre ASC`

	stats := []models.GenreStat{}
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var s models.GenreStat
		if err := rows.Scan(&s.Genre, &s.Count, &s.AverageRating); err != nil {
			return fmt.Errorf("failed to scan genre stat: %w", err)
		}
		stats = append(stats, s)
		return nil
	})
	metrics.RecordDBQuery("analytics", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query genre stats: %w", err)
	}
	return stats, nil
}

// GetDecadeStats returns per-decade movie counts and average ratings in
// chronological order. Decade is the starting year (1990 covers 1990-1999).
func (db *DB) GetDecadeStats(ctx context.Context) ([]models.DecadeStat, error) {
	start := time.Now()

	query := `
		SELECT (m.year // 10) * 10 AS decade, COUNT(*) AS movie_count,
			ROUND(AVG(r.rating), 2) AS avg_rating
		FROM movies m
		JOIN user_ratings r ON r.imdb_id = m.imdb_id
		WHERE m.year > 0
		GROUP BY decade
		ORDER BY decade ASC`

	stats := []models.DecadeStat{}
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var s models.DecadeStat
		if err := rows.Scan(&s.Decade, &s.Count, &s.AverageRating); err != nil {
			return fmt.Errorf("failed to scan decade stat: %w", err)
		}
		stats = append(stats, s)
		return nil
	})
	metrics.RecordDBQuery("analytics", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query decade stats: %w", err)
	}
	return stats, nil
}

// runtimeBucketRanges maps bucket labels to their display ranges.
var runtimeBucketRanges = map[string]string{
	models.RuntimeShort:    "< 90 min",
	models.RuntimeStandard: "90-119 min",
	models.RuntimeLong:     "120-149 min",
	models.RuntimeEpic:     "150+ min",
}

// GetRuntimeBuckets partitions rated movies with a known runtime into the
// four length buckets and aggregates each. Buckets order shortest first;
// empty buckets are absent.
func (db *DB) GetRuntimeBuckets(ctx context.Context) ([]models.RuntimeBucketStat, error) {
	start := time.Now()

	query := `
		SELECT CASE
				WHEN m.runtime_minutes < 90 THEN 'Short'
				WHEN m.runtime_minutes < 120 THEN 'Standard'
				WHEN m.runtime_minutes < 150 THEN 'Long'
				ELSE 'Epic'
			END AS bucket,
			COUNT(*) AS movie_count,
			ROUND(AVG(r.rating), 2) AS avg_rating
		FROM movies m
		JOIN user_ratings r ON r.imdb_id = m.imdb_id
		WHERE m.runtime_minutes IS NOT NULL AND m.runtime_minutes > 0
		GROUP BY bucket
		ORDER BY MIN(m.runtime_minutes) ASC`

	buckets := []models.RuntimeBucketStat{}
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var b models.RuntimeBucketStat
		if err := rows.Scan(&b.Bucket, &b.Count, &b.AverageRating); err != nil {
			return fmt.Errorf("failed to scan runtime bucket: %w", err)
		}
		b.Range = runtimeBucketRanges[b.Bucket]
		buckets = append(buckets, b)
		return nil
	})
	metrics.RecordDBQuery("analytics", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query runtime buckets: %w", err)
	}
	return buckets, nil
}

// GetAverageRuntime returns the mean runtime in minutes across movies with
// a known runtime, rounded to one decimal. Zero when nothing qualifies.
func (db *DB) GetAverageRuntime(ctx context.Context) (float64, error) {
	var avg float64
	query := `
		SELECT COALESCE(ROUND(AVG(runtime_minutes), 1), 0)
		FROM movies
		WHERE runtime_minutes IS NOT NULL AND runtime_minutes > 0`
	if err := db.queryRowWithContext(ctx, query, nil, &avg); err != nil {
		return 0, fmt.Errorf("failed to query average runtime: %w", err)
	}
	return avg, nil
}

// GetPersonStats aggregates rated movies per credited person for one role.
// Only people with at least minCount credits qualify, ordered by average
// rating descending.
func (db *DB) GetPersonStats(ctx context.Context, role string, minCount, limit int) ([]models.PersonStat, error) {
	start := time.Now()

	query := `
		SELECT c.name, COUNT(*) AS movie_count, ROUND(AVG(r.rating), 2) AS avg_rating
		FROM cast_members c
		JOIN user_ratings r ON r.imdb_id = c.imdb_id
		WHERE c.role = ?
		GROUP BY c.name
		HAVING COUNT(*) >= ?
		ORDER BY avg_rating DESC, movie_count DESC, c.name ASC
		LIMIT ?`

	stats := []models.PersonStat{}
	err := db.queryAndScan(ctx, query, []any{role, minCount, limit}, func(rows *sql.Rows) error {
		var s models.PersonStat
		if err := rows.Scan(&s.Name, &s.Count, &s.AverageRating); err != nil {
			return fmt.Errorf("failed to scan person stat: %w", err)
		}
		stats = append(stats, s)
		return nil
	})
	metrics.RecordDBQuery("analytics", "cast_members", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query person stats: %w", err)
	}
	return stats, nil
}

// CountDistinctCastNames returns how many distinct people are credited
// across the collection.
func (db *DB) CountDistinctCastNames(ctx context.Context) (int, error) {
	var count int
	if err := db.queryRowWithContext(ctx, `SELECT COUNT(DISTINCT name) FROM cast_members`, nil, &count); err != nil {
		return 0, fmt.Errorf("failed to count cast names: %w", err)
	}
	return count, nil
}

// CountAnalyzedPosters returns how many posters have an analysis row.
func (db *DB) CountAnalyzedPosters(ctx context.Context) (int, error) {
	var count int
	if err := db.queryRowWithContext(ctx, `SELECT COUNT(*) FROM poster_analysis`, nil, &count); err != nil {
		return 0, fmt.Errorf("failed to count analyzed posters: %w", err)
	}
	return count, nil
}

// GetColorStats aggregates rated movies per dominant poster color.
func (db *DB) GetColorStats(ctx context.Context, minCount, limit int) ([]models.ColorStat, error) {
	start := time.Now()

	query := `
		SELECT trim(c.color) AS color, COUNT(*) AS cnt,
			ROUND(AVG(r.rating), 2) AS avg_rating
		FROM (
			SELECT imdb_id, unnest(string_split(coalesce(dominant_colors, ''), ',')) AS color
			FROM poster_analysis
		) c
		JOIN user_ratings r ON r.imdb_id = c.imdb_id
		WHERE trim(c.color) <> ''
		GROUP BY trim(c.color)
		HAVING COUNT(*) >= ?
		ORDER BY cnt DESC, avg_rating DESC, color ASC
		LIMIT ?`

	stats := []models.ColorStat{}
	err := db.queryAndScan(ctx, query, []any{minCount, limit}, func(rows *sql.Rows) error {
		var s models.ColorStat
		if err := rows.Scan(&s.Color, &s.Count, &s.AverageRating); err != nil {
			return fmt.Errorf("failed to scan color stat: %w", err)
		}
		stats = append(stats, s)
		return nil
	})
	metrics.RecordDBQuery("analytics", "poster_analysis", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query color stats: %w", err)
	}
	return stats, nil
}

// GetStyleStats aggregates rated movies per poster style tag.
func (db *DB) GetStyleStats(ctx context.Context, minCount, limit int) ([]models.StyleStat, error) {
	start := time.Now()

	query := `
		SELECT trim(s.tag) AS tag, COUNT(*) AS cnt,
			ROUND(AVG(r.rating), 2) AS avg_rating
		FROM (
			SELECT imdb_id, unnest(string_split(coalesce(style_tags, ''), ',')) AS tag
			FROM poster_analysis
		) s
		JOIN user_ratings r ON r.imdb_id = s.imdb_id
		WHERE trim(s.tag) <> ''
		GROUP BY trim(s.tag)
		HAVING COUNT(*) >= ?
		ORDER BY cnt DESC, avg_rating DESC, tag ASC
		LIMIT ?`

	stats := []models.StyleStat{}
	err := db.queryAndScan(ctx, query, []any{minCount, limit}, func(rows *sql.Rows) error {
		var s models.StyleStat
		if err := rows.Scan(&s.Tag, &s.Count, &s.AverageRating); err != nil {
			return fmt.Errorf("failed to scan style stat: %w", err)
		}
		stats = append(stats, s)
		return nil
	})
	metrics.RecordDBQuery("analytics", "poster_analysis", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query style stats: %w", err)
	}
	return stats, nil
}

// GetBrightnessBuckets groups analyzed posters into thirds of the
// brightness scale and aggregates ratings per bucket. The analysis layer
// picks the highest-rated bucket as the stated preference.
func (db *DB) GetBrightnessBuckets(ctx context.Context) ([]models.StyleStat, error) {
	return db.queryScoreBuckets(ctx, "brightness_score", "dark", "balanced", "bright")
}

// GetContrastBuckets groups analyzed posters into thirds of the contrast
// scale and aggregates ratings per bucket.
func (db *DB) GetContrastBuckets(ctx context.Context) ([]models.StyleStat, error) {
	return db.queryScoreBuckets(ctx, "contrast_score", "low", "medium", "high")
}

// queryScoreBuckets buckets a [0, 1] poster score column into thirds at
// 0.33 and 0.66. Column names come from the two callers above, never from
// user input.
func (db *DB) queryScoreBuckets(ctx context.Context, column, low, mid, high string) ([]models.StyleStat, error) {
	start := time.Now()

	query := fmt.Sprintf(`
		SELECT CASE
				WHEN p.%s < 0.33 THEN ?
				WHEN p.%s < 0.66 THEN ?
				ELSE ?
			END AS bucket,
			COUNT(*) AS cnt,
			ROUND(AVG(r.rating), 2) AS avg_rating
		FROM poster_analysis p
		JOIN user_ratings r ON r.imdb_id = p.imdb_id
		GROUP BY bucket
		ORDER BY avg_rating DESC, cnt DESC`, column, column)

	stats := []models.StyleStat{}
	err := db.queryAndScan(ctx, query, []any{low, mid, high}, func(rows *sql.Rows) error {
		var s models.StyleStat
		if err := rows.Scan(&s.Tag, &s.Count, &s.AverageRating); err != nil {
			return fmt.Errorf("failed to scan score bucket: %w", err)
		}
		stats = append(stats, s)
		return nil
	})
	metrics.RecordDBQuery("analytics", "poster_analysis", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s buckets: %w", column, err)
	}
	return stats, nil
}
