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

// UpsertPosterAnalysis stores the extracted visual features for a poster,
// replacing any previous analysis of the same movie.
func (db *DB) UpsertPosterAnalysis(ctx context.Context, pa *models.PosterAnalysis) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		INSERT INTO poster_analysis (
			imdb_id, dominant_colors, brightness_score, contrast_score,
			text_ratio, face_count, style_tags, analyzed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (imdb_id) DO UPDATE SET
			dominant_colors = excluded.dominant_colors,
			brightness_score = excluded.brightness_score,
			contrast_score = excluded.contrast_score,
			text_ratio = excluded.text_ratio,
			face_count = excluded.face_count,
			style_tags = excluded.style_tags,
			analyzed_at = CURRENT_TIMESTAMP`

	_, err := db.conn.ExecContext(ctx, query,
		pa.ImdbID, joinList(pa.DominantColors), pa.BrightnessScore,
		pa.ContrastScore, pa.TextRatio, pa.FaceCount, joinList(pa.StyleTags))
	metrics.RecordDBQuery("upsert", "poster_analysis", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert poster analysis for %s: %w", pa.ImdbID, err)
	}
	return nil
}

// GetPosterAnalysis returns the stored analysis for a movie, or nil if its
// poster has not been analyzed.
func (db *DB) GetPosterAnalysis(ctx context.Context, imdbID string) (*models.PosterAnalysis, error) {
	start := time.Now()

	query := `
		SELECT id, imdb_id, coalesce(dominant_colors, ''), brightness_score,
			contrast_score, text_ratio, face_count, coalesce(style_tags, ''),
			analyzed_at
		FROM poster_analysis WHERE imdb_id = ?`

	var analysis *models.PosterAnalysis
	err := db.queryAndScan(ctx, query, []any{imdbID}, func(rows *sql.Rows) error {
		var (
			pa     models.PosterAnalysis
			colors string
			tags   string
		)
		if err := rows.Scan(&pa.ID, &pa.ImdbID, &colors, &pa.BrightnessScore,
			&pa.ContrastScore, &pa.TextRatio, &pa.FaceCount, &tags, &pa.AnalyzedAt); err != nil {
			return fmt.Errorf("failed to scan poster analysis: %w", err)
		}
		pa.DominantColors = splitList(colors)
		pa.StyleTags = splitList(tags)
		analysis = &pa
		return nil
	})
	metrics.RecordDBQuery("select", "poster_analysis", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query poster analysis for %s: %w", imdbID, err)
	}
	return analysis, nil
}

// UpdateMoviePoster records the poster reference for a movie. Either field
// may be nil to leave the stored value untouched, so the URL can land
// before the download completes.
func (db *DB) UpdateMoviePoster(ctx context.Context, imdbID string, posterURL, localPath *string) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		UPDATE movies SET
			poster_url = COALESCE(?, poster_url),
			poster_local_path = COALESCE(?, poster_local_path),
			updated_at = CURRENT_TIMESTAMP
		WHERE imdb_id = ?`

	_, err := db.conn.ExecContext(ctx, query, posterURL, localPath, imdbID)
	metrics.RecordDBQuery("update", "movies", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update poster for %s: %w", imdbID, err)
	}
	return nil
}

// ListMoviesWithoutPoster returns movies the enrichment pipeline still
// needs to fetch a poster for, oldest rated first so a fresh collection
// fills in from the top of the user's history.
func (db *DB) ListMoviesWithoutPoster(ctx context.Context, limit int) ([]*models.Movie, error) {
	start := time.Now()

	query := `SELECT ` + movieColumns + ` FROM movies
		WHERE poster_url IS NULL OR poster_local_path IS NULL
		ORDER BY created_at ASC, imdb_id ASC
		LIMIT ?`

	movies := []*models.Movie{}
	err := db.queryAndScan(ctx, query, []any{limit}, func(rows *sql.Rows) error {
		m, err := scanMovieRow(rows)
		if err != nil {
			return err
		}
		movies = append(movies, m)
		return nil
	})
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies without posters: %w", err)
	}
	return movies, nil
}

// ListMoviesNeedingPosterAnalysis returns movies that have a downloaded
// poster but no analysis row yet.
func (db *DB) ListMoviesNeedingPosterAnalysis(ctx context.Context, limit int) ([]*models.Movie, error) {
	start := time.Now()

	query := `SELECT ` + movieColumns + ` FROM movies m
		WHERE m.poster_local_path IS NOT NULL
			AND NOT EXISTS (
				SELECT 1 FROM poster_analysis p WHERE p.imdb_id = m.imdb_id
			)
		ORDER BY m.imdb_id ASC
		LIMIT ?`

	movies := []*models.Movie{}
	err := db.queryAndScan(ctx, query, []any{limit}, func(rows *sql.Rows) error {
		m, err := scanMovieRow(rows)
		if err != nil {
			return err
		}
		movies = append(movies, m)
		return nil
	})
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies needing poster analysis: %w", err)
	}
	return movies, nil
}
