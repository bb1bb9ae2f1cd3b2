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

// AddCastMembers inserts credits for a movie, skipping any (name, role)
// pair already recorded. The guarded insert keeps re-imports and repeated
// enrichment idempotent.
func (db *DB) AddCastMembers(ctx context.Context, imdbID string, credits []models.CastCredit) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		INSERT INTO cast_members (imdb_id, name, role, character_name)
		SELECT ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM cast_members
			WHERE imdb_id = ? AND name = ? AND role = ?
		)`

	var err error
	for _, credit := range credits {
		name := strings.TrimSpace(credit.Name)
		if name == "" {
			continue
		}
		_, err = db.conn.ExecContext(ctx, query, imdbID, name, credit.Role, credit.Character, imdbID, name, credit.Role)
		if err != nil {
			break
		}
	}
	metrics.RecordDBQuery("insert", "cast_members", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to add cast members for %s: %w", imdbID, err)
	}
	return nil
}

// GetCastForMovie returns the credits on a movie in insertion order, which
// preserves the billing order the enrichment source provided.
func (db *DB) GetCastForMovie(ctx context.Context, imdbID string) ([]models.CastCredit, error) {
	start := time.Now()

	query := `SELECT name, role, character_name FROM cast_members WHERE imdb_id = ? ORDER BY id`

	cast := []models.CastCredit{}
	err := db.queryAndScan(ctx, query, []any{imdbID}, func(rows *sql.Rows) error {
		var (
			credit    models.CastCredit
			character sql.NullString
		)
		if err := rows.Scan(&credit.Name, &credit.Role, &character); err != nil {
			return fmt.Errorf("failed to scan cast credit: %w", err)
		}
		credit.Character = stringPtr(character)
		cast = append(cast, credit)
		return nil
	})
	metrics.RecordDBQuery("select", "cast_members", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query cast for %s: %w", imdbID, err)
	}
	return cast, nil
}

// GetCastMemberMovies returns the filmography for a person name, matched
// case-insensitively: an exact name match wins, and only if nothing matches
// exactly does it widen to a substring match. An empty role matches every
// role. Results order by descending user rating.
func (db *DB) GetCastMemberMovies(ctx context.Context, name, role string) ([]models.CastMemberMovie, error) {
	movies, err := db.queryCastMemberMovies(ctx, "lower(c.name) = lower(?)", name, role)
	if err != nil {
		return nil, err
	}
	if len(movies) > 0 {
		return movies, nil
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	return db.queryCastMemberMovies(ctx, "lower(c.name) LIKE ?", pattern, role)
}

func (db *DB) queryCastMemberMovies(ctx context.Context, nameCondition, nameArg, role string) ([]models.CastMemberMovie, error) {
	start := time.Now()

	query := `
		SELECT m.imdb_id, m.title, m.year, r.rating, m.imdb_rating, c.role
		FROM cast_members c
		JOIN movies m ON m.imdb_id = c.imdb_id
		LEFT JOIN user_ratings r ON r.imdb_id = m.imdb_id
		WHERE ` + nameCondition
	args := []any{nameArg}

	if role != "" {
		query += " AND c.role = ?"
		args = append(args, role)
	}
	query += ` ORDER BY r.rating DESC NULLS LAST, m.imdb_rating DESC NULLS LAST, lower(m.title) ASC`

	movies := []models.CastMemberMovie{}
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var (
			cm         models.CastMemberMovie
			userRating sql.NullFloat64
			imdbRating sql.NullFloat64
		)
		if err := rows.Scan(&cm.ImdbID, &cm.Title, &cm.Year, &userRating, &imdbRating, &cm.Role); err != nil {
			return fmt.Errorf("failed to scan cast member movie: %w", err)
		}
		cm.UserRating = floatPtr(userRating)
		cm.ImdbRating = floatPtr(imdbRating)
		movies = append(movies, cm)
		return nil
	})
	metrics.RecordDBQuery("select", "cast_members", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query cast member movies: %w", err)
	}
	return movies, nil
}

// GetCastNames returns every distinct credited name, sorted. The assistant
// exposes this as a browsable resource.
func (db *DB) GetCastNames(ctx context.Context) ([]string, error) {
	start := time.Now()

	query := `SELECT DISTINCT name FROM cast_members ORDER BY name`

	names := []string{}
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan cast name: %w", err)
		}
		names = append(names, name)
		return nil
	})
	metrics.RecordDBQuery("select", "cast_members", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query cast names: %w", err)
	}
	return names, nil
}
