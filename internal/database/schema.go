// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context for schema operations. Schema creation on
// a cold start can be slow, so it gets a generous timeout.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates sequences and tables if they do not exist.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the schema DDL in dependency order.
//
// Multi-value text fields (genres, dominant_colors, style_tags) are stored
// as comma-separated VARCHAR columns and split at the storage boundary.
// DuckDB list functions (string_split, list_contains, unnest) query them
// directly, so no join table is needed for a single-user dataset.
func getTableCreationQueries() []string {
	return []string{
		// DuckDB has no AUTO_INCREMENT; sequences back the surrogate keys.
		`CREATE SEQUENCE IF NOT EXISTS seq_user_ratings_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_cast_members_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_poster_analysis_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_user_preferences_id START 1;`,

		`CREATE TABLE IF NOT EXISTS movies (
			-- Identity
			imdb_id VARCHAR PRIMARY KEY,
			title VARCHAR NOT NULL,
			year INTEGER NOT NULL,

			-- Catalog attributes, nullable until enrichment fills them
			imdb_rating DOUBLE,
			imdb_votes INTEGER,
			runtime_minutes INTEGER,
			genres VARCHAR,
			director VARCHAR,
			plot VARCHAR,
			country VARCHAR,
			language VARCHAR,
			box_office VARCHAR,

			-- Poster fields, written only by the enrichment pipeline
			poster_url VARCHAR,
			poster_local_path VARCHAR,

			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS user_ratings (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_user_ratings_id'),
			imdb_id VARCHAR NOT NULL UNIQUE,
			rating DOUBLE NOT NULL,
			review VARCHAR,
			rated_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		// character_name is only set on actor rows; the CSV export carries
		// no credits, so it arrives through enrichment.
		`CREATE TABLE IF NOT EXISTS cast_members (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_cast_members_id'),
			imdb_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			role VARCHAR NOT NULL,
			character_name VARCHAR,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS poster_analysis (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_poster_analysis_id'),
			imdb_id VARCHAR NOT NULL UNIQUE,
			dominant_colors VARCHAR,
			brightness_score DOUBLE,
			contrast_score DOUBLE,
			text_ratio DOUBLE,
			face_count INTEGER DEFAULT 0,
			style_tags VARCHAR,
			analyzed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		// One cached payload per analysis type; regeneration replaces the
		// row. Data and insights hold JSON rendered by the analysis layer.
		`CREATE TABLE IF NOT EXISTS user_preferences (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_user_preferences_id'),
			analysis_type VARCHAR NOT NULL UNIQUE,
			data VARCHAR NOT NULL,
			insights VARCHAR,
			generated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS import_runs (
			id VARCHAR PRIMARY KEY,
			status VARCHAR NOT NULL,
			source VARCHAR,
			total_rows INTEGER DEFAULT 0,
			processed_rows INTEGER DEFAULT 0,
			imported_movies INTEGER DEFAULT 0,
			imported_ratings INTEGER DEFAULT 0,
			skipped_rows INTEGER DEFAULT 0,
			current_title VARCHAR,
			error VARCHAR,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			finished_at TIMESTAMP
		);`,
	}
}

// createIndexes creates database indexes for query optimization.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}
	return nil
}

// getIndexQueries returns index creation SQL statements.
func getIndexQueries() []string {
	return []string{
		// Search and reference resolution
		`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title);`,
		`CREATE INDEX IF NOT EXISTS idx_movies_director ON movies(director);`,

		// Filtering and sorting
		`CREATE INDEX IF NOT EXISTS idx_movies_year ON movies(year);`,
		`CREATE INDEX IF NOT EXISTS idx_movies_imdb_rating ON movies(imdb_rating);`,
		`CREATE INDEX IF NOT EXISTS idx_movies_runtime ON movies(runtime_minutes);`,

		// Ratings listing
		`CREATE INDEX IF NOT EXISTS idx_ratings_rating ON user_ratings(rating);`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_rated_at ON user_ratings(rated_at);`,

		// Person lookups
		`CREATE INDEX IF NOT EXISTS idx_cast_imdb_id ON cast_members(imdb_id);`,
		`CREATE INDEX IF NOT EXISTS idx_cast_name ON cast_members(name);`,
		`CREATE INDEX IF NOT EXISTS idx_cast_role ON cast_members(role);`,

		// One credit per (movie, person, role)
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cast_credit ON cast_members(imdb_id, name, role);`,

		`CREATE INDEX IF NOT EXISTS idx_import_runs_status ON import_runs(status);`,
	}
}
