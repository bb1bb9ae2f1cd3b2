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

	"github.com/goccy/go-json"

	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// SavePreference upserts the cached payload for one analysis type. Data is
// stored as rendered JSON; Insights marshal to a JSON array alongside it.
func (db *DB) SavePreference(ctx context.Context, rec *models.PreferenceRecord) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	insights := rec.Insights
	if insights == nil {
		insights = []string{}
	}
	insightsJSON, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}

	query := `
		INSERT INTO user_preferences (analysis_type, data, insights, generated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (analysis_type) DO UPDATE SET
			data = excluded.data,
			insights = excluded.insights,
			generated_at = CURRENT_TIMESTAMP`

	_, err = db.conn.ExecContext(ctx, query,
		rec.AnalysisType, string(rec.Data), string(insightsJSON))
	metrics.RecordDBQuery("upsert", "user_preferences", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to save %s preference: %w", rec.AnalysisType, err)
	}
	return nil
}

// GetPreference returns the cached analysis of the given type, or nil if it
// has not been generated yet.
func (db *DB) GetPreference(ctx context.Context, analysisType string) (*models.PreferenceRecord, error) {
	start := time.Now()

	query := `
		SELECT id, analysis_type, data, coalesce(insights, ''), generated_at
		FROM user_preferences WHERE analysis_type = ?`

	var rec *models.PreferenceRecord
	err := db.queryAndScan(ctx, query, []any{analysisType}, func(rows *sql.Rows) error {
		var (
			r        models.PreferenceRecord
			data     string
			insights string
		)
		if err := rows.Scan(&r.ID, &r.AnalysisType, &data, &insights, &r.GeneratedAt); err != nil {
			return fmt.Errorf("failed to scan preference: %w", err)
		}
		r.Data = json.RawMessage(data)
		r.Insights = []string{}
		if insights != "" {
			if err := json.Unmarshal([]byte(insights), &r.Insights); err != nil {
				return fmt.Errorf("failed to unmarshal insights: %w", err)
			}
		}
		rec = &r
		return nil
	})
	metrics.RecordDBQuery("select", "user_preferences", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s preference: %w", analysisType, err)
	}
	return rec, nil
}

// DeletePreference removes one cached analysis so the next request
// regenerates it.
func (db *DB) DeletePreference(ctx context.Context, analysisType string) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_preferences WHERE analysis_type = ?`, analysisType)
	metrics.RecordDBQuery("delete", "user_preferences", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete %s preference: %w", analysisType, err)
	}
	return nil
}

// DeleteAllPreferences clears the whole analysis cache. Imports call this
// because every cached analysis is stale once the collection changes.
func (db *DB) DeleteAllPreferences(ctx context.Context) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `DELETE FROM user_preferences`)
	metrics.RecordDBQuery("delete", "user_preferences", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}
