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

// CreateImportRun inserts a new run, enforcing the single active run rule
// inside a transaction. Returns ErrImportRunActive if a pending or running
// import already exists.
func (db *DB) CreateImportRun(ctx context.Context, run *models.ImportRun) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var active int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM import_runs WHERE status IN (?, ?)`,
		models.ImportPending, models.ImportRunning).Scan(&active)
	if err != nil {
		metrics.RecordDBQuery("insert", "import_runs", time.Since(start), err)
		return fmt.Errorf("failed to check active import runs: %w", err)
	}
	if active > 0 {
		metrics.RecordDBQuery("insert", "import_runs", time.Since(start), ErrImportRunActive)
		return ErrImportRunActive
	}

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO import_runs (id, status, source, total_rows, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Status, run.Source, run.TotalRows, run.StartedAt)
	if err != nil {
		metrics.RecordDBQuery("insert", "import_runs", time.Since(start), err)
		return fmt.Errorf("failed to create import run: %w", err)
	}

	err = tx.Commit()
	metrics.RecordDBQuery("insert", "import_runs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to commit import run: %w", err)
	}
	return nil
}

// UpdateImportRunProgress writes the live counters of a run so status polls
// see current progress.
func (db *DB) UpdateImportRunProgress(ctx context.Context, run *models.ImportRun) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		UPDATE import_runs SET
			status = ?,
			total_rows = ?,
			processed_rows = ?,
			imported_movies = ?,
			imported_ratings = ?,
			skipped_rows = ?,
			current_title = ?
		WHERE id = ?`

	_, err := db.conn.ExecContext(ctx, query,
		run.Status, run.TotalRows, run.ProcessedRows,
		run.ImportedMovies, run.ImportedRatings, run.SkippedRows,
		run.CurrentTitle, run.ID)
	metrics.RecordDBQuery("update", "import_runs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to update import run %s: %w", run.ID, err)
	}
	return nil
}

// FinishImportRun records the terminal status of a run and stamps its
// finish time. The error message is empty for completed runs.
func (db *DB) FinishImportRun(ctx context.Context, id, status, errMsg string) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		UPDATE import_runs SET
			status = ?,
			error = ?,
			current_title = '',
			finished_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	_, err := db.conn.ExecContext(ctx, query, status, errMsg, id)
	metrics.RecordDBQuery("update", "import_runs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to finish import run %s: %w", id, err)
	}
	return nil
}

const importRunColumns = `id, status, source, total_rows, processed_rows,
	imported_movies, imported_ratings, skipped_rows, current_title, error,
	started_at, finished_at`

func scanImportRun(rows *sql.Rows) (*models.ImportRun, error) {
	var (
		run          models.ImportRun
		source       sql.NullString
		currentTitle sql.NullString
		errMsg       sql.NullString
		finishedAt   sql.NullTime
	)
	if err := rows.Scan(&run.ID, &run.Status, &source, &run.TotalRows,
		&run.ProcessedRows, &run.ImportedMovies, &run.ImportedRatings,
		&run.SkippedRows, &currentTitle, &errMsg, &run.StartedAt, &finishedAt); err != nil {
		return nil, fmt.Errorf("failed to scan import run: %w", err)
	}
	run.Source = source.String
	run.CurrentTitle = currentTitle.String
	run.Error = errMsg.String
	run.FinishedAt = timePtr(finishedAt)
	return &run, nil
}

// GetImportRun returns one run by ID, or nil if it does not exist.
func (db *DB) GetImportRun(ctx context.Context, id string) (*models.ImportRun, error) {
	return db.queryImportRun(ctx,
		`SELECT `+importRunColumns+` FROM import_runs WHERE id = ?`,
		[]any{id})
}

// GetActiveImportRun returns the pending or running import, or nil if the
// slot is free.
func (db *DB) GetActiveImportRun(ctx context.Context) (*models.ImportRun, error) {
	return db.queryImportRun(ctx,
		`SELECT `+importRunColumns+` FROM import_runs
		WHERE status IN (?, ?)
		ORDER BY started_at DESC LIMIT 1`,
		[]any{models.ImportPending, models.ImportRunning})
}

// GetLatestImportRun returns the most recently started run regardless of
// status, or nil if nothing has ever been imported.
func (db *DB) GetLatestImportRun(ctx context.Context) (*models.ImportRun, error) {
	return db.queryImportRun(ctx,
		`SELECT `+importRunColumns+` FROM import_runs
		ORDER BY started_at DESC LIMIT 1`, nil)
}

func (db *DB) queryImportRun(ctx context.Context, query string, args []any) (*models.ImportRun, error) {
	start := time.Now()

	var run *models.ImportRun
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		r, err := scanImportRun(rows)
		if err != nil {
			return err
		}
		run = r
		return nil
	})
	metrics.RecordDBQuery("select", "import_runs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query import run: %w", err)
	}
	return run, nil
}

// ResetImportData deletes every imported row and the import history. Cached
// analyses go too since they derive from the deleted data. Deletion order
// respects the logical dependencies between tables.
func (db *DB) ResetImportData(ctx context.Context) error {
	start := time.Now()
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tables := []string{
		"user_preferences",
		"poster_analysis",
		"cast_members",
		"user_ratings",
		"movies",
		"import_runs",
	}

	var err error
	for _, table := range tables {
		if _, err = db.conn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			err = fmt.Errorf("failed to clear table %s: %w", table, err)
			break
		}
	}
	metrics.RecordDBQuery("delete", "import_runs", time.Since(start), err)
	return err
}
