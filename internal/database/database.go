// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package database provides the DuckDB storage layer: schema management and
// typed queries for movies, user ratings, cast credits, poster analyses,
// cached preference analyses, and import runs.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/logging"
	"github.com/danw628/cinelog/internal/metrics"
)

// defaultQueryTimeout bounds queries whose caller supplied no deadline.
const defaultQueryTimeout = 30 * time.Second

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens or creates the DuckDB database at cfg.Path and prepares the
// schema. A cfg.Path of ":memory:" opens an in-memory database, used by
// tests.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	// DuckDB does not create missing parent directories itself. 0750 keeps
	// the ratings data private to the owning user and group.
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	conn, err := sql.Open("duckdb", dsn(cfg, threads))
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb at %s: %w", cfg.Path, err)
	}

	db := &DB{conn: conn, cfg: cfg}

	if err := db.tunePool(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to set up connection pool: %w", err)
	}

	if err := db.bootstrapSchema(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", threads).
		Str("max_memory", cfg.MaxMemory).
		Msg("Database ready")

	return db, nil
}

// dsn builds the DuckDB connection string with the memory and thread caps
// from the config applied.
func dsn(cfg *config.DatabaseConfig, threads int) string {
	return fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, threads, cfg.MaxMemory)
}

// tunePool applies pool limits and verifies the connection. DuckDB is
// embedded, so connections are cheap, but a bounded pool keeps memory
// predictable under concurrent API traffic.
func (db *DB) tunePool() error {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	return nil
}

// bootstrapSchema creates sequences, tables, and indexes, then flushes the
// WAL so a restart does not have to replay the DDL.
func (db *DB) bootstrapSchema() error {
	if err := db.createTables(); err != nil {
		return err
	}
	if err := db.createIndexes(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Checkpoint after schema setup failed")
	}
	return nil
}

// Close performs a best-effort WAL checkpoint and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Checkpoint before close failed")
	}
	cancel()

	return db.conn.Close()
}

// Ping checks that the database connection is alive and refreshes the
// connection pool gauge.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database is closed")
	}
	if err := db.conn.PingContext(ctx); err != nil {
		return err
	}
	metrics.DBConnectionPoolSize.Set(float64(db.conn.Stats().OpenConnections))
	return nil
}

// Checkpoint forces a WAL checkpoint.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("failed to checkpoint: %w", err)
	}
	return nil
}

// Conn returns the underlying SQL connection for callers that need direct
// access, such as readiness probes.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// ensureContext guarantees a deadline so a stuck query cannot hold a pool
// connection indefinitely.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultQueryTimeout)
	}
	if _, ok := ctx.Deadline(); !ok {
		return context.WithTimeout(ctx, defaultQueryTimeout)
	}
	return ctx, func() {}
}
