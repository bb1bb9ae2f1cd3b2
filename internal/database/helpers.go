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
)

// queryRowWithContext executes a single-row query and scans into dest.
// sql.ErrNoRows leaves dest at its zero values rather than erroring, which
// is what aggregate queries over an empty collection want.
func (db *DB) queryRowWithContext(ctx context.Context, query string, args []any, dest ...any) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.conn.QueryRowContext(ctx, query, args...).Scan(dest...)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	return nil
}

// queryAndScan executes a multi-row query and invokes scanner for each row.
func (db *DB) queryAndScan(ctx context.Context, query string, args []any, scanner func(*sql.Rows) error) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer closeWithLog(rows, nil, "rows")

	for rows.Next() {
		if err := scanner(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// listSeparator delimits multi-value text columns (genres, style tags,
// dominant colors).
const listSeparator = ","

// joinList flattens a slice for storage in a comma-separated column.
func joinList(values []string) string {
	return strings.Join(values, listSeparator)
}

// splitList expands a comma-separated column value, trimming whitespace and
// dropping empties so NULL and "" both yield an empty non-nil slice.
func splitList(value string) []string {
	return splitListOn(value, listSeparator)
}

// splitListOn is splitList with an explicit separator. Cast name aggregates
// use "|" because person names can legitimately contain commas.
func splitListOn(value, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(value, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Null-to-pointer conversions for scanning optional columns.

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
