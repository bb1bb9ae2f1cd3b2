// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package models

import (
	"time"
)

// Import run states. A run moves pending -> running -> completed, failed,
// or stopped (canceled on request); there is no retry state because a
// failed run is simply started again.
const (
	ImportPending   = "pending"
	ImportRunning   = "running"
	ImportCompleted = "completed"
	ImportFailed    = "failed"
	ImportStopped   = "stopped"
)

// ImportRun tracks one CSV import from start to finish. The row is updated
// in place as the importer progresses so status polls see live counts.
//
// Only one run may be active (pending or running) at a time; starting a
// second one is rejected.
type ImportRun struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	Source          string     `json:"source"`
	TotalRows       int        `json:"total_rows"`
	ProcessedRows   int        `json:"processed_rows"`
	ImportedMovies  int        `json:"imported_movies"`
	ImportedRatings int        `json:"imported_ratings"`
	SkippedRows     int        `json:"skipped_rows"`
	CurrentTitle    string     `json:"current_title,omitempty"`
	Error           string     `json:"error,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

// Progress returns completion as a percentage rounded to two decimals.
// Unknown totals report zero.
func (r *ImportRun) Progress() float64 {
	if r.TotalRows <= 0 {
		return 0
	}
	pct := float64(r.ProcessedRows) / float64(r.TotalRows) * 100
	return float64(int(pct*100+0.5)) / 100
}

// Active reports whether the run still holds the single-import slot.
func (r *ImportRun) Active() bool {
	return r.Status == ImportPending || r.Status == ImportRunning
}
