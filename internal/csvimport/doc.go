// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package csvimport ingests IMDb ratings-export CSV files.
//
// An export row carries a movie (Const, Title, Year, IMDb metadata) and the
// user's rating of it. The importer creates movies it has not seen and
// ratings for movies that have none; existing rows are never modified, so
// re-importing a newer export only adds what is new.
//
// One run is active at a time. Progress is persisted to import_runs as the
// run advances so status polls see live counts, and a run can be stopped
// between rows.
package csvimport
