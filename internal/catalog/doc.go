// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package catalog is the query facade over the rated movie collection.
//
// It exposes exactly six read operations: Search, GetMovieDetails,
// GetCastMemberMovies, FilterMovies, GetMovieStats, and FindSimilarMovies.
// Every operation validates its input before touching the store, applies
// documented defaults, and returns one of four error kinds:
//
//   - InvalidArgumentError: a malformed parameter, naming the field
//   - NotFoundError: an identifier or title that resolves to nothing
//   - AmbiguousReferenceError: a title shared by several movies where a
//     unique reference was required, carrying the candidate IDs
//   - StoreError: an underlying read failure, wrapped and not retried
//
// The facade is stateless and safe for concurrent use; both the HTTP API
// and the assistant tool server call it directly. The store and the
// similarity engine are injected as narrow interfaces so the operations
// are testable without DuckDB.
package catalog
