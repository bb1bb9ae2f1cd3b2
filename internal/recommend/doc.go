// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package recommend scores the rated collection against a reference
// movie or an aggregate taste profile.
//
// Four comparison modes are supported:
//
//   - genre: number of shared genres
//   - director: 1 when both movies name the same director
//   - cast: number of shared credited names, any role
//   - all: equal-weight sum of the three sub-scores, each normalized to
//     [0, 1] against the reference
//
// Movies scoring zero under the requested mode are excluded rather than
// ranked at the bottom, and the reference never appears in its own
// results. Ties break by the user's rating, then the IMDb rating.
//
// A fifth entry point, ProfileHighlights, replaces the reference movie
// with an aggregate taste profile and ranks the rated collection by how
// strongly each movie matches it, annotating every result with the
// reasons it scored.
//
// The engine loads a one-pass feature snapshot from the store and scores
// in memory; for a personal collection of a few thousand movies this is
// cheaper than expressing the set arithmetic in SQL. Responses are cached
// with a TTL and the importer invalidates the cache after every run.
//
// The package deliberately depends only on models; the data source and
// cache are injected, so scoring is testable with fixtures.
package recommend
