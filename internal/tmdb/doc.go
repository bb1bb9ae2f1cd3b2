// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package tmdb enriches imported movies from a TMDb-compatible API.
//
// The IMDb CSV export carries ratings and a little metadata but no
// posters, plots, or actors. The Client resolves an IMDb ID through the
// external-source find endpoint, fetches movie details with credits, and
// builds image URLs from the configured image base. All API calls share
// a rate limiter and a circuit breaker.
//
// The Enricher drains movies missing poster data, applies the fetched
// metadata without overwriting existing values, downloads the poster to
// local storage, and records each credit. It is the only writer of the
// poster columns.
package tmdb
