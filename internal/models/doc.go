// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

/*
Package models defines data structures for the Cinelog application.

This package contains all data models used throughout the application:
database row models, query projections, filter parameters, and API
request/response structures. It serves as the single source of truth for
data structure definitions.

Model Categories:

1. Database Models:
  - Movie: One row per rated movie, keyed by IMDb ID
  - UserRating: The user's rating of a movie with the date it was given
  - CastMember: A person credit (actor, director, writer) on a movie
  - PosterAnalysis: Visual features extracted from a movie poster
  - ImportRun: Progress record for a CSV import

2. Projections:
  - MovieSummary: Compact movie row for list responses
  - MovieDetails: Full movie view with rating, cast, and poster state
  - SimilarMovie: A movie with its similarity score
  - MovieStats: Aggregate statistics over the whole collection
  - RatingsPage: Paginated ratings listing with totals

3. Filter Models:
  - MovieFilter: Multi-dimension filter for the query facade
  - RatingsFilter: Pagination, search, and range filters for the ratings API

4. API Models:
  - APIResponse: Standard response wrapper
  - APIError: Error details with machine-readable codes
  - Metadata: Response metadata (timestamp, query time, cache state)

Nullability:

Columns that may be absent in the source data (IMDb rating, runtime,
poster URL) are pointer fields. A nil pointer means the value was never
present; JSON omits it via omitempty.

Thread Safety:

All models are plain data structures with no internal locking. They are
safe for concurrent reads after construction.
*/
package models
