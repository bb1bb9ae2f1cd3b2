// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package analysis turns the rated collection into preference reports.
//
// # Analysis Types
//
// Seven report types are generated on demand:
//
//   - genres: most-watched plus highest and lowest rated genres
//   - years: per-decade breakdown and the favorite decade
//   - runtime: length buckets and the preferred one
//   - cast: top actors and directors by average rating
//   - poster_style: visual taste from analyzed posters
//   - insights: an aggregate profile built from the reports above
//   - highlights: the collection movies that best match the profile
//
// Each generated report persists to the preference store together with
// its insight strings; subsequent requests return the stored copy until
// the caller forces regeneration or the importer wipes the store after a
// new run. Aggregation happens in SQL through the store interface, so
// the generators only shape results and write prose.
//
// Minimum group sizes and list lengths come from config.AnalysisConfig.
package analysis
