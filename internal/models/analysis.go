// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// PosterAnalysis holds visual features extracted from a movie poster.
//
// Scores are normalized to [0, 1]:
//   - BrightnessScore: mean grayscale luminance
//   - ContrastScore: luminance standard deviation scaled by 128
//   - TextRatio: fraction of strong-gradient pixels, a proxy for text and
//     fine detail density
//
// DominantColors holds up to five hex colors ("#rrggbb") ordered by
// frequency. StyleTags are derived labels such as "dark", "bright",
// "high-contrast", "colorful".
type PosterAnalysis struct {
	ID              int64     `json:"id"`
	ImdbID          string    `json:"imdb_id"`
	DominantColors  []string  `json:"dominant_colors"`
	BrightnessScore float64   `json:"brightness_score"`
	ContrastScore   float64   `json:"contrast_score"`
	TextRatio       float64   `json:"text_ratio"`
	FaceCount       int       `json:"face_count"`
	StyleTags       []string  `json:"style_tags"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// Analysis types stored in the preference cache. Each type caches one
// generated analysis; regeneration replaces the previous row.
const (
	AnalysisGenres      = "genres"
	AnalysisYears       = "years"
	AnalysisRuntime     = "runtime"
	AnalysisCast        = "cast"
	AnalysisPosterStyle = "poster_style"
	AnalysisInsights    = "insights"
	AnalysisHighlights  = "highlights"
)

// AnalysisTypes lists every valid preference analysis type.
var AnalysisTypes = []string{
	AnalysisGenres,
	AnalysisYears,
	AnalysisRuntime,
	AnalysisCast,
	AnalysisPosterStyle,
	AnalysisInsights,
	AnalysisHighlights,
}

// ValidAnalysisType reports whether t names a known analysis type.
func ValidAnalysisType(t string) bool {
	for _, known := range AnalysisTypes {
		if t == known {
			return true
		}
	}
	return false
}

// PreferenceRecord is a cached analysis result as stored in the database.
// Data holds the type-specific analysis payload; Insights are the
// human-readable takeaways generated alongside it.
type PreferenceRecord struct {
	ID           int64           `json:"id"`
	AnalysisType string          `json:"analysis_type"`
	Data         json.RawMessage `json:"data"`
	Insights     []string        `json:"insights"`
	GeneratedAt  time.Time       `json:"generated_at"`
}
