// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// normalizeAnalysisType maps the URL spelling onto the stored spelling,
// so /analysis/poster-style reaches the poster_style analysis.
func normalizeAnalysisType(t string) string {
	return strings.ReplaceAll(strings.ToLower(t), "-", "_")
}

// Analysis handles GET /api/v1/analysis/{type}. A stored report is served
// as-is with the cached flag set; otherwise one is generated and persisted.
func (h *Handlers) Analysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	analysisType := normalizeAnalysisType(chi.URLParam(r, "type"))

	report, err := h.analyzer.Generate(r.Context(), analysisType, false)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, report, newMetadata(start, report.Cached))
}

// AnalysisRegenerate handles POST /api/v1/analysis/regenerate/{type},
// discarding any stored report and rebuilding from current data.
func (h *Handlers) AnalysisRegenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	analysisType := normalizeAnalysisType(chi.URLParam(r, "type"))

	report, err := h.analyzer.Generate(r.Context(), analysisType, true)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, report, newMetadata(start, false))
}

// AnalysisHighlights handles GET /api/v1/analysis/highlights?limit=.
func (h *Handlers) AnalysisHighlights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := queryIntDefault(r.URL.Query().Get("limit"), "limit", 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if limit < 0 {
		writeServiceError(w, r, badParam("limit", "must be positive"))
		return
	}

	highlights, err := h.analyzer.Highlights(r.Context(), limit, false)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, highlights, newMetadata(start, false))
}
