// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danw628/cinelog/internal/analysis"
	"github.com/danw628/cinelog/internal/models"
)

func TestAnalysisGet(t *testing.T) {
	deps := newTestDeps()
	var gotType string
	var gotForce bool
	deps.analyzer.generateFn = func(ctx context.Context, analysisType string, force bool) (*analysis.Report, error) {
		gotType, gotForce = analysisType, force
		return &analysis.Report{
			Type:        analysisType,
			Data:        map[string]any{"favorite": "Crime"},
			Insights:    []string{"You rate crime dramas a full point above your mean."},
			GeneratedAt: time.Now().UTC(),
		}, nil
	}

	rec := doRequest(t, newTestServer(deps), http.MethodGet, "/api/v1/analysis/genres", nil)

	wantStatus(t, rec, http.StatusOK)
	if gotType != models.AnalysisGenres {
		t.Errorf("type = %q, want %q", gotType, models.AnalysisGenres)
	}
	if gotForce {
		t.Error("GET must not force regeneration")
	}
	var report analysis.Report
	decodeData(t, decodeEnvelope(t, rec), &report)
	if report.Type != models.AnalysisGenres || len(report.Insights) != 1 {
		t.Errorf("report = %+v, want genres report with one insight", report)
	}
}

func TestAnalysisPosterStyleSlug(t *testing.T) {
	deps := newTestDeps()
	var gotType string
	deps.analyzer.generateFn = func(ctx context.Context, analysisType string, force bool) (*analysis.Report, error) {
		gotType = analysisType
		return &analysis.Report{Type: analysisType, GeneratedAt: time.Now().UTC()}, nil
	}

	rec := doRequest(t, newTestServer(deps), http.MethodGet, "/api/v1/analysis/poster-style", nil)

	wantStatus(t, rec, http.StatusOK)
	if gotType != models.AnalysisPosterStyle {
		t.Errorf("type = %q, want %q (hyphenated URL maps to the underscore name)", gotType, models.AnalysisPosterStyle)
	}
}

func TestAnalysisCachedMetadata(t *testing.T) {
	deps := newTestDeps()
	deps.analyzer.generateFn = func(ctx context.Context, analysisType string, force bool) (*analysis.Report, error) {
		return &analysis.Report{Type: analysisType, GeneratedAt: time.Now().UTC(), Cached: true}, nil
	}

	rec := doRequest(t, newTestServer(deps), http.MethodGet, "/api/v1/analysis/years", nil)

	wantStatus(t, rec, http.StatusOK)
	env := decodeEnvelope(t, rec)
	if env.Metadata == nil || !env.Metadata.Cached {
		t.Error("metadata.cached not set for a report served from the store")
	}
	if env.Metadata.QueryTimeMS != 0 {
		t.Errorf("query_time_ms = %d on a cached response, want omitted", env.Metadata.QueryTimeMS)
	}
}

func TestAnalysisUnknownType(t *testing.T) {
	deps := newTestDeps()
	deps.analyzer.generateFn = func(ctx context.Context, analysisType string, force bool) (*analysis.Report, error) {
		return nil, analysis.ErrUnknownAnalysis
	}

	rec := doRequest(t, newTestServer(deps), http.MethodGet, "/api/v1/analysis/moods", nil)

	wantStatus(t, rec, http.StatusBadRequest)
	env := decodeEnvelope(t, rec)
	wantErrorCode(t, env, CodeValidationError)
	validTypes, ok := env.Error.Details["valid_types"].([]any)
	if !ok || len(validTypes) != len(models.AnalysisTypes) {
		t.Errorf("details.valid_types = %v, want the %d known types", env.Error.Details["valid_types"], len(models.AnalysisTypes))
	}
}

func TestAnalysisRegenerate(t *testing.T) {
	deps := newTestDeps()
	var gotForce bool
	deps.analyzer.generateFn = func(ctx context.Context, analysisType string, force bool) (*analysis.Report, error) {
		gotForce = force
		return &analysis.Report{Type: analysisType, GeneratedAt: time.Now().UTC()}, nil
	}

	rec := doRequest(t, newTestServer(deps), http.MethodPost, "/api/v1/analysis/regenerate/runtime", nil)

	wantStatus(t, rec, http.StatusOK)
	if !gotForce {
		t.Error("regenerate must force a fresh report")
	}
	env := decodeEnvelope(t, rec)
	if env.Metadata != nil && env.Metadata.Cached {
		t.Error("regenerated report flagged as cached")
	}
}

func TestAnalysisHighlights(t *testing.T) {
	deps := newTestDeps()
	var gotLimit int
	deps.analyzer.highlightsFn = func(ctx context.Context, limit int, force bool) (*models.HighlightsAnalysis, error) {
		gotLimit = limit
		return &models.HighlightsAnalysis{
			ProfileGenres: []string{"Crime", "Drama"},
			Highlights: []models.Highlight{{
				SimilarMovie: models.SimilarMovie{
					MovieSummary: models.MovieSummary{ImdbID: "tt0113277", Title: "Heat", Year: 1995},
					Score:        0.91,
				},
				Reasons: []string{"matches your Crime profile"},
			}},
		}, nil
	}

	rec := doRequest(t, newTestServer(deps), http.MethodGet, "/api/v1/analysis/highlights?limit=5", nil)

	wantStatus(t, rec, http.StatusOK)
	if gotLimit != 5 {
		t.Errorf("limit = %d, want 5", gotLimit)
	}
	var body models.HighlightsAnalysis
	decodeData(t, decodeEnvelope(t, rec), &body)
	if len(body.ProfileGenres) != 2 || len(body.Highlights) != 1 {
		t.Errorf("highlights = %+v, want two profile genres and one highlight", body)
	}
	if body.Highlights[0].Score != 0.91 {
		t.Errorf("score = %v, want 0.91", body.Highlights[0].Score)
	}
}

func TestAnalysisHighlightsBadLimit(t *testing.T) {
	rec := doRequest(t, newTestServer(newTestDeps()), http.MethodGet, "/api/v1/analysis/highlights?limit=-2", nil)

	wantStatus(t, rec, http.StatusBadRequest)
	env := decodeEnvelope(t, rec)
	wantErrorCode(t, env, CodeValidationError)
	if got := env.Error.Details["param"]; got != "limit" {
		t.Errorf("details.param = %v, want limit", got)
	}
}
