// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package metrics declares every Prometheus series Cinelog exports and
// small helpers for recording them. Collectors are registered through
// promauto at package load, so importing any caller is enough to make
// the series visible on /metrics.
//
// Covered areas: DuckDB queries, the HTTP API, CSV import runs, TMDb
// enrichment and its circuit breaker, poster analysis, preference
// analysis generation, the in-process caches, and the assistant tool
// server.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DuckDB query layer.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "DuckDB query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "DuckDB query failures by operation and table",
		},
		[]string{"operation", "table", "error"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Open connections in the DuckDB pool",
		},
	)

	// HTTP API surface.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "API requests served, by method, route, and status",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Requests currently in flight",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
		[]string{"endpoint"},
	)

	// CSV import runs.
	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "import_duration_seconds",
			Help:    "Duration of CSV import runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	ImportRowsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "import_rows_processed_total",
			Help: "CSV rows processed across import runs",
		},
	)

	ImportRowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "import_rows_skipped_total",
			Help: "CSV rows skipped as invalid",
		},
	)

	ImportErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_errors_total",
			Help: "Import run failures by cause",
		},
		[]string{"error"}, // "csv", "database", "conflict", "other"
	)

	ImportLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "import_last_success_timestamp",
			Help: "Unix timestamp of the last import that completed cleanly",
		},
	)

	// TMDb enrichment and its breaker.
	EnrichmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "TMDb lookups by outcome",
		},
		[]string{"result"}, // "found", "not_found", "error", "rejected"
	)

	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_request_duration_seconds",
			Help:    "TMDb API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "State of the named breaker: 0 closed, 1 half-open, 2 open",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Breaker state changes by name and direction",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Poster visual analysis.
	PostersAnalyzed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posters_analyzed_total",
			Help: "Posters run through visual analysis",
		},
	)

	PosterAnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poster_analysis_duration_seconds",
			Help:    "Single-poster visual analysis latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	PosterAnalysisErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poster_analysis_errors_total",
			Help: "Poster analysis failures",
		},
	)

	// Preference analysis generation.
	AnalysisGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_generation_duration_seconds",
			Help:    "Preference analysis generation latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"type"},
	)

	AnalysisGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_generated_total",
			Help: "Preference analyses generated, by type",
		},
		[]string{"type"},
	)

	AnalysisErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_errors_total",
			Help: "Preference analysis failures, by type",
		},
		[]string{"type"},
	)

	// In-process caches.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Cache hits by cache name",
		},
		[]string{"cache"}, // "similarity", "highlights"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Cache misses by cache name",
		},
		[]string{"cache"},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Entries currently held by the in-process cache",
		},
	)

	// Assistant tool server.
	AssistantRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "Assistant protocol requests by method",
		},
		[]string{"method"},
	)

	AssistantToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_tool_calls_total",
			Help: "Assistant tool invocations by tool and outcome",
		},
		[]string{"tool", "success"},
	)
)

// RecordDBQuery observes one query and, on failure, counts it under a
// bounded error label.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err == nil {
		return
	}
	DBQueryErrors.WithLabelValues(operation, table, errLabel(err)).Inc()
}

// errLabel folds an error message into a label value short enough to keep
// series cardinality in check.
func errLabel(err error) string {
	s := err.Error()
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}

// RecordAPIRequest observes one served request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge up or down.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordImportRun records the outcome of one CSV import run.
func RecordImportRun(duration time.Duration, processed, skipped int, err error) {
	ImportDuration.Observe(duration.Seconds())
	ImportRowsProcessed.Add(float64(processed))
	ImportRowsSkipped.Add(float64(skipped))
	if err == nil {
		ImportLastSuccess.Set(float64(time.Now().Unix()))
		return
	}
	ImportErrors.WithLabelValues(importCause(err)).Inc()
}

// importCause buckets an import failure into one of the fixed error label
// values.
func importCause(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "csv"):
		return "csv"
	case strings.Contains(msg, "database"), strings.Contains(msg, "duckdb"):
		return "database"
	case strings.Contains(msg, "already running"):
		return "conflict"
	default:
		return "other"
	}
}

// RecordEnrichment records a TMDb lookup with its result label.
func RecordEnrichment(result string, duration time.Duration) {
	EnrichmentRequests.WithLabelValues(result).Inc()
	EnrichmentDuration.Observe(duration.Seconds())
}

// RecordPosterAnalysis records one poster analysis attempt.
func RecordPosterAnalysis(duration time.Duration, err error) {
	PosterAnalysisDuration.Observe(duration.Seconds())
	if err != nil {
		PosterAnalysisErrors.Inc()
		return
	}
	PostersAnalyzed.Inc()
}

// RecordAnalysisGeneration records a preference analysis generation.
func RecordAnalysisGeneration(analysisType string, duration time.Duration, err error) {
	AnalysisGenerationDuration.WithLabelValues(analysisType).Observe(duration.Seconds())
	if err != nil {
		AnalysisErrors.WithLabelValues(analysisType).Inc()
		return
	}
	AnalysisGenerated.WithLabelValues(analysisType).Inc()
}

// RecordCacheAccess records a hit or miss for the named cache.
func RecordCacheAccess(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordToolCall records an assistant tool invocation.
func RecordToolCall(tool string, success bool) {
	outcome := "false"
	if success {
		outcome = "true"
	}
	AssistantToolCalls.WithLabelValues(tool, outcome).Inc()
}
