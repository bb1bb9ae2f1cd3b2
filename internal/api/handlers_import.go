// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/danw628/cinelog/internal/csvimport"
	"github.com/danw628/cinelog/internal/models"
	"github.com/danw628/cinelog/internal/validation"
)

// enrichmentTimeout bounds a background enrichment pass. A full batch of
// poster downloads finishes well inside this; the limit only exists so an
// upstream stall cannot pin the goroutine forever.
const enrichmentTimeout = 15 * time.Minute

// importRequest is the optional JSON body for POST /import/csv.
type importRequest struct {
	Path          string `json:"path" validate:"omitempty,filepath"`
	EnrichPosters bool   `json:"enrich_posters"`
}

// enrichRequest is the optional JSON body for POST /enrich/posters.
type enrichRequest struct {
	Batch int `json:"batch" validate:"gte=0"`
}

// importStatusResponse reports the most recent run. Run is null before the
// first import ever.
type importStatusResponse struct {
	Run         *models.ImportRun `json:"run"`
	ProgressPct float64           `json:"progress_pct"`
}

type stopResponse struct {
	Stopped bool `json:"stopped"`
}

type enrichStartedResponse struct {
	Started bool `json:"started"`
	Batch   int  `json:"batch"`
}

// ImportCSV handles POST /api/v1/import/csv. The run executes in the
// background; the response carries the created run in its pending state.
// A second POST while a run is active returns 409 IMPORT_CONFLICT.
func (h *Handlers) ImportCSV(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req importRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, r, http.StatusBadRequest, CodeValidationError,
				"request body must be valid JSON", nil)
			return
		}
	}
	if verr := validation.Check(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidationError, verr.Error(), verr.Details())
		return
	}

	run, err := h.importer.Start(r.Context(), csvimport.Options{
		Path:          req.Path,
		EnrichPosters: req.EnrichPosters,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.logger.Info().Str("run_id", run.ID).Str("source", run.Source).Msg("Import run accepted")
	respondData(w, r, http.StatusAccepted, run, newMetadata(start, false))
}

// ImportStatus handles GET /api/v1/import/status.
func (h *Handlers) ImportStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	run, err := h.store.GetLatestImportRun(r.Context())
	if err != nil {
		respondStoreError(w, r, "get import status", err)
		return
	}

	status := importStatusResponse{Run: run}
	if run != nil {
		status.ProgressPct = run.Progress()
	}

	respondData(w, r, http.StatusOK, status, newMetadata(start, false))
}

// ImportStop handles POST /api/v1/import/stop. Stopping is idempotent:
// with no run active the response simply reports stopped false.
func (h *Handlers) ImportStop(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stopped := h.importer.Stop()
	if stopped {
		h.logger.Info().Msg("Import stop requested")
	}

	respondData(w, r, http.StatusOK, stopResponse{Stopped: stopped}, newMetadata(start, false))
}

// EnrichPosters handles POST /api/v1/enrich/posters. The pass runs in the
// background because it walks an upstream API under its own rate limit;
// only one pass runs at a time.
func (h *Handlers) EnrichPosters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.enricher == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeEnrichmentUnavailable,
			"poster enrichment is not configured", nil)
		return
	}

	var req enrichRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, r, http.StatusBadRequest, CodeValidationError,
				"request body must be valid JSON", nil)
			return
		}
	}
	if verr := validation.Check(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidationError, verr.Error(), verr.Details())
		return
	}

	if !h.enriching.CompareAndSwap(false, true) {
		respondError(w, r, http.StatusConflict, CodeEnrichmentConflict,
			"an enrichment run is already active", nil)
		return
	}

	batch := req.Batch
	h.background.Add(1)
	go func() {
		defer h.background.Done()
		defer h.enriching.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
		defer cancel()

		result, err := h.enricher.Run(ctx, batch)
		if err != nil {
			h.logger.Error().Err(err).Msg("Enrichment run failed")
			return
		}
		h.logger.Info().
			Int("processed", result.Processed).
			Int("enriched", result.Enriched).
			Int("failed", result.Failed).
			Msg("Enrichment run finished")
	}()

	h.logger.Info().Int("batch", batch).Msg("Enrichment run accepted")
	respondData(w, r, http.StatusAccepted, enrichStartedResponse{
		Started: true,
		Batch:   batch,
	}, newMetadata(start, false))
}
