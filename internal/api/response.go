// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/danw628/cinelog/internal/analysis"
	"github.com/danw628/cinelog/internal/catalog"
	"github.com/danw628/cinelog/internal/database"
	"github.com/danw628/cinelog/internal/logging"
	"github.com/danw628/cinelog/internal/models"
)

// Stable error codes carried in the error envelope. Clients match on these,
// never on message text.
const (
	CodeValidationError       = "VALIDATION_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeAmbiguousReference    = "AMBIGUOUS_REFERENCE"
	CodeDatabaseError         = "DATABASE_ERROR"
	CodeImportConflict        = "IMPORT_CONFLICT"
	CodeEnrichmentConflict    = "ENRICHMENT_CONFLICT"
	CodeEnrichmentUnavailable = "ENRICHMENT_UNAVAILABLE"
	CodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	CodeInternalError         = "INTERNAL_ERROR"
)

// newMetadata stamps the response envelope. start is when the handler began
// doing real work; cached marks responses served from a stored analysis.
func newMetadata(start time.Time, cached bool) models.Metadata {
	meta := models.Metadata{
		Timestamp: time.Now().UTC(),
		Cached:    cached,
	}
	if !cached {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return meta
}

// respondData writes a success envelope. GET responses with status 200 get
// an ETag and short private cache window, and answer a matching
// If-None-Match with 304 without resending the body.
func respondData(w http.ResponseWriter, r *http.Request, status int, data any, meta models.Metadata) {
	writeJSON(w, r, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}

// respondError writes an error envelope. Client errors log at warn, server
// errors at error, both through the request-scoped logger so the request ID
// rides along.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	evt := logging.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		evt = logging.Ctx(r.Context()).Error()
	}
	evt.Str("code", code).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg(sanitizeLogValue(message))

	writeJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeServiceError maps typed service errors onto HTTP statuses and
// envelope codes. Anything unrecognized is a 500 with a generic message so
// internals never leak to clients.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidArg *catalog.InvalidArgumentError
		notFound   *catalog.NotFoundError
		ambiguous  *catalog.AmbiguousReferenceError
		storeFail  *catalog.StoreError
		badParam   *paramError
	)

	switch {
	case errors.As(err, &badParam):
		respondError(w, r, http.StatusBadRequest, CodeValidationError, badParam.Error(),
			map[string]any{"param": badParam.param})
	case errors.As(err, &invalidArg):
		respondError(w, r, http.StatusBadRequest, CodeValidationError, invalidArg.Error(),
			map[string]any{"field": invalidArg.Field})
	case errors.As(err, &notFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, notFound.Error(), nil)
	case errors.As(err, &ambiguous):
		respondError(w, r, http.StatusConflict, CodeAmbiguousReference, ambiguous.Error(),
			map[string]any{"candidates": ambiguous.Candidates})
	case errors.Is(err, database.ErrImportRunActive):
		respondError(w, r, http.StatusConflict, CodeImportConflict, err.Error(), nil)
	case errors.Is(err, analysis.ErrUnknownAnalysis):
		respondError(w, r, http.StatusBadRequest, CodeValidationError, err.Error(),
			map[string]any{"valid_types": models.AnalysisTypes})
	case errors.As(err, &storeFail):
		logging.Ctx(r.Context()).Error().Err(storeFail.Err).Str("op", storeFail.Op).Msg("Store operation failed")
		respondError(w, r, http.StatusServiceUnavailable, CodeDatabaseError,
			"database query failed", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Unhandled service error")
		respondError(w, r, http.StatusInternalServerError, CodeInternalError,
			"internal server error", nil)
	}
}

// respondStoreError reports a direct store read failure. Endpoints that
// query the database without going through the catalog facade use this;
// facade calls carry their own catalog.StoreError instead.
func respondStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("Store operation failed")
	respondError(w, r, http.StatusServiceUnavailable, CodeDatabaseError,
		"database query failed", nil)
}

// writeJSON marshals the envelope and writes it with the negotiated cache
// headers. Marshal failures degrade to a bare 500; there is nothing
// meaningful left to send at that point.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	payload, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// A handler that already chose a Cache-Control policy keeps it.
	switch {
	case r.Method == http.MethodGet && status == http.StatusOK && w.Header().Get("Cache-Control") == "":
		etag := generateETag(payload)
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "private, max-age=60")
		w.Header().Set("Vary", "Accept-Encoding")

		if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	case w.Header().Get("Cache-Control") == "":
		w.Header().Set("Cache-Control", "no-store")
	}

	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag builds a strong ETag from the response body using FNV-1a.
func generateETag(data []byte) string {
	hash := uint64(14695981039346656037)
	for _, b := range data {
		hash ^= uint64(b)
		hash *= 1099511628211
	}
	return `"` + strconv.FormatUint(hash, 16) + `"`
}

// etagMatches checks an If-None-Match header against the computed tag,
// tolerating multiple candidates and the wildcard.
func etagMatches(header, etag string) bool {
	if header == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		if strings.TrimSpace(candidate) == etag {
			return true
		}
	}
	return false
}

// sanitizeLogValue strips control characters from strings before they reach
// the log stream, so request-supplied text cannot forge entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
