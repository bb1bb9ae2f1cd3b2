// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"context"
	"net/http"
	"time"
)

// healthPingTimeout bounds the liveness probe's database check so a wedged
// database turns into a fast 503 instead of a hanging probe.
const healthPingTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /healthz. It reports 200 while the database answers
// and 503 once it does not; probe responses are never cached.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	w.Header().Set("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error().Err(err).Msg("Health check failed")
		respondError(w, r, http.StatusServiceUnavailable, CodeDatabaseError,
			"database unreachable", nil)
		return
	}

	respondData(w, r, http.StatusOK, healthResponse{
		Status:   "ok",
		Database: "up",
	}, newMetadata(start, false))
}
