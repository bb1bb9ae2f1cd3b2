// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/danw628/cinelog/internal/logging"
)

const headerRequestID = "X-Request-ID"

// RequestID tags every request with an identifier. One supplied by an
// upstream proxy is kept so traces line up across hops; otherwise a
// fresh UUID is minted. The ID goes out on the X-Request-ID response
// header and into the logging context, where logging.Ctx picks it up
// for every handler log line.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(headerRequestID, id)

		ctx := logging.ContextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
