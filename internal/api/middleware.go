// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/metrics"
)

// Mutating endpoints (import, enrichment, regeneration) kick off background
// work against the single DuckDB file, so a handful per minute is plenty.
const (
	writeLimitRequests = 10
	writeLimitWindow   = time.Minute
)

// Middleware builds the chi-compatible CORS and rate-limit layers from the
// API configuration. One instance is shared by the whole router.
type Middleware struct {
	cfg  config.APIConfig
	cors func(http.Handler) http.Handler
}

// NewMiddleware creates the middleware factory. CORS origins come straight
// from configuration; an empty list blocks cross-origin browser access,
// which is the right default for a personal deployment.
func NewMiddleware(cfg config.APIConfig) *Middleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	return &Middleware{
		cfg:  cfg,
		cors: corsHandler,
	}
}

// CORS returns the shared CORS handler. It must be mounted globally so
// OPTIONS preflight requests are answered before routing.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the default per-IP limiter for read endpoints.
func (m *Middleware) RateLimit() func(http.Handler) http.Handler {
	return m.limiter(m.cfg.RateLimitReqs, m.cfg.RateLimitWindow)
}

// RateLimitWrite returns the tighter limiter for mutating endpoints.
func (m *Middleware) RateLimitWrite() func(http.Handler) http.Handler {
	return m.limiter(writeLimitRequests, writeLimitWindow)
}

func (m *Middleware) limiter(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		return passthrough
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// rateLimitExceeded replaces httprate's plain-text 429 with the standard
// error envelope. The endpoint label falls back to the raw path when the
// rejection happens before the route pattern is fully resolved.
func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			endpoint = pattern
		}
	}
	metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()

	respondError(w, r, http.StatusTooManyRequests, CodeRateLimitExceeded,
		"too many requests, slow down", nil)
}

// SecurityHeaders adds the browser-facing security headers to API
// responses. Content-Security-Policy is omitted: these endpoints only ever
// serve JSON.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if viaTLS(r) {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// viaTLS reports whether the request arrived encrypted, either directly or
// at a terminating proxy in front of us.
func viaTLS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
