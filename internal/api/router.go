// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danw628/cinelog/internal/middleware"
)

// requestTimeout is the context deadline every /api/v1 handler runs under.
const requestTimeout = 10 * time.Second

// Router assembles the HTTP surface from the handlers and the configured
// middleware factory.
type Router struct {
	handlers   *Handlers
	middleware *Middleware
}

// NewRouter creates the router. Call Handler to get the mountable handler.
func NewRouter(handlers *Handlers, mw *Middleware) *Router {
	return &Router{
		handlers:   handlers,
		middleware: mw,
	}
}

// Handler builds the chi route tree.
//
// /healthz and /metrics sit above the versioned tree: probes and scrapers
// must not consume rate-limit budget or appear in the API latency metrics.
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(chimiddleware.Compress(5))

	r.Get("/healthz", router.handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Timeout(requestTimeout))

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/", router.handlers.Ratings)
			r.Get("/stats", router.handlers.RatingsStats)
			r.Get("/genres", router.handlers.RatingsGenres)
			r.Get("/{imdbID}", router.handlers.RatingByID)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", router.handlers.MoviesFilter)
			r.Get("/search", router.handlers.MovieSearch)
			r.Get("/{identifier}", router.handlers.MovieDetails)
			r.Get("/{identifier}/similar", router.handlers.MovieSimilar)
		})

		r.Get("/cast/{name}/movies", router.handlers.CastMovies)

		r.Route("/analysis", func(r chi.Router) {
			r.Get("/highlights", router.handlers.AnalysisHighlights)
			r.Get("/{type}", router.handlers.Analysis)
			r.With(router.middleware.RateLimitWrite()).
				Post("/regenerate/{type}", router.handlers.AnalysisRegenerate)
		})

		r.Get("/import/status", router.handlers.ImportStatus)

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimitWrite())
			r.Post("/import/csv", router.handlers.ImportCSV)
			r.Post("/import/stop", router.handlers.ImportStop)
			r.Post("/enrich/posters", router.handlers.EnrichPosters)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, CodeValidationError,
			"method not allowed for this route", nil)
	})

	return r
}
