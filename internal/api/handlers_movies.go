// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/danw628/cinelog/internal/models"
)

// searchResponse carries search hits along with the query that produced
// them, so clients can correlate out-of-order responses.
type searchResponse struct {
	Query   string                `json:"query"`
	Results []models.MovieSummary `json:"results"`
}

type moviesResponse struct {
	Movies []models.MovieSummary `json:"movies"`
	Count  int                   `json:"count"`
}

type similarResponse struct {
	Reference string                `json:"reference"`
	Mode      string                `json:"mode"`
	Results   []models.SimilarMovie `json:"results"`
}

type castMoviesResponse struct {
	Name   string                   `json:"name"`
	Role   string                   `json:"role,omitempty"`
	Movies []models.CastMemberMovie `json:"movies"`
}

// MovieSearch handles GET /api/v1/movies/search?query=&limit=.
func (h *Handlers) MovieSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := r.URL.Query().Get("query")
	limit, err := queryIntDefault(r.URL.Query().Get("limit"), "limit", 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	results, err := h.catalog.Search(r.Context(), query, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, searchResponse{Query: query, Results: results}, newMetadata(start, false))
}

// MovieDetails handles GET /api/v1/movies/{identifier}. The identifier may
// be an IMDb ID or a title; resolution order lives in the facade.
func (h *Handlers) MovieDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	identifier := chi.URLParam(r, "identifier")

	details, err := h.catalog.GetMovieDetails(r.Context(), identifier)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, details, newMetadata(start, false))
}

// MovieSimilar handles GET /api/v1/movies/{identifier}/similar?mode=&limit=.
func (h *Handlers) MovieSimilar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	identifier := chi.URLParam(r, "identifier")
	mode := r.URL.Query().Get("mode")
	limit, err := queryIntDefault(r.URL.Query().Get("limit"), "limit", 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	results, err := h.catalog.FindSimilarMovies(r.Context(), identifier, mode, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, similarResponse{
		Reference: identifier,
		Mode:      mode,
		Results:   results,
	}, newMetadata(start, false))
}

// MoviesFilter handles GET /api/v1/movies with the filter expressed as
// query parameters.
func (h *Handlers) MoviesFilter(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	filter, err := parseMovieFilter(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	movies, err := h.catalog.FilterMovies(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, moviesResponse{Movies: movies, Count: len(movies)}, newMetadata(start, false))
}

// CastMovies handles GET /api/v1/cast/{name}/movies?role=.
func (h *Handlers) CastMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	name := chi.URLParam(r, "name")
	role := r.URL.Query().Get("role")

	movies, err := h.catalog.GetCastMemberMovies(r.Context(), name, role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, castMoviesResponse{
		Name:   name,
		Role:   role,
		Movies: movies,
	}, newMetadata(start, false))
}
