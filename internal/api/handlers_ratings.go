// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/danw628/cinelog/internal/models"
	"github.com/danw628/cinelog/internal/validation"
)

// genresResponse wraps the distinct genre list.
type genresResponse struct {
	Genres []string `json:"genres"`
}

// ratingResponse pairs a movie with the user's rating for it. Rating is
// null for a movie that was imported without one.
type ratingResponse struct {
	Movie  *models.Movie      `json:"movie"`
	Rating *models.UserRating `json:"rating"`
}

// Ratings handles GET /api/v1/ratings, the paginated listing.
func (h *Handlers) Ratings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	filter, err := parseRatingsFilter(r, h.cfg)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	page, err := h.store.ListRatings(r.Context(), filter)
	if err != nil {
		respondStoreError(w, r, "list ratings", err)
		return
	}

	respondData(w, r, http.StatusOK, page, newMetadata(start, false))
}

// RatingsStats handles GET /api/v1/ratings/stats.
func (h *Handlers) RatingsStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.catalog.GetMovieStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, stats, newMetadata(start, false))
}

// RatingsGenres handles GET /api/v1/ratings/genres.
func (h *Handlers) RatingsGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	genres, err := h.store.GetGenres(r.Context())
	if err != nil {
		respondStoreError(w, r, "get genres", err)
		return
	}

	respondData(w, r, http.StatusOK, genresResponse{Genres: genres}, newMetadata(start, false))
}

// RatingByID handles GET /api/v1/ratings/{imdbID}. The movie must exist;
// the rating may legitimately be null.
func (h *Handlers) RatingByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	imdbID := chi.URLParam(r, "imdbID")
	if !validation.ValidIMDbID(imdbID) {
		writeServiceError(w, r, badParam("imdbID", "must look like tt0111161"))
		return
	}

	movie, err := h.store.GetMovieByID(r.Context(), imdbID)
	if err != nil {
		respondStoreError(w, r, "get movie", err)
		return
	}
	if movie == nil {
		respondError(w, r, http.StatusNotFound, CodeNotFound,
			fmt.Sprintf("no movie matches %q", imdbID), nil)
		return
	}

	rating, err := h.store.GetRatingForMovie(r.Context(), imdbID)
	if err != nil {
		respondStoreError(w, r, "get rating", err)
		return
	}

	respondData(w, r, http.StatusOK, ratingResponse{Movie: movie, Rating: rating}, newMetadata(start, false))
}
