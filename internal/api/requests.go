// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/models"
)

// paramError reports an unusable query or path parameter. writeServiceError
// maps it to 400 VALIDATION_ERROR.
type paramError struct {
	param  string
	reason string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.param, e.reason)
}

func badParam(param, reason string) error {
	return &paramError{param: param, reason: reason}
}

// ratingsSortFields is the sort whitelist for the ratings listing. It
// mirrors the columns the store is willing to ORDER BY.
var ratingsSortFields = map[string]bool{
	"rating":          true,
	"rated_at":        true,
	"title":           true,
	"year":            true,
	"imdb_rating":     true,
	"runtime_minutes": true,
}

// parseRatingsFilter builds the ratings listing filter from query
// parameters, applying the configured page-size defaults and bounds.
func parseRatingsFilter(r *http.Request, cfg config.APIConfig) (models.RatingsFilter, error) {
	filter := models.RatingsFilter{
		Limit:  cfg.DefaultPageSize,
		SortBy: "rated_at",
		Order:  "desc",
	}

	q := r.URL.Query()

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return filter, badParam("skip", "must be a non-negative integer")
		}
		filter.Skip = skip
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > cfg.MaxPageSize {
			return filter, badParam("limit", fmt.Sprintf("must be between 1 and %d", cfg.MaxPageSize))
		}
		filter.Limit = limit
	}

	if raw := q.Get("sort_by"); raw != "" {
		sortBy := strings.ToLower(raw)
		if !ratingsSortFields[sortBy] {
			return filter, badParam("sort_by", "must be one of rating, rated_at, title, year, imdb_rating, runtime_minutes")
		}
		filter.SortBy = sortBy
	}

	if raw := q.Get("order"); raw != "" {
		order := strings.ToLower(raw)
		if order != "asc" && order != "desc" {
			return filter, badParam("order", "must be asc or desc")
		}
		filter.Order = order
	}

	filter.Search = strings.TrimSpace(q.Get("search"))
	filter.Genres = parseCommaSeparated(q.Get("genres"))

	var err error
	if filter.YearMin, err = queryInt(q.Get("year_min"), "year_min"); err != nil {
		return filter, err
	}
	if filter.YearMax, err = queryInt(q.Get("year_max"), "year_max"); err != nil {
		return filter, err
	}
	if filter.RatingMin, err = queryFloat(q.Get("rating_min"), "rating_min"); err != nil {
		return filter, err
	}
	if filter.RatingMax, err = queryFloat(q.Get("rating_max"), "rating_max"); err != nil {
		return filter, err
	}
	if filter.ImdbRatingMin, err = queryFloat(q.Get("imdb_rating_min"), "imdb_rating_min"); err != nil {
		return filter, err
	}
	if filter.ImdbRatingMax, err = queryFloat(q.Get("imdb_rating_max"), "imdb_rating_max"); err != nil {
		return filter, err
	}
	if filter.RuntimeMin, err = queryInt(q.Get("runtime_min"), "runtime_min"); err != nil {
		return filter, err
	}
	if filter.RuntimeMax, err = queryInt(q.Get("runtime_max"), "runtime_max"); err != nil {
		return filter, err
	}

	return filter, nil
}

// parseMovieFilter builds the facade filter from query parameters. Range
// validation beyond syntax lives in the facade, which owns the semantics.
func parseMovieFilter(r *http.Request) (models.MovieFilter, error) {
	filter := models.MovieFilter{}
	q := r.URL.Query()

	filter.Genres = parseCommaSeparated(q.Get("genres"))
	filter.SortBy = q.Get("sort_by")
	filter.Order = q.Get("order")

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, badParam("limit", "must be an integer")
		}
		filter.Limit = limit
	}

	var err error
	if filter.YearMin, err = queryInt(q.Get("year_min"), "year_min"); err != nil {
		return filter, err
	}
	if filter.YearMax, err = queryInt(q.Get("year_max"), "year_max"); err != nil {
		return filter, err
	}
	if filter.UserRatingMin, err = queryFloat(q.Get("user_rating_min"), "user_rating_min"); err != nil {
		return filter, err
	}
	if filter.UserRatingMax, err = queryFloat(q.Get("user_rating_max"), "user_rating_max"); err != nil {
		return filter, err
	}
	if filter.ImdbRatingMin, err = queryFloat(q.Get("imdb_rating_min"), "imdb_rating_min"); err != nil {
		return filter, err
	}
	if filter.RuntimeMin, err = queryInt(q.Get("runtime_min"), "runtime_min"); err != nil {
		return filter, err
	}
	if filter.RuntimeMax, err = queryInt(q.Get("runtime_max"), "runtime_max"); err != nil {
		return filter, err
	}

	return filter, nil
}

// queryInt parses an optional integer parameter; absent means nil.
func queryInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badParam(name, "must be an integer")
	}
	return &value, nil
}

// queryFloat parses an optional float parameter; absent means nil.
func queryFloat(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, badParam(name, "must be a number")
	}
	return &value, nil
}

// queryIntDefault parses an optional integer parameter with a fallback.
func queryIntDefault(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badParam(name, "must be an integer")
	}
	return value, nil
}

// parseCommaSeparated splits a comma-separated parameter, dropping empty
// entries.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
