// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/danw628/cinelog/internal/catalog"
	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// toolCatalog lists the six query tools. The schemas are what a calling
// model sees; keep descriptions concrete enough to steer argument choice.
func toolCatalog() []toolDescriptor {
	return []toolDescriptor{
		{
			Name:        "search_movies",
			Description: "Search rated movies by title, director, or cast member name",
			InputSchema: inputSchema{
				Type: "object",
				Properties: map[string]property{
					"query": {
						Type:        "string",
						Description: "Search text matched against titles, directors, and cast names",
					},
					"limit": {
						Type:        "integer",
						Description: "Maximum number of results",
						Default:     catalog.DefaultSearchLimit,
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "get_movie_details",
			Description: "Get full details for one movie by IMDb ID or title",
			InputSchema: inputSchema{
				Type: "object",
				Properties: map[string]property{
					"identifier": {
						Type:        "string",
						Description: "IMDb ID (e.g. tt0111161) or movie title",
					},
				},
				Required: []string{"identifier"},
			},
		},
		{
			Name:        "get_cast_member_movies",
			Description: "List the rated movies featuring a cast member, optionally limited to one role",
			InputSchema: inputSchema{
				Type: "object",
				Properties: map[string]property{
					"name": {
						Type:        "string",
						Description: "Full name of the person (e.g. Al Pacino)",
					},
					"role_filter": {
						Type:        "string",
						Description: "Only credits with this role",
						Enum:        []string{models.RoleActor, models.RoleDirector, models.RoleWriter},
					},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        "filter_movies",
			Description: "Filter rated movies by genre, year, rating, and runtime bounds",
			InputSchema: inputSchema{
				Type: "object",
				Properties: map[string]property{
					"genres": {
						Type:        "array",
						Description: "Match movies having any of these genres",
						Items:       &property{Type: "string"},
					},
					"year_min":        {Type: "integer", Description: "Earliest release year"},
					"year_max":        {Type: "integer", Description: "Latest release year"},
					"user_rating_min": {Type: "number", Description: "Minimum user rating (1-10)"},
					"user_rating_max": {Type: "number", Description: "Maximum user rating (1-10)"},
					"imdb_rating_min": {Type: "number", Description: "Minimum IMDb rating (0-10)"},
					"runtime_min":     {Type: "integer", Description: "Minimum runtime in minutes"},
					"runtime_max":     {Type: "integer", Description: "Maximum runtime in minutes"},
					"sort_by": {
						Type:        "string",
						Description: "Sort field",
						Enum:        []string{"user_rating", "imdb_rating", "year", "title", "runtime"},
						Default:     "user_rating",
					},
					"order": {
						Type:        "string",
						Description: "Sort direction",
						Enum:        []string{"asc", "desc"},
						Default:     "desc",
					},
					"limit": {
						Type:        "integer",
						Description: "Maximum number of results",
						Default:     catalog.DefaultFilterLimit,
					},
				},
			},
		},
		{
			Name:        "get_movie_stats",
			Description: "Get overall statistics for the whole rated collection",
			InputSchema: inputSchema{
				Type:       "object",
				Properties: map[string]property{},
			},
		},
		{
			Name:        "find_similar_movies",
			Description: "Find rated movies similar to a reference movie by shared genres, director, or cast",
			InputSchema: inputSchema{
				Type: "object",
				Properties: map[string]property{
					"identifier": {
						Type:        "string",
						Description: "IMDb ID or title of the reference movie",
					},
					"mode": {
						Type:        "string",
						Description: "Which shared attributes count",
						Enum:        []string{"genre", "director", "cast", "all"},
						Default:     catalog.ModeAll,
					},
					"limit": {
						Type:        "integer",
						Description: "Maximum number of similar movies",
						Default:     catalog.DefaultSimilarLimit,
					},
				},
				Required: []string{"identifier"},
			},
		},
	}
}

func (s *Server) handleToolCall(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var call callToolParams
	if len(params) == 0 {
		return nil, errInvalidParams("missing params")
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, errInvalidParams(fmt.Sprintf("invalid params: %v", err))
	}

	start := time.Now()
	var (
		result *toolResult
		rpcErr *rpcError
	)

	switch call.Name {
	case "search_movies":
		result, rpcErr = s.toolSearchMovies(ctx, call.Arguments)
	case "get_movie_details":
		result, rpcErr = s.toolGetMovieDetails(ctx, call.Arguments)
	case "get_cast_member_movies":
		result, rpcErr = s.toolGetCastMemberMovies(ctx, call.Arguments)
	case "filter_movies":
		result, rpcErr = s.toolFilterMovies(ctx, call.Arguments)
	case "get_movie_stats":
		result, rpcErr = s.toolGetMovieStats(ctx)
	case "find_similar_movies":
		result, rpcErr = s.toolFindSimilarMovies(ctx, call.Arguments)
	default:
		return nil, errInvalidParams(fmt.Sprintf("unknown tool: %s", call.Name))
	}

	success := rpcErr == nil && result != nil && !result.IsError
	metrics.RecordToolCall(call.Name, success)
	s.logger.Debug().
		Str("tool", call.Name).
		Bool("success", success).
		Dur("duration", time.Since(start)).
		Msg("Tool call")

	if rpcErr != nil {
		return nil, rpcErr
	}
	return result, nil
}

func (s *Server) toolSearchMovies(ctx context.Context, raw json.RawMessage) (*toolResult, *rpcError) {
	var args struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if rpcErr := decodeArgs(raw, &args); rpcErr != nil {
		return nil, rpcErr
	}

	results, err := s.catalog.Search(ctx, args.Query, args.Limit)
	if err != nil {
		return mapToolError(err)
	}
	return render(fmt.Sprintf("Found %d movies matching %q:", len(results), args.Query), results)
}

func (s *Server) toolGetMovieDetails(ctx context.Context, raw json.RawMessage) (*toolResult, *rpcError) {
	var args struct {
		Identifier string `json:"identifier"`
	}
	if rpcErr := decodeArgs(raw, &args); rpcErr != nil {
		return nil, rpcErr
	}

	details, err := s.catalog.GetMovieDetails(ctx, args.Identifier)
	if err != nil {
		return mapToolError(err)
	}
	return render(fmt.Sprintf("Movie details for %q:", details.Title), details)
}

func (s *Server) toolGetCastMemberMovies(ctx context.Context, raw json.RawMessage) (*toolResult, *rpcError) {
	var args struct {
		Name       string `json:"name"`
		RoleFilter string `json:"role_filter"`
	}
	if rpcErr := decodeArgs(raw, &args); rpcErr != nil {
		return nil, rpcErr
	}

	movies, err := s.catalog.GetCastMemberMovies(ctx, args.Name, args.RoleFilter)
	if err != nil {
		return mapToolError(err)
	}
	return render(fmt.Sprintf("Found %d rated movies featuring %q:", len(movies), args.Name), movies)
}

func (s *Server) toolFilterMovies(ctx context.Context, raw json.RawMessage) (*toolResult, *rpcError) {
	var args struct {
		Genres        []string `json:"genres"`
		YearMin       *int     `json:"year_min"`
		YearMax       *int     `json:"year_max"`
		UserRatingMin *float64 `json:"user_rating_min"`
		UserRatingMax *float64 `json:"user_rating_max"`
		ImdbRatingMin *float64 `json:"imdb_rating_min"`
		RuntimeMin    *int     `json:"runtime_min"`
		RuntimeMax    *int     `json:"runtime_max"`
		SortBy        string   `json:"sort_by"`
		Order         string   `json:"order"`
		Limit         int      `json:"limit"`
	}
	if rpcErr := decodeArgs(raw, &args); rpcErr != nil {
		return nil, rpcErr
	}

	movies, err := s.catalog.FilterMovies(ctx, models.MovieFilter{
		Genres:        args.Genres,
		YearMin:       args.YearMin,
		YearMax:       args.YearMax,
		UserRatingMin: args.UserRatingMin,
		UserRatingMax: args.UserRatingMax,
		ImdbRatingMin: args.ImdbRatingMin,
		RuntimeMin:    args.RuntimeMin,
		RuntimeMax:    args.RuntimeMax,
		SortBy:        args.SortBy,
		Order:         args.Order,
		Limit:         args.Limit,
	})
	if err != nil {
		return mapToolError(err)
	}
	return render(fmt.Sprintf("Found %d movies matching the filters:", len(movies)), movies)
}

func (s *Server) toolGetMovieStats(ctx context.Context) (*toolResult, *rpcError) {
	stats, err := s.catalog.GetMovieStats(ctx)
	if err != nil {
		return mapToolError(err)
	}
	return render("Collection statistics:", stats)
}

func (s *Server) toolFindSimilarMovies(ctx context.Context, raw json.RawMessage) (*toolResult, *rpcError) {
	var args struct {
		Identifier string `json:"identifier"`
		Mode       string `json:"mode"`
		Limit      int    `json:"limit"`
	}
	if rpcErr := decodeArgs(raw, &args); rpcErr != nil {
		return nil, rpcErr
	}

	similar, err := s.catalog.FindSimilarMovies(ctx, args.Identifier, args.Mode, args.Limit)
	if err != nil {
		return mapToolError(err)
	}

	mode := args.Mode
	if mode == "" {
		mode = catalog.ModeAll
	}
	return render(fmt.Sprintf("Found %d movies similar to %q (by %s):", len(similar), args.Identifier, mode), similar)
}

// decodeArgs unmarshals tool arguments. Absent arguments are fine; the
// facade supplies operation defaults for everything optional.
func decodeArgs(raw json.RawMessage, into any) *rpcError {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return errInvalidParams(fmt.Sprintf("invalid arguments: %v", err))
	}
	return nil
}

// mapToolError splits facade failures: bad arguments become protocol
// errors, everything else becomes a readable tool-error result.
func mapToolError(err error) (*toolResult, *rpcError) {
	var invalidArg *catalog.InvalidArgumentError
	if errors.As(err, &invalidArg) {
		return nil, errInvalidParams(invalidArg.Error())
	}
	return errorResult(err.Error()), nil
}

// render pairs a one-line preamble with an indented JSON dump, the shape
// calling models handle best.
func render(preamble string, v any) (*toolResult, *rpcError) {
	payload, rpcErr := prettyJSON(v)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return textResult(preamble + "\n\n" + payload), nil
}

func prettyJSON(v any) (string, *rpcError) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", &rpcError{Code: codeInternalError, Message: "failed to encode result"}
	}
	return string(payload), nil
}
