// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package catalog

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/models"
)

// Operation defaults.
const (
	DefaultSearchLimit  = 10
	DefaultFilterLimit  = 50
	DefaultSimilarLimit = 10
)

// Similarity modes accepted by FindSimilarMovies.
const (
	ModeGenre    = "genre"
	ModeDirector = "director"
	ModeCast     = "cast"
	ModeAll      = "all"
)

var similarityModes = map[string]bool{
	ModeGenre:    true,
	ModeDirector: true,
	ModeCast:     true,
	ModeAll:      true,
}

var castRoles = map[string]bool{
	models.RoleActor:    true,
	models.RoleDirector: true,
	models.RoleWriter:   true,
}

// Store is the read surface the facade needs. *database.DB satisfies it.
type Store interface {
	GetMovieByID(ctx context.Context, imdbID string) (*models.Movie, error)
	GetMovieDetails(ctx context.Context, imdbID string) (*models.MovieDetails, error)
	GetMoviesByExactTitle(ctx context.Context, title string) ([]*models.Movie, error)
	FindMoviesByTitle(ctx context.Context, title string, limit int) ([]*models.Movie, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]models.MovieSummary, error)
	FilterMovies(ctx context.Context, filter models.MovieFilter) ([]models.MovieSummary, error)
	GetCastMemberMovies(ctx context.Context, name, role string) ([]models.CastMemberMovie, error)
	GetMovieStats(ctx context.Context) (*models.MovieStats, error)
}

// Recommender scores the collection against a resolved reference movie.
// Implemented by the recommend package; injected so facade tests can fake
// the scoring.
type Recommender interface {
	SimilarMovies(ctx context.Context, referenceID, mode string, limit int) ([]models.SimilarMovie, error)
}

// Service implements the six facade operations. It holds no mutable state
// and is safe for concurrent use.
type Service struct {
	store     Store
	recommend Recommender
	logger    zerolog.Logger
}

// New creates the facade over a store and a similarity engine.
func New(store Store, recommend Recommender, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		recommend: recommend,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}
}

// Search resolves a free-text query against titles, directors, and cast
// names. Limit 0 means DefaultSearchLimit.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArg("query", "must not be empty")
	}
	if limit < 0 {
		return nil, invalidArg("limit", "must be positive")
	}
	if limit == 0 {
		limit = DefaultSearchLimit
	}

	results, err := s.store.SearchMovies(ctx, query, limit)
	if err != nil {
		return nil, storeErr("search", err)
	}
	s.logger.Debug().Str("query", query).Int("results", len(results)).Msg("search resolved")
	return results, nil
}

// GetMovieDetails returns the full view of one movie. The identifier is
// tried as an IMDb ID, then as an exact title, then as a title substring;
// when several movies fit, the one with the highest IMDb rating wins.
func (s *Service) GetMovieDetails(ctx context.Context, identifier string) (*models.MovieDetails, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, invalidArg("identifier", "must not be empty")
	}

	imdbID, err := s.resolveFirstMatch(ctx, identifier)
	if err != nil {
		return nil, err
	}
	details, err := s.store.GetMovieDetails(ctx, imdbID)
	if err != nil {
		return nil, storeErr("get movie details", err)
	}
	if details == nil {
		return nil, &NotFoundError{Identifier: identifier}
	}
	return details, nil
}

// GetCastMemberMovies returns a person's filmography, optionally limited to
// one role, sorted by the user's rating. An unknown person is an empty
// result, not an error.
func (s *Service) GetCastMemberMovies(ctx context.Context, name, role string) ([]models.CastMemberMovie, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidArg("name", "must not be empty")
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role != "" && !castRoles[role] {
		return nil, invalidArg("role", "must be actor, director, or writer")
	}

	movies, err := s.store.GetCastMemberMovies(ctx, name, role)
	if err != nil {
		return nil, storeErr("get cast member movies", err)
	}
	return movies, nil
}

// FilterMovies returns the movies matching every condition in the filter,
// sorted and limited. See models.MovieFilter for field semantics.
func (s *Service) FilterMovies(ctx context.Context, filter models.MovieFilter) ([]models.MovieSummary, error) {
	if err := normalizeFilter(&filter); err != nil {
		return nil, err
	}

	results, err := s.store.FilterMovies(ctx, filter)
	if err != nil {
		return nil, storeErr("filter movies", err)
	}
	return results, nil
}

// GetMovieStats returns the one-pass collection summary. An empty
// collection yields zero values, not an error.
func (s *Service) GetMovieStats(ctx context.Context) (*models.MovieStats, error) {
	stats, err := s.store.GetMovieStats(ctx)
	if err != nil {
		return nil, storeErr("get movie stats", err)
	}
	return stats, nil
}

// FindSimilarMovies scores every other movie against a reference and
// returns the best matches. The reference must resolve uniquely: an exact
// IMDb ID, or an exact title held by exactly one movie. A shared title is
// an AmbiguousReferenceError carrying the candidate IDs.
func (s *Service) FindSimilarMovies(ctx context.Context, identifier, mode string, limit int) ([]models.SimilarMovie, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, invalidArg("identifier", "must not be empty")
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = ModeAll
	}
	if !similarityModes[mode] {
		return nil, invalidArg("mode", "must be genre, director, cast, or all")
	}
	if limit < 0 {
		return nil, invalidArg("limit", "must be positive")
	}
	if limit == 0 {
		limit = DefaultSimilarLimit
	}

	reference, err := s.resolveUniqueMovie(ctx, identifier)
	if err != nil {
		return nil, err
	}

	similar, err := s.recommend.SimilarMovies(ctx, reference.ImdbID, mode, limit)
	if err != nil {
		return nil, storeErr("find similar movies", err)
	}
	s.logger.Debug().
		Str("reference", reference.ImdbID).
		Str("mode", mode).
		Int("results", len(similar)).
		Msg("similarity resolved")
	return similar, nil
}

// resolveFirstMatch maps an identifier to an IMDb ID for detail lookups:
// direct ID, then exact title, then substring title, first match winning.
func (s *Service) resolveFirstMatch(ctx context.Context, identifier string) (string, error) {
	movie, err := s.store.GetMovieByID(ctx, identifier)
	if err != nil {
		return "", storeErr("resolve identifier", err)
	}
	if movie != nil {
		return movie.ImdbID, nil
	}

	exact, err := s.store.GetMoviesByExactTitle(ctx, identifier)
	if err != nil {
		return "", storeErr("resolve identifier", err)
	}
	if len(exact) > 0 {
		return exact[0].ImdbID, nil
	}

	fuzzy, err := s.store.FindMoviesByTitle(ctx, identifier, 1)
	if err != nil {
		return "", storeErr("resolve identifier", err)
	}
	if len(fuzzy) > 0 {
		return fuzzy[0].ImdbID, nil
	}
	return "", &NotFoundError{Identifier: identifier}
}

// resolveUniqueMovie maps an identifier to exactly one movie for the
// similarity reference: direct ID, else an exact title that only one movie
// holds. No fuzzy fallback here, a guessed reference would silently skew
// the scores.
func (s *Service) resolveUniqueMovie(ctx context.Context, identifier string) (*models.Movie, error) {
	movie, err := s.store.GetMovieByID(ctx, identifier)
	if err != nil {
		return nil, storeErr("resolve reference", err)
	}
	if movie != nil {
		return movie, nil
	}

	exact, err := s.store.GetMoviesByExactTitle(ctx, identifier)
	if err != nil {
		return nil, storeErr("resolve reference", err)
	}
	switch len(exact) {
	case 0:
		return nil, &NotFoundError{Identifier: identifier}
	case 1:
		return exact[0], nil
	default:
		candidates := make([]string, 0, len(exact))
		for _, m := range exact {
			candidates = append(candidates, m.ImdbID)
		}
		return nil, &AmbiguousReferenceError{Title: identifier, Candidates: candidates}
	}
}

// normalizeFilter applies defaults and validates ranges in place.
func normalizeFilter(f *models.MovieFilter) error {
	if f.Limit < 0 {
		return invalidArg("limit", "must be positive")
	}
	if f.Limit == 0 {
		f.Limit = DefaultFilterLimit
	}
	if f.UserRatingMin != nil && (*f.UserRatingMin < 1 || *f.UserRatingMin > 10) {
		return invalidArg("user_rating_min", "must be between 1 and 10")
	}
	if f.UserRatingMax != nil && (*f.UserRatingMax < 1 || *f.UserRatingMax > 10) {
		return invalidArg("user_rating_max", "must be between 1 and 10")
	}
	if f.ImdbRatingMin != nil && (*f.ImdbRatingMin < 0 || *f.ImdbRatingMin > 10) {
		return invalidArg("imdb_rating_min", "must be between 0 and 10")
	}
	if f.RuntimeMin != nil && *f.RuntimeMin < 0 {
		return invalidArg("runtime_min", "must not be negative")
	}
	if f.RuntimeMax != nil && *f.RuntimeMax < 0 {
		return invalidArg("runtime_max", "must not be negative")
	}

	f.SortBy = strings.ToLower(strings.TrimSpace(f.SortBy))
	f.Order = strings.ToLower(strings.TrimSpace(f.Order))
	return nil
}
