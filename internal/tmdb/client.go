// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/danw628/cinelog/internal/config"
	"github.com/danw628/cinelog/internal/metrics"
)

// ErrNotFound is returned when the API has no movie for the requested ID.
var ErrNotFound = errors.New("movie not found in tmdb")

const backdropSize = "w1280"

// FindResult is one movie entry from the external-source find endpoint.
type FindResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
}

type findResponse struct {
	MovieResults []FindResult `json:"movie_results"`
}

// MovieDetails is the movie detail payload with credits appended.
type MovieDetails struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title"`
	Overview            string              `json:"overview"`
	Tagline             string              `json:"tagline"`
	PosterPath          string              `json:"poster_path"`
	BackdropPath        string              `json:"backdrop_path"`
	Runtime             int                 `json:"runtime"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
	Credits             *Credits            `json:"credits"`
}

type ProductionCountry struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type SpokenLanguage struct {
	ISO         string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
}

// Credits holds the cast (billing order) and crew (by job) of a movie.
type Credits struct {
	Cast []CreditEntry `json:"cast"`
	Crew []CreditEntry `json:"crew"`
}

type CreditEntry struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Job       string `json:"job,omitempty"`
	Order     int    `json:"order,omitempty"`
}

// Client is a TMDb-compatible API client. API calls share a rate limiter
// and a circuit breaker; not-found lookups count as successes for breaker
// health.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	posterSize   string
	httpClient   *http.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[[]byte]
	logger       zerolog.Logger
}

// NewClient builds a client from the enrichment config. The circuit
// breaker opens after a 60% failure rate across at least 10 requests and
// probes recovery after 2 minutes.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	log := logger.With().Str("component", "tmdb").Logger()

	posterSize := cfg.PosterSize
	if posterSize == "" {
		posterSize = "w500"
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breakerName := "tmdb-api"
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// A missing movie is an answer, not an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("from", stateString(from)).
				Str("to", stateString(to)).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateString(from), stateString(to)).Inc()
		},
	})

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimSuffix(cfg.ImageBaseURL, "/"),
		apiKey:       cfg.APIKey,
		posterSize:   posterSize,
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(rate.Limit(rps), 1),
		breaker:      breaker,
		logger:       log,
	}
}

// FindByIMDbID resolves an IMDb ID to a TMDb movie via the external-source
// lookup. Returns ErrNotFound when the ID resolves to nothing.
func (c *Client) FindByIMDbID(ctx context.Context, imdbID string) (*FindResult, error) {
	params := url.Values{}
	params.Set("external_source", "imdb_id")

	body, err := c.get(ctx, "/find/"+url.PathEscape(imdbID), params)
	if err != nil {
		return nil, fmt.Errorf("tmdb find for %s failed: %w", imdbID, err)
	}

	var parsed findResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode find response for %s: %w", imdbID, err)
	}
	if len(parsed.MovieResults) == 0 {
		return nil, fmt.Errorf("no movie result for %s: %w", imdbID, ErrNotFound)
	}
	return &parsed.MovieResults[0], nil
}

// MovieDetails fetches full movie details with the credits appended in the
// same response.
func (c *Client) MovieDetails(ctx context.Context, tmdbID int) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")

	body, err := c.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), params)
	if err != nil {
		return nil, fmt.Errorf("tmdb details for %d failed: %w", tmdbID, err)
	}

	var details MovieDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to decode movie details for %d: %w", tmdbID, err)
	}
	return &details, nil
}

// PosterURL builds the full image URL for a poster path in the configured
// size. Empty paths stay empty.
func (c *Client) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.imageBaseURL + "/" + c.posterSize + posterPath
}

// BackdropURL builds the full image URL for a backdrop path.
func (c *Client) BackdropURL(backdropPath string) string {
	if backdropPath == "" {
		return ""
	}
	return c.imageBaseURL + "/" + backdropSize + backdropPath
}

// DownloadImage fetches an image by absolute URL. Image fetches share the
// client's pacing but bypass the circuit breaker, which tracks API health
// only.
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}

// get performs one rate-limited, breaker-guarded API request and returns
// the response body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	params.Set("api_key", c.apiKey)

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, endpoint, params)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warn().Str("endpoint", endpoint).Msg("request rejected by open circuit breaker")
	}
	return body, err
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, rerr := io.ReadAll(resp.Body)
		if rerr != nil {
			return nil, fmt.Errorf("tmdb returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("tmdb returned status %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

func stateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
