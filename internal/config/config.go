// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	db, err := database.New(&cfg.Database)
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	TMDB     TMDBConfig     `koanf:"tmdb"`
	Import   ImportConfig   `koanf:"import"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Cache    CacheConfig    `koanf:"cache"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8000)
//   - HTTP_TIMEOUT: Request read/write timeout (default: 30s)
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings. The database is an embedded single
// file; there is no connection URL.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path (default: data/cinelog.duckdb)
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
//   - DUCKDB_THREADS: Worker threads, 0 = NumCPU (default: 0)
//   - DUCKDB_CHECKPOINT_INTERVAL: Periodic WAL checkpoint, 0 disables (default: 5m)
type DatabaseConfig struct {
	Path               string        `koanf:"path"`
	MaxMemory          string        `koanf:"max_memory"`
	Threads            int           `koanf:"threads"`
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// APIConfig holds API surface settings: pagination bounds, CORS for the local
// web UI, and rate limiting.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// TMDBConfig holds the poster enrichment client settings. Enrichment is
// optional; when disabled, poster fields simply stay empty.
//
// Environment Variables:
//   - TMDB_ENABLED: Enable poster enrichment (default: false)
//   - TMDB_API_KEY: API key (required when enabled)
//   - TMDB_BASE_URL: API base URL (default: https://api.themoviedb.org/3)
//   - TMDB_IMAGE_BASE_URL: Image base URL (default: https://image.tmdb.org/t/p)
//   - TMDB_POSTER_DIR: Directory for downloaded posters (default: data/posters)
type TMDBConfig struct {
	Enabled           bool          `koanf:"enabled"`
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	ImageBaseURL      string        `koanf:"image_base_url"`
	PosterSize        string        `koanf:"poster_size"`
	PosterDir         string        `koanf:"poster_dir"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

// ImportConfig holds CSV ingestion settings.
//
// Environment Variables:
//   - IMPORT_CSV_PATH: Default ratings-export path (default: imdb_rating.csv)
//   - IMPORT_PROGRESS_EVERY: Persist progress every N rows (default: 25)
type ImportConfig struct {
	CSVPath       string `koanf:"csv_path"`
	ProgressEvery int    `koanf:"progress_every"`
}

// AnalysisConfig holds preference-analysis thresholds and the poster
// scan cadence.
//
// Environment Variables:
//   - ANALYSIS_MIN_GROUP_SIZE: Minimum group size for preference rows (default: 2)
//   - ANALYSIS_TOP_N: Entries in top/bottom preference lists (default: 5)
//   - ANALYSIS_POSTER_SCAN_INTERVAL: Poster availability scan cadence, 0 disables (default: 10m)
type AnalysisConfig struct {
	// MinGroupSize is the minimum number of rated movies a person, color, or
	// style needs before it appears in a preference analysis.
	MinGroupSize int `koanf:"min_group_size"`
	// TopN is the number of entries in top/bottom preference lists.
	TopN int `koanf:"top_n"`
	// PosterScanInterval drives the supervised poster availability
	// worker. Zero disables it.
	PosterScanInterval time.Duration `koanf:"poster_scan_interval"`
}

// CacheConfig holds in-process cache settings for similarity responses.
type CacheConfig struct {
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// LoggingConfig holds log output settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	return load()
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative, got %d", c.Database.Threads)
	}
	if c.Database.CheckpointInterval < 0 {
		return fmt.Errorf("DUCKDB_CHECKPOINT_INTERVAL must not be negative, got %s", c.Database.CheckpointInterval)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must not be below API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.API.RateLimitWindow)
		}
	}
	return nil
}

// validateTMDB validates enrichment settings (only when enabled).
func (c *Config) validateTMDB() error {
	if !c.TMDB.Enabled {
		return nil
	}
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required when TMDB_ENABLED=true")
	}
	if err := validateHTTPURL(c.TMDB.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.TMDB.ImageBaseURL, "TMDB_IMAGE_BASE_URL"); err != nil {
		return err
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SECOND must be positive, got %g", c.TMDB.RequestsPerSecond)
	}
	if c.TMDB.PosterDir == "" {
		return fmt.Errorf("TMDB_POSTER_DIR is required when TMDB_ENABLED=true")
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.ProgressEvery < 1 {
		return fmt.Errorf("IMPORT_PROGRESS_EVERY must be positive, got %d", c.Import.ProgressEvery)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.MinGroupSize < 1 {
		return fmt.Errorf("ANALYSIS_MIN_GROUP_SIZE must be positive, got %d", c.Analysis.MinGroupSize)
	}
	if c.Analysis.TopN < 1 {
		return fmt.Errorf("ANALYSIS_TOP_N must be positive, got %d", c.Analysis.TopN)
	}
	if c.Analysis.PosterScanInterval < 0 {
		return fmt.Errorf("ANALYSIS_POSTER_SCAN_INTERVAL must not be negative, got %s", c.Analysis.PosterScanInterval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that a value parses as an absolute http(s) URL.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host: %q", name, raw)
	}
	return nil
}
