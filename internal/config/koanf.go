// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/danw628/cinelog/internal/logging"
)

// EnvConfigPath names the environment variable that pins the config file
// location, bypassing the search paths.
const EnvConfigPath = "CONFIG_PATH"

// searchPaths are tried in order when CONFIG_PATH is not set.
var searchPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinelog/config.yaml",
	"/etc/cinelog/config.yml",
}

// defaults returns the built-in configuration. Every field the application
// reads must have a usable value here; the file and environment layers only
// override.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8000,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:               "data/cinelog.duckdb",
			MaxMemory:          "1GB",
			Threads:            0,
			CheckpointInterval: 5 * time.Minute,
		},
		API: APIConfig{
			DefaultPageSize: 100,
			MaxPageSize:     1000,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		TMDB: TMDBConfig{
			Enabled:           false,
			APIKey:            "",
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p",
			PosterSize:        "w500",
			PosterDir:         "data/posters",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 4,
		},
		Import: ImportConfig{
			CSVPath:       "imdb_rating.csv",
			ProgressEvery: 25,
		},
		Analysis: AnalysisConfig{
			MinGroupSize:       2,
			TopN:               5,
			PosterScanInterval: 10 * time.Minute,
		},
		Cache: CacheConfig{
			TTL:        5 * time.Minute,
			MaxEntries: 512,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// load merges the three configuration layers. Defaults go in first, an
// optional YAML file overlays them, and environment variables win over
// both. The merged tree is then decoded and validated.
func load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to apply built-in defaults: %w", err)
	}

	if path := configFilePath(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		logging.Info().Str("path", path).Msg("Loaded config file")
	}

	if err := k.Load(env.Provider("", ".", envToPath), nil); err != nil {
		return nil, fmt.Errorf("failed to overlay environment: %w", err)
	}

	expandCommaLists(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode merged config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// configFilePath returns the first existing config file, or "" when none
// exists. CONFIG_PATH wins when set, and a missing file there is an
// explicit misconfiguration worth logging.
func configFilePath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		logging.Warn().Str("path", path).Msg("CONFIG_PATH set but file does not exist")
		return ""
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envToPath maps an environment variable name to its koanf path. Returning
// "" tells koanf to skip the variable, so unrelated environment noise
// cannot leak into the config tree.
func envToPath(s string) string {
	if path, ok := envVars[strings.ToUpper(s)]; ok {
		return path
	}
	return ""
}

// envVars is the full set of recognized environment variables.
var envVars = map[string]string{
	"HTTP_HOST":    "server.host",
	"HTTP_PORT":    "server.port",
	"HTTP_TIMEOUT": "server.timeout",

	"DUCKDB_PATH":                "database.path",
	"DUCKDB_MAX_MEMORY":          "database.max_memory",
	"DUCKDB_THREADS":             "database.threads",
	"DUCKDB_CHECKPOINT_INTERVAL": "database.checkpoint_interval",

	"API_DEFAULT_PAGE_SIZE": "api.default_page_size",
	"API_MAX_PAGE_SIZE":     "api.max_page_size",
	"CORS_ORIGINS":          "api.cors_origins",
	"RATE_LIMIT_REQUESTS":   "api.rate_limit_reqs",
	"RATE_LIMIT_WINDOW":     "api.rate_limit_window",
	"RATE_LIMIT_DISABLED":   "api.rate_limit_disabled",

	"TMDB_ENABLED":             "tmdb.enabled",
	"TMDB_API_KEY":             "tmdb.api_key",
	"TMDB_BASE_URL":            "tmdb.base_url",
	"TMDB_IMAGE_BASE_URL":      "tmdb.image_base_url",
	"TMDB_POSTER_SIZE":         "tmdb.poster_size",
	"TMDB_POSTER_DIR":          "tmdb.poster_dir",
	"TMDB_TIMEOUT":             "tmdb.timeout",
	"TMDB_REQUESTS_PER_SECOND": "tmdb.requests_per_second",

	"IMPORT_CSV_PATH":       "import.csv_path",
	"IMPORT_PROGRESS_EVERY": "import.progress_every",

	"ANALYSIS_MIN_GROUP_SIZE":       "analysis.min_group_size",
	"ANALYSIS_TOP_N":                "analysis.top_n",
	"ANALYSIS_POSTER_SCAN_INTERVAL": "analysis.poster_scan_interval",

	"CACHE_TTL":         "cache.ttl",
	"CACHE_MAX_ENTRIES": "cache.max_entries",

	"LOG_LEVEL":  "logging.level",
	"LOG_FORMAT": "logging.format",
	"LOG_CALLER": "logging.caller",
}

// commaListPaths lists config paths that accept comma-separated values from
// environment variables. YAML lists already unmarshal as slices; this covers
// the environment form.
var commaListPaths = []string{
	"api.cors_origins",
}

func expandCommaLists(k *koanf.Koanf) {
	for _, path := range commaListPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		_ = k.Set(path, out)
	}
}

// Watch re-resolves the config file and invokes callback with a freshly
// loaded Config on each change to it. Returns without installing a watch
// when no config file exists. Invalid intermediate states (editors often
// truncate before writing) are logged and skipped.
func Watch(callback func(*Config)) error {
	path := configFilePath()
	if path == "" {
		return nil
	}

	f := file.Provider(path)
	return f.Watch(func(event any, err error) {
		if err != nil {
			logging.Error().Err(err).Str("path", path).Msg("Config watch error")
			return
		}
		cfg, err := load()
		if err != nil {
			logging.Error().Err(err).Str("path", path).Msg("Reload skipped: config invalid")
			return
		}
		logging.Info().Str("path", path).Msg("Config reloaded")
		callback(cfg)
	})
}
