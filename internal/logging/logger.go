// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package logging is the zerolog backend shared by every Cinelog process.
// The API server, the importer and the assistant all write through the
// same package-level logger, so a line from any of them carries the same
// field names and the same timestamp format.
//
// Call Init once from main, then log through the level helpers:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logging.Info().Str("db_path", path).Msg("Database opened")
//
// Inside HTTP handlers prefer Ctx(ctx), which picks up the request ID.
// A chain that never reaches .Msg or .Send is silently dropped by
// zerolog, so always terminate it.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Config selects how the process logger writes.
type Config struct {
	// Level is the minimum severity that gets written. One of debug,
	// info, warn, error or fatal; anything unrecognized means info.
	Level string

	// Format is "json" for machine-readable output or "console" for
	// colored human-readable output during development.
	Format string

	// Caller annotates every line with the emitting file and line.
	Caller bool

	// Output overrides the destination. Nil means os.Stderr.
	Output io.Writer
}

var (
	globalMu sync.RWMutex
	global   = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init builds the process logger from cfg and installs it. Calling it
// again reconfigures logging for everything that follows; before the
// first call a plain JSON logger on stderr is already in place.
func Init(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = build(cfg)
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	builder := zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		builder = builder.Caller()
	}
	return builder.Logger()
}

// parseLevel leans on zerolog's own parser and falls back to info for
// anything it does not recognize, including the empty string.
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger returns the current process logger by value. Components that
// want fixed fields should derive from it once, via WithComponent.
func Logger() zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// SetLogger swaps the process logger wholesale. Tests use it to point
// logging at a buffer or io.Discard.
//
//nolint:gocritic // zerolog.Logger is meant to be passed by value
func SetLogger(l zerolog.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// Debug starts a debug-level line on the process logger.
func Debug() *zerolog.Event {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global.Debug()
}

// Info starts an info-level line on the process logger.
func Info() *zerolog.Event {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global.Info()
}

// Warn starts a warn-level line on the process logger.
func Warn() *zerolog.Event {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global.Warn()
}

// Error starts an error-level line on the process logger.
func Error() *zerolog.Event {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global.Error()
}

// Fatal starts a fatal-level line; zerolog exits the process once the
// line is written. Only main functions should reach for this.
func Fatal() *zerolog.Event {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global.Fatal()
}

// NewTestLogger returns a standalone logger writing to w, bypassing the
// process logger entirely. Pair it with SetLogger to keep test output
// quiet, or point it at a bytes.Buffer to assert on emitted lines.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
