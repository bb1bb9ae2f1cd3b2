// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package database

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/logging"
)

// ErrImportRunActive is returned by CreateImportRun when a pending or
// running import already holds the single-import slot.
var ErrImportRunActive = errors.New("an import run is already active")

// closeWithLog closes a resource and logs a failure the caller cannot act
// on. Pass a nil logger to use the package default.
func closeWithLog(c io.Closer, logger *zerolog.Logger, resourceType string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		if logger != nil {
			logger.Warn().Err(err).Str("resource", resourceType).Msg("Failed to close resource")
			return
		}
		logging.Warn().Err(err).Str("resource", resourceType).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource ignoring errors. Used on error paths where
// the original error is the one worth reporting.
func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
