// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package models

import (
	"time"
)

// APIResponse is the envelope every HTTP endpoint answers with. Status
// is "success" with the payload in Data, or "error" with Error set and
// Data null; Metadata rides along in both cases so clients can watch
// query timing and cache behavior without a second endpoint.
//
// A ratings listing, for instance, comes back as:
//
//	{
//	  "status": "success",
//	  "data": {"total": 412, "ratings": [...]},
//	  "metadata": {"timestamp": "2026-08-23T12:00:00Z", "query_time_ms": 4}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     any `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields. A cache hit shows
// Cached true and keeps QueryTimeMS at 0; a fresh query reports the
// measured store time instead.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the error half of the envelope. Code is one of the
// machine-readable constants the api package defines (VALIDATION_ERROR,
// NOT_FOUND, AMBIGUOUS_REFERENCE, DATABASE_ERROR, IMPORT_CONFLICT,
// RATE_LIMIT_EXCEEDED, INTERNAL_ERROR); Message is for humans, and
// Details names the offending field or lists the matching candidates
// when there is something structured to say.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
