// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package catalog

import (
	"fmt"
	"strings"
)

// InvalidArgumentError reports a request parameter that failed validation.
// It is always raised before any store access.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an identifier or title that resolved to no movie.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no movie matches %q", e.Identifier)
}

// AmbiguousReferenceError reports a title shared by several movies in a
// context that required a unique reference. Candidates lists the IMDb IDs
// the caller can retry with.
type AmbiguousReferenceError struct {
	Title      string
	Candidates []string
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("%q matches multiple movies: %s", e.Title, strings.Join(e.Candidates, ", "))
}

// StoreError wraps a storage read failure. It is surfaced to the caller
// as-is; the facade never retries.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func invalidArg(field, reason string) error {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
