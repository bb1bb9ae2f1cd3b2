// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// requestIDKey is unexported so only this package can place a request ID
// in a context; the middleware goes through ContextWithRequestID.
type requestIDKey struct{}

// ContextWithRequestID stores the request ID the middleware assigned so
// every log line downstream of the handler can be tied back to it.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID carried by ctx, or the
// empty string for contexts that never passed through the middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Ctx is how request handlers should log. It returns the process logger
// with the request ID attached when ctx carries one, so a single grep on
// request_id reconstructs everything one API call did:
//
//	logging.Ctx(r.Context()).Warn().Str("imdb_id", id).Msg("Movie not found")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := Logger()
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With().Str("request_id", id).Logger()
	}
	return &logger
}

// WithComponent derives a logger that stamps every line with a component
// field. Long-lived workers grab one at construction time:
//
//	log := logging.WithComponent("enricher")
func WithComponent(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}
