// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

/*
Package middleware provides HTTP middleware shared by the API router.

Both components follow the standard func(http.Handler) http.Handler shape so
they compose with chi's Use chain alongside the stock chi middleware
(RealIP, Recoverer, Compress) and the CORS and rate-limit layers configured
in internal/api.

Key Components:

  - RequestID: UUID-based request tracking, wired into the logging context
  - PrometheusMetrics: request count, latency, and in-flight instrumentation

Usage:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

Handlers do not touch the ID directly; they log through logging.Ctx(ctx),
which attaches it automatically.
*/
package middleware
