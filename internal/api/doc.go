// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

/*
Package api provides the HTTP surface over the ratings collection.

Routing uses chi. All data endpoints live under /api/v1 and share one
middleware stack: request IDs, real-IP resolution, panic recovery, CORS,
gzip compression, security headers, IP rate limiting, Prometheus
instrumentation, and a per-request deadline. /healthz and /metrics sit
outside the versioned tree so probes and scrapers skip the rate limiter.

Every response uses the models.APIResponse envelope:

	{
	  "status": "success" | "error",
	  "data": ...,
	  "metadata": {"timestamp": ..., "query_time_ms": ..., "cached": ...},
	  "error": {"code": ..., "message": ..., "details": ...}
	}

Error codes are the Code* constants in this package. Typed errors from the
catalog facade, the analyzer, and the importer map onto HTTP statuses in
writeServiceError; handlers never pick status codes ad hoc.

Cacheable GET responses carry an ETag and answer If-None-Match with 304,
so a polling dashboard revalidates instead of re-downloading.
*/
package api
