// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

/*
Package supervisor runs the server's long-lived pieces under a suture v4
supervision tree, giving them Erlang-style restarts, failure isolation,
and bounded shutdown.

# Layout

Two child supervisors hang off the root:

	Root ("cinelog")
	├── Maintenance ("maintenance")
	│   ├── CheckpointService (if DUCKDB_CHECKPOINT_INTERVAL > 0)
	│   └── PosterScanService (if TMDB_ENABLED)
	└── Serving ("http")
	    └── HTTPServerService

A crash loop on the maintenance side never touches API availability, and
each layer keeps its own failure count.

# Restart Behavior

suture counts failures with exponential decay: every exit bumps the
layer's counter, the counter halves over FailureDecay seconds, and once
it crosses FailureThreshold the layer backs off for FailureBackoff
before restarting anything. DefaultTreeConfig (threshold 5, decay 30s,
backoff 15s, shutdown timeout 10s) mirrors suture's stock values.

# Writing A Service

A service is anything with

	Serve(ctx context.Context) error

Both nil and plain errors lead to a restart; return
suture.ErrDoNotRestart to leave the tree for good, and return promptly
once the context is canceled. Services that linger past ShutdownTimeout
show up in UnstoppedServiceReport, which main logs on the way out.

DuckDB itself is not supervised. It is an embedded library whose
connections are owned by the database package, and a crash inside it
would require a process restart anyway.
*/
package supervisor
