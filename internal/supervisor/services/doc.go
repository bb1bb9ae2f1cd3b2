// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

/*
Package services adapts Cinelog's long-running components to suture's
context-aware Serve pattern.

Three adapters live here. HTTPServerService turns *http.Server's
blocking ListenAndServe into a supervised Serve with a bounded drain on
shutdown. CheckpointService forces a DuckDB WAL checkpoint on a fixed
interval. PosterScanService chews through the poster backlog left by
TMDB enrichment, one batch per tick.

# Return Values

What Serve returns decides what suture does next:

	nil or error            -> restarted (with backoff once failures pile up)
	suture.ErrDoNotRestart  -> removed from the tree for good
	ctx.Err() after cancel  -> normal shutdown

The periodic services swallow per-tick errors: one failed checkpoint or
scan pass should cost one interval, not a restart storm.

All three implement fmt.Stringer, so suture's restart events name the
service ("duckdb-checkpoint", "poster-scan", "http-server") instead of
printing a struct.
*/
package services
