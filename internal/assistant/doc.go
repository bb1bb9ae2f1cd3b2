// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package assistant exposes the collection to AI tooling over the model
// context protocol: newline-delimited JSON-RPC 2.0 on a stdio pair.
//
// The server answers initialize, ping, tools/list, tools/call,
// resources/list, and resources/read. Six tools delegate one-to-one to
// the catalog facade; four browsable resources (movies://all,
// movies://top-rated, movies://recent, cast://all) read the store
// directly. Requests are handled strictly in arrival order, and
// notifications never get a response, even malformed ones.
//
// Error discipline follows the protocol split: malformed requests and
// bad arguments come back as JSON-RPC errors, while domain-level
// failures (no such movie, ambiguous title) come back as tool results
// flagged IsError so the calling model can read and recover from them.
package assistant
