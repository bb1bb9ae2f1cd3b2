// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package assistant

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/danw628/cinelog/internal/models"
)

const (
	// resourceListLimit caps the full-collection resources. A personal
	// collection is a few thousand titles at most, so this is effectively
	// "everything" without an unbounded query.
	resourceListLimit   = 10000
	recentResourceLimit = 20
	topRatedMinimum     = 8.0
)

const mimeJSON = "application/json"

func resourceCatalog() []resourceDescriptor {
	return []resourceDescriptor{
		{
			URI:         "movies://all",
			Name:        "All Movies",
			Description: "Complete list of rated movies with details",
			MimeType:    mimeJSON,
		},
		{
			URI:         "movies://top-rated",
			Name:        "Top Rated Movies",
			Description: "Movies with a user rating of 8 or higher",
			MimeType:    mimeJSON,
		},
		{
			URI:         "movies://recent",
			Name:        "Recently Rated Movies",
			Description: "The 20 most recently rated movies",
			MimeType:    mimeJSON,
		},
		{
			URI:         "cast://all",
			Name:        "All Cast Members",
			Description: "Sorted names of every actor, director, and writer on record",
			MimeType:    mimeJSON,
		},
	}
}

func (s *Server) handleReadResource(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var read readResourceParams
	if len(params) == 0 {
		return nil, errInvalidParams("missing params")
	}
	if err := json.Unmarshal(params, &read); err != nil {
		return nil, errInvalidParams(fmt.Sprintf("invalid params: %v", err))
	}

	text, rpcErr := s.readResource(ctx, read.URI)
	if rpcErr != nil {
		return nil, rpcErr
	}

	return readResourceResult{
		Contents: []resourceContents{{URI: read.URI, MimeType: mimeJSON, Text: text}},
	}, nil
}

func (s *Server) readResource(ctx context.Context, uri string) (string, *rpcError) {
	switch uri {
	case "movies://all":
		return s.readRatings(ctx, models.RatingsFilter{Limit: resourceListLimit})
	case "movies://top-rated":
		minRating := topRatedMinimum
		return s.readRatings(ctx, models.RatingsFilter{
			RatingMin: &minRating,
			SortBy:    "rating",
			Order:     "desc",
			Limit:     resourceListLimit,
		})
	case "movies://recent":
		return s.readRatings(ctx, models.RatingsFilter{
			SortBy: "rated_at",
			Order:  "desc",
			Limit:  recentResourceLimit,
		})
	case "cast://all":
		names, err := s.store.GetCastNames(ctx)
		if err != nil {
			return "", resourceReadError(err)
		}
		return prettyJSON(names)
	default:
		return "", errInvalidParams(fmt.Sprintf("unknown resource: %s", uri))
	}
}

func (s *Server) readRatings(ctx context.Context, filter models.RatingsFilter) (string, *rpcError) {
	page, err := s.store.ListRatings(ctx, filter)
	if err != nil {
		return "", resourceReadError(err)
	}
	return prettyJSON(page.Ratings)
}

// resourceReadError surfaces the store failure verbatim. The assistant
// runs locally for one user, so hiding query details only hurts debugging.
func resourceReadError(err error) *rpcError {
	return &rpcError{Code: codeInternalError, Message: fmt.Sprintf("failed to read resource: %v", err)}
}
