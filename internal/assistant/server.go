// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package assistant

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/danw628/cinelog/internal/logging"
	"github.com/danw628/cinelog/internal/metrics"
	"github.com/danw628/cinelog/internal/models"
)

// maxMessageBytes bounds a single incoming request line.
const maxMessageBytes = 512 * 1024

// Catalog is the query surface the tools delegate to. *catalog.Service
// satisfies it.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]models.MovieSummary, error)
	GetMovieDetails(ctx context.Context, identifier string) (*models.MovieDetails, error)
	GetCastMemberMovies(ctx context.Context, name, role string) ([]models.CastMemberMovie, error)
	FilterMovies(ctx context.Context, filter models.MovieFilter) ([]models.MovieSummary, error)
	GetMovieStats(ctx context.Context) (*models.MovieStats, error)
	FindSimilarMovies(ctx context.Context, identifier, mode string, limit int) ([]models.SimilarMovie, error)
}

// Store is the direct read surface backing the browsable resources.
// *database.DB satisfies it.
type Store interface {
	ListRatings(ctx context.Context, filter models.RatingsFilter) (*models.RatingsPage, error)
	GetCastNames(ctx context.Context) ([]string, error)
}

// Server answers model-context-protocol requests over a newline-delimited
// JSON-RPC 2.0 stream, one request at a time in arrival order.
type Server struct {
	catalog Catalog
	store   Store
	logger  zerolog.Logger
}

// NewServer builds a tool server over the given query facade and store.
func NewServer(catalog Catalog, store Store) *Server {
	return &Server{
		catalog: catalog,
		store:   store,
		logger:  logging.WithComponent("assistant"),
	}
}

// Run reads requests from in and writes responses to out until in reaches
// EOF, in fails, or ctx is done (checked between requests; a read already
// blocked on in is not interrupted). Notifications produce no output.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if resp := s.handleMessage(ctx, line); resp != nil {
			if err := s.write(out, resp); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
	return scanner.Err()
}

// handleMessage parses and dispatches one message. It returns nil when no
// response is owed: every notification, malformed or not.
func (s *Server) handleMessage(ctx context.Context, line []byte) *response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn().Err(err).Msg("Unparseable request")
		return &response{
			JSONRPC: "2.0",
			ID:      json.RawMessage("null"),
			Error:   &rpcError{Code: codeParseError, Message: "parse error"},
		}
	}

	if req.JSONRPC != "2.0" || req.Method == "" {
		if req.notification() {
			return nil
		}
		return &response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeInvalidRequest, Message: "invalid request"},
		}
	}

	result, rpcErr := s.dispatch(ctx, &req)
	if req.notification() {
		return nil
	}

	resp := &response{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	return resp
}

func (s *Server) dispatch(ctx context.Context, req *request) (any, *rpcError) {
	metrics.AssistantRequests.WithLabelValues(methodLabel(req.Method)).Inc()

	switch req.Method {
	case "initialize":
		return s.handleInitialize()
	case "notifications/initialized":
		return nil, nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return toolsListResult{Tools: toolCatalog()}, nil
	case "tools/call":
		return s.handleToolCall(ctx, req.Params)
	case "resources/list":
		return resourcesListResult{Resources: resourceCatalog()}, nil
	case "resources/read":
		return s.handleReadResource(ctx, req.Params)
	default:
		s.logger.Warn().Str("method", req.Method).Msg("Unknown method")
		return nil, &rpcError{
			Code:    codeMethodNotFound,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}
}

// methodLabel maps off-protocol method names to a shared label so callers
// cannot mint new metric series.
func methodLabel(method string) string {
	switch method {
	case "initialize", "notifications/initialized", "ping",
		"tools/list", "tools/call", "resources/list", "resources/read":
		return method
	}
	return "unknown"
}

func (s *Server) handleInitialize() (any, *rpcError) {
	s.logger.Info().Str("protocol", protocolVersion).Msg("Assistant session initialized")
	return initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: capabilities{
			Tools:     &toolsCapability{},
			Resources: &resourcesCapability{},
		},
		ServerInfo: serverInfo{Name: serverName, Version: serverVersion},
	}, nil
}

// write sends one response as a single line. The stream carries exactly one
// JSON value per line in both directions.
func (s *Server) write(out io.Writer, resp *response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	payload = append(payload, '\n')
	_, err = out.Write(payload)
	return err
}
