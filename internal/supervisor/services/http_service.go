// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Server is the slice of *http.Server the supervised wrapper drives.
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService adapts net/http's blocking ListenAndServe to
// suture's context-driven Serve. Cancellation turns into a graceful
// Shutdown with a bounded drain window for in-flight requests.
type HTTPServerService struct {
	server       Server
	drainTimeout time.Duration
}

// NewHTTPServerService wraps server for supervision. A non-positive
// drainTimeout gets a 10s default.
func NewHTTPServerService(server Server, drainTimeout time.Duration) *HTTPServerService {
	if drainTimeout <= 0 {
		drainTimeout = 10 * time.Second
	}
	return &HTTPServerService{server: server, drainTimeout: drainTimeout}
}

// Serve implements suture.Service.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- s.server.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http listener: %w", err)
		}
		// The listener closed without being asked to. Returning nil
		// lets suture bring it back up.
		return nil

	case <-ctx.Done():
	}

	// ctx is already dead, so the drain window runs on its own context.
	drainCtx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()

	if err := s.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain http connections: %w", err)
	}

	<-listenErr
	return ctx.Err()
}

// String names the service in suture's event log.
func (s *HTTPServerService) String() string {
	return "http-server"
}
