// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/danw628/cinelog/internal/logging"
)

// captureID runs one request through the middleware and returns the ID
// the handler saw in its logging context plus the response header value.
func captureID(t *testing.T, upstream string) (ctxID, headerID string) {
	t.Helper()

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = logging.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ratings", nil)
	if upstream != "" {
		req.Header.Set(headerRequestID, upstream)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return ctxID, rec.Header().Get(headerRequestID)
}

func TestRequestIDMintsUUID(t *testing.T) {
	t.Parallel()

	ctxID, headerID := captureID(t, "")
	if headerID == "" {
		t.Fatal("no X-Request-ID header on the response")
	}
	if _, err := uuid.Parse(headerID); err != nil {
		t.Errorf("minted ID %q is not a UUID: %v", headerID, err)
	}
	if ctxID != headerID {
		t.Errorf("context carries %q but header says %q", ctxID, headerID)
	}
}

func TestRequestIDKeepsProxyID(t *testing.T) {
	t.Parallel()

	ctxID, headerID := captureID(t, "edge-7f3a")
	if headerID != "edge-7f3a" {
		t.Errorf("header = %q, want the proxy-assigned ID", headerID)
	}
	if ctxID != "edge-7f3a" {
		t.Errorf("context = %q, want the proxy-assigned ID", ctxID)
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		_, headerID := captureID(t, "")
		if seen[headerID] {
			t.Fatalf("request ID %q minted twice", headerID)
		}
		seen[headerID] = true
	}
}

func BenchmarkRequestID(b *testing.B) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ratings", nil)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
