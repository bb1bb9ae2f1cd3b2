// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package services

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/danw628/cinelog/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetLogger(logging.NewTestLogger(io.Discard))
	os.Exit(m.Run())
}

type mockCheckpointer struct {
	count atomic.Int32
	mu    sync.Mutex
	err   error
}

func (m *mockCheckpointer) Checkpoint(ctx context.Context) error {
	m.count.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *mockCheckpointer) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockCheckpointer) calls() int {
	return int(m.count.Load())
}

func TestCheckpointService_Interface(t *testing.T) {
	var _ suture.Service = (*CheckpointService)(nil)
}

func TestNewCheckpointService(t *testing.T) {
	db := &mockCheckpointer{}
	svc := NewCheckpointService(db, 5*time.Minute, 30*time.Second)

	if svc.interval != 5*time.Minute {
		t.Errorf("expected interval 5m, got %v", svc.interval)
	}
	if svc.timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", svc.timeout)
	}
	if svc.name != "duckdb-checkpoint" {
		t.Errorf("expected name 'duckdb-checkpoint', got %q", svc.name)
	}
}

func TestNewCheckpointService_DefaultTimeout(t *testing.T) {
	svc := NewCheckpointService(&mockCheckpointer{}, time.Minute, 0)
	if svc.timeout != time.Minute {
		t.Errorf("expected default timeout 1m, got %v", svc.timeout)
	}
}

func TestCheckpointService_Serve(t *testing.T) {
	t.Run("checkpoints on every tick", func(t *testing.T) {
		db := &mockCheckpointer{}
		svc := NewCheckpointService(db, 10*time.Millisecond, time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := svc.Serve(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}

		if db.calls() < 2 {
			t.Errorf("expected at least 2 checkpoints, got %d", db.calls())
		}
	})

	t.Run("checkpoint failure does not stop the service", func(t *testing.T) {
		db := &mockCheckpointer{}
		db.setError(errors.New("database is locked"))
		svc := NewCheckpointService(db, 10*time.Millisecond, time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := svc.Serve(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}

		// Failures are retried, so the tick count keeps climbing.
		if db.calls() < 2 {
			t.Errorf("expected retries after failure, got %d calls", db.calls())
		}
	})

	t.Run("stops promptly on cancellation", func(t *testing.T) {
		db := &mockCheckpointer{}
		svc := NewCheckpointService(db, time.Hour, time.Second)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Serve did not return after cancellation")
		}

		if db.calls() != 0 {
			t.Errorf("expected no checkpoints before first tick, got %d", db.calls())
		}
	})
}

func TestCheckpointService_String(t *testing.T) {
	svc := NewCheckpointService(&mockCheckpointer{}, time.Minute, time.Second)
	if svc.String() != "duckdb-checkpoint" {
		t.Errorf("expected 'duckdb-checkpoint', got %q", svc.String())
	}
}
