// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*stubService)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fastConfig keeps restart backoff short enough for test timeouts.
func fastConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 10,
		FailureDecay:     1,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  500 * time.Millisecond,
	}
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(deadline time.Duration, cond func() bool) bool {
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func drainTree(t *testing.T, errCh <-chan error) {
	t.Helper()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("tree stopped with unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("tree did not shut down in time")
	}
}

func TestTreeConfigNormalized(t *testing.T) {
	t.Parallel()

	got := TreeConfig{}.normalized()
	if got != DefaultTreeConfig() {
		t.Errorf("zero config normalized to %+v, want defaults", got)
	}

	partial := TreeConfig{FailureBackoff: time.Minute}.normalized()
	if partial.FailureBackoff != time.Minute {
		t.Errorf("explicit backoff overwritten: %v", partial.FailureBackoff)
	}
	if partial.FailureThreshold != 5.0 {
		t.Errorf("missing threshold not defaulted: %f", partial.FailureThreshold)
	}
}

func TestTreeStartsBothLayers(t *testing.T) {
	tree, err := NewTree(quietLogger(), fastConfig())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	checkpoint := newStub("duckdb-checkpoint")
	posterScan := newStub("poster-scan")
	httpServer := newStub("http-server")

	tree.AddWorkerService(checkpoint)
	tree.AddWorkerService(posterScan)
	tree.AddAPIService(httpServer)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	started := waitUntil(time.Second, func() bool {
		return checkpoint.startCount() >= 1 && posterScan.startCount() >= 1 && httpServer.startCount() >= 1
	})
	if !started {
		t.Errorf("not all services started: checkpoint=%d poster=%d http=%d",
			checkpoint.startCount(), posterScan.startCount(), httpServer.startCount())
	}

	cancel()
	drainTree(t, errCh)
}

func TestWorkerCrashLeavesHTTPAlone(t *testing.T) {
	tree, err := NewTree(quietLogger(), fastConfig())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	crasher := newStub("crashing-worker").crashFirst(3)
	httpServer := newStub("http-server")

	tree.AddWorkerService(crasher)
	tree.AddAPIService(httpServer)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	recovered := waitUntil(2*time.Second, func() bool {
		return crasher.startCount() >= 4
	})
	if !recovered {
		t.Errorf("crashing worker restarted %d times, want at least 4 starts", crasher.startCount())
	}

	// The serving layer never noticed the maintenance-side churn.
	if got := httpServer.startCount(); got != 1 {
		t.Errorf("http server started %d times, want exactly 1", got)
	}

	cancel()
	drainTree(t, errCh)
}

func TestRunOnceWorkerStaysDown(t *testing.T) {
	tree, err := NewTree(quietLogger(), fastConfig())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	once := newStub("one-shot").finishWith(suture.ErrDoNotRestart)
	tree.AddWorkerService(once)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitUntil(500*time.Millisecond, func() bool { return once.startCount() >= 1 })
	// Give the supervisor a window in which a wrongful restart would land.
	time.Sleep(100 * time.Millisecond)

	if got := once.startCount(); got != 1 {
		t.Errorf("run-once worker started %d times, want exactly 1", got)
	}

	cancel()
	drainTree(t, errCh)
}

func TestEmptyTreeShutsDown(t *testing.T) {
	tree, err := NewTree(quietLogger(), DefaultTreeConfig())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	drainTree(t, tree.ServeBackground(ctx))
}

func TestConcurrentAddsAreSafe(t *testing.T) {
	tree, err := NewTree(quietLogger(), fastConfig())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			if i%2 == 0 {
				tree.AddWorkerService(newStub("spawned-worker"))
			} else {
				tree.AddAPIService(newStub("spawned-api"))
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	drainTree(t, tree.ServeBackground(ctx))
}

func TestUnstoppedServiceReportEmptyAfterCleanStop(t *testing.T) {
	tree, err := NewTree(quietLogger(), fastConfig())
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	coop := newStub("cooperative")
	tree.AddWorkerService(coop)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	waitUntil(500*time.Millisecond, func() bool { return coop.startCount() >= 1 })

	cancel()
	drainTree(t, errCh)

	unstopped, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport: %v", err)
	}
	if len(unstopped) != 0 {
		t.Errorf("clean shutdown left %d unstopped services", len(unstopped))
	}
}
