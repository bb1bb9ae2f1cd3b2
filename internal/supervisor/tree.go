// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes restart behavior for every supervisor in the tree.
// The zero value is usable; NewTree fills in suture's stock parameters.
type TreeConfig struct {
	// FailureThreshold is how many decayed failures a supervisor
	// tolerates before it stops hot-restarting and backs off.
	FailureThreshold float64

	// FailureDecay is the half-life, in seconds, of the failure count.
	FailureDecay float64

	// FailureBackoff is how long a supervisor sits out once the
	// threshold is crossed.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long a stopping service may take
	// before it is reported as unstopped.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig mirrors suture's own defaults, written out so the
// numbers show up in one greppable place.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) normalized() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

// Tree is the two-layer supervision hierarchy the server runs under.
// Maintenance loops (database checkpointing, the poster scanner) live in
// one child supervisor and the HTTP server in another, so a crash loop
// on either side leaves the other side running.
type Tree struct {
	root        *suture.Supervisor
	maintenance *suture.Supervisor
	serving     *suture.Supervisor
}

// NewTree wires up the root and its two child supervisors. Restart
// events are reported through logger via sutureslog, which keeps suture
// output in the same stream as everything else.
func NewTree(logger *slog.Logger, config TreeConfig) (*Tree, error) {
	config = config.normalized()

	spec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	// Only the root carries the event hook; children inherit it when
	// added. sutureslog exposes the hook through (&Handler{}).MustHook.
	rootSpec := spec
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &Tree{
		root:        suture.New("cinelog", rootSpec),
		maintenance: suture.New("maintenance", spec),
		serving:     suture.New("http", spec),
	}
	t.root.Add(t.maintenance)
	t.root.Add(t.serving)

	return t, nil
}

// AddWorkerService places a periodic maintenance loop under the
// maintenance supervisor.
func (t *Tree) AddWorkerService(svc suture.Service) suture.ServiceToken {
	return t.maintenance.Add(svc)
}

// AddAPIService places the HTTP server under its own supervisor.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.serving.Add(svc)
}

// ServeBackground starts the whole tree on a fresh goroutine. The
// returned channel delivers the terminal error once ctx is canceled and
// shutdown completes.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport names services still running after shutdown
// was requested and the timeout elapsed. Main logs it before exiting.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
