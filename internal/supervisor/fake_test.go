// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

var errStubCrash = errors.New("stub crash")

// stubService stands in for a real worker in tree tests. It counts how
// often the supervisor starts it, crashes on its first few serves if
// asked to, and otherwise parks until the context ends. Configure it
// before handing it to a supervisor; the knobs are not synchronized.
type stubService struct {
	name         string
	starts       atomic.Int32
	crashesLeft  atomic.Int32
	permanentErr error
}

func newStub(name string) *stubService {
	return &stubService{name: name}
}

// crashFirst makes the next n Serve calls fail with errStubCrash.
func (s *stubService) crashFirst(n int32) *stubService {
	s.crashesLeft.Store(n)
	return s
}

// finishWith makes Serve return err immediately instead of parking.
// Pass suture.ErrDoNotRestart to simulate a run-once worker.
func (s *stubService) finishWith(err error) *stubService {
	s.permanentErr = err
	return s
}

func (s *stubService) Serve(ctx context.Context) error {
	s.starts.Add(1)

	if s.crashesLeft.Add(-1) >= 0 {
		return errStubCrash
	}
	if s.permanentErr != nil {
		return s.permanentErr
	}

	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) startCount() int32 {
	return s.starts.Load()
}

// String names the stub in suture's event log.
func (s *stubService) String() string {
	return s.name
}
