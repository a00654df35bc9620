// Package services holds the client-side state of each view: the deck list,
// the deck editor, a study session, the document upload session and the
// assistant requests.
//
// Services never hold their lock across a network call. Every completion is
// checked against a syncx.Generation before it touches state, so responses
// that were superseded, or that arrive after Close, are dropped.
package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrNotLoaded    = errors.New("no deck loaded")
	ErrNotConfirmed = errors.New("upload not confirmed")
)

// Invalidator is the cross-context invalidation channel as seen by the
// services.
type Invalidator interface {
	Publish(ctx context.Context) error
	Listen(ctx context.Context, refetch func(ctx context.Context) error) error
}

// status tracks the loading indicator and the last failure of a service.
type status struct {
	busy atomic.Int32

	mu  sync.Mutex
	err error
}

func (s *status) begin() { s.busy.Add(1) }
func (s *status) end()   { s.busy.Add(-1) }

// Busy reports whether a request is outstanding.
func (s *status) Busy() bool { return s.busy.Load() > 0 }

// Err returns the failure of the last completed request, or nil if it
// succeeded.
func (s *status) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *status) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
