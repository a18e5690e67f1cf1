package baton

import "sync/atomic"

// CompletionSignal is a future-style baton. Each cycle has its own Promise:
// Arm completes the current one, Await waits for it and installs a fresh one
// for the next cycle.
//
// The swap is safe without a lock because the ring arms a unit only after
// that unit's previous Await returned, so Arm never observes a consumed
// promise.
type CompletionSignal struct {
	current atomic.Pointer[Promise]
	abort   abortLatch
}

// NewCompletionSignal returns a signal holding one incomplete promise.
func NewCompletionSignal() *CompletionSignal {
	s := &CompletionSignal{abort: abortLatch{ch: make(chan struct{})}}
	s.current.Store(NewPromise())
	return s
}

// Arm completes the pending promise. A second Arm before Await is a no-op.
//
//go:nosplit
//go:inline
func (s *CompletionSignal) Arm() {
	s.current.Load().Complete()
}

// Await blocks on the pending promise, then replaces it.
func (s *CompletionSignal) Await() error {
	p := s.current.Load()
	select {
	case <-p.Done():
	case <-s.abort.ch:
		if !p.Completed() {
			return ErrAborted
		}
	}
	s.current.Store(NewPromise())
	return nil
}

// Abort releases the waiter.
func (s *CompletionSignal) Abort() {
	s.abort.trip()
}
