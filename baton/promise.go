package baton

import "sync/atomic"

// Promise is a single-use completable handle.
//
// The first Complete closes Done; later calls are no-ops that report false.
// A Promise is never reset: callers that need another cycle allocate a new
// one. The ring's completion gate is a Promise.
type Promise struct {
	done  chan struct{}
	state atomic.Uint32
}

// NewPromise returns an incomplete promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Complete resolves the promise. It reports whether this call did so.
//
//go:nosplit
//go:inline
func (p *Promise) Complete() bool {
	if !p.state.CompareAndSwap(0, 1) {
		return false
	}
	close(p.done)
	return true
}

// Done returns a channel that is closed once the promise completes.
//
//go:nosplit
//go:inline
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Completed reports whether Done is already closed.
func (p *Promise) Completed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}
