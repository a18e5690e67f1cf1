// control.go — Process-wide shutdown signaling for benchmark runs
// ============================================================================
// SYSTEM CONTROL ORCHESTRATION
// ============================================================================
//
// Control package provides the global stop signal that releases every ring
// run currently in flight. The signal handler in main.go calls Shutdown();
// harness code derives per-run contexts from Context() so that parked ring
// units and the waiting harness are woken instead of hanging.
//
// Architecture overview:
//   • One global stop flag, readable without locks from any goroutine
//   • One stop channel, closed exactly once, selected on by context watchers
//   • Context bridge so library packages stay context-driven
//   • ShutdownWG lets main wait for in-flight runs to unwind
//
// Safety guarantees:
//   • Shutdown is idempotent and safe from any goroutine
//   • Flag and channel transition together, never back

package control

import (
	"context"
	"sync"
	"sync/atomic"
)

// ============================================================================
// GLOBAL STATE MANAGEMENT
// ============================================================================

var (
	// stop is 1 once shutdown has been requested; stopCh closes at the same time.
	stop     atomic.Uint32
	stopCh   = make(chan struct{})
	stopOnce sync.Once

	// ShutdownWG tracks work that must unwind before the process exits.
	ShutdownWG sync.WaitGroup
)

// ============================================================================
// SYSTEM SHUTDOWN
// ============================================================================

// Shutdown requests termination of all in-flight runs.
// Safe to call multiple times and from signal handlers' goroutines.
func Shutdown() {
	stopOnce.Do(func() {
		stop.Store(1)
		close(stopCh)
	})
}

// Stopped reports whether Shutdown has been called.
//
//go:nosplit
//go:inline
func Stopped() bool {
	return stop.Load() != 0
}

// done returns a channel closed once Shutdown has been called.
//
//go:nosplit
//go:inline
func done() <-chan struct{} {
	return stopCh
}

// ============================================================================
// CONTEXT BRIDGE
// ============================================================================

// Context derives a context from parent that is additionally canceled when
// Shutdown is called. The returned cancel func must be called to release the
// watcher.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	if Stopped() {
		cancel()
		return ctx, cancel
	}
	// reset may swap stopCh; the watcher keeps the one it started with.
	ch := stopCh
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// reset restores the initial state. Test-only.
func reset() {
	stop.Store(0)
	stopCh = make(chan struct{})
	stopOnce = sync.Once{}
}
