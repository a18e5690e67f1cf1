// ════════════════════════════════════════════════════════════════════════════════════════════════
// 🧪 TEST SUITE: PROCESS SHUTDOWN COORDINATION
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Control System Test Suite
//
// Test Coverage:
//   - Unit tests: initial state, idempotent shutdown, channel closure
//   - Integration tests: context bridge cancellation in both orders
//   - Edge cases: concurrent Shutdown callers
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package control

import (
	"context"
	"sync"
	"testing"
	"time"
)

// ============================================================================
// TEST CONFIGURATION
// ============================================================================

const (
	testGoroutines = 16
	testWait       = 2 * time.Second
)

// ============================================================================
// UNIT TESTS - INITIALIZATION
// ============================================================================

func TestControl_InitialState(t *testing.T) {
	reset()

	if Stopped() {
		t.Fatal("Stopped should be false before Shutdown")
	}
	select {
	case <-done():
		t.Fatal("Done channel should be open before Shutdown")
	default:
	}
}

// ============================================================================
// UNIT TESTS - SHUTDOWN
// ============================================================================

func TestControl_ShutdownClosesDone(t *testing.T) {
	reset()

	Shutdown()
	if !Stopped() {
		t.Fatal("Stopped should be true after Shutdown")
	}
	select {
	case <-done():
	default:
		t.Fatal("Done channel should be closed after Shutdown")
	}
}

func TestControl_ShutdownIdempotent(t *testing.T) {
	reset()

	var wg sync.WaitGroup
	for i := 0; i < testGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Shutdown()
		}()
	}
	wg.Wait()
	Shutdown()

	if !Stopped() {
		t.Fatal("Stopped should be true after concurrent Shutdown")
	}
}

// ============================================================================
// INTEGRATION TESTS - CONTEXT BRIDGE
// ============================================================================

func TestControl_ContextCanceledByShutdown(t *testing.T) {
	reset()

	ctx, cancel := Context(context.Background())
	defer cancel()

	Shutdown()
	select {
	case <-ctx.Done():
	case <-time.After(testWait):
		t.Fatal("context was not canceled by Shutdown")
	}
}

func TestControl_ContextAfterShutdown(t *testing.T) {
	reset()
	Shutdown()

	ctx, cancel := Context(context.Background())
	defer cancel()
	if ctx.Err() == nil {
		t.Fatal("context derived after Shutdown should already be canceled")
	}
}

func TestControl_ContextCancelReleasesWatcher(t *testing.T) {
	reset()

	parent, parentCancel := context.WithCancel(context.Background())
	ctx, cancel := Context(parent)
	defer cancel()

	parentCancel()
	select {
	case <-ctx.Done():
	case <-time.After(testWait):
		t.Fatal("context should follow parent cancellation")
	}
	if Stopped() {
		t.Fatal("parent cancellation must not trigger global shutdown")
	}
}

func TestControl_ResetWhileWatcherRuns(t *testing.T) {
	for i := 0; i < testGoroutines; i++ {
		reset()
		ctx, cancel := Context(context.Background())
		cancel()
		// The watcher may still be selecting when state is replaced.
		reset()
		<-ctx.Done()
	}

	reset()
	ctx, cancel := Context(context.Background())
	defer cancel()
	Shutdown()
	select {
	case <-ctx.Done():
	case <-time.After(testWait):
		t.Fatal("context was not canceled by Shutdown after reset")
	}
}
