// ════════════════════════════════════════════════════════════════════════════════════════════════
// 🔔 BATON SIGNALS
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Thread-Switch Latency Benchmark
// Component: Single-writer / single-reader wake primitives
//
// Description:
//   A baton signal transfers the right to run from one ring unit to the next. One side arms
//   the signal, the other blocks until it is armed, consumes the arming and leaves the signal
//   ready for the next cycle. Variants differ only in the blocking primitive underneath, which
//   is exactly what the benchmark measures.
//
// Variants:
//   - Condition:  mutex + sync.Cond + flag, re-checked in a loop against spurious wakeups
//   - Completion: one-shot Promise per cycle, replaced after every consumption
//   - Channel:    capacity-1 channel, the runtime's native handoff
//
// Guarantees (all variants):
//   - No lost wakeups: Arm before Await and Await before Arm both succeed
//   - No double consumption: repeated Arm without Await counts once
//   - True blocking: waiters park, they never spin
//   - Arm → Await establishes happens-before for everything written before Arm
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package baton

import (
	"errors"
	"strings"
	"sync"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONTRACT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// ErrAborted is returned by Await once the signal has been aborted.
var ErrAborted = errors.New("baton: wait aborted")

// Signal is the wake primitive owned by one ring unit.
//
// Arm may be called by any goroutine. Await must only be called by the owning
// unit. Abort is sticky: every Await after it returns ErrAborted unless an
// arming is already observable.
type Signal interface {
	// Arm marks the signal fired and wakes the waiter, if any.
	Arm()

	// Await blocks until the signal is armed, then consumes the arming.
	Await() error

	// Abort releases the current and every future Await with ErrAborted.
	Abort()
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// VARIANT SELECTION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Kind selects a Signal implementation.
type Kind uint8

const (
	Condition Kind = iota
	Completion
	Channel
)

var kindNames = [...]string{
	Condition:  "condition",
	Completion: "completion",
	Channel:    "channel",
}

// String returns the lower-case name used on the command line.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds lists every variant in benchmark order.
func Kinds() []Kind {
	return []Kind{Condition, Completion, Channel}
}

// ParseKind resolves a variant name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, errors.New("baton: unknown signal kind " + `"` + name + `"`)
}

// New returns a fresh, unarmed signal of the given kind.
// Unknown kinds fall back to Condition.
func New(k Kind) Signal {
	switch k {
	case Completion:
		return NewCompletionSignal()
	case Channel:
		return NewChannelSignal()
	default:
		return NewConditionSignal()
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SHARED ABORT LATCH
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// abortLatch is a close-once channel shared by the channel-based variants.
type abortLatch struct {
	ch   chan struct{}
	once sync.Once
}

//go:nosplit
//go:inline
func (a *abortLatch) trip() {
	a.once.Do(func() { close(a.ch) })
}
