// ════════════════════════════════════════════════════════════════════════════════════════════════
// 🔁 RING UNIT — SWITCH LOOP
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Thread-Switch Latency Benchmark
// Component: Ring participant state machine
//
// Description:
//   A unit waits for its baton, verifies its private data block, bumps the run's shared
//   counter, and arms its successor. Exactly one unit holds the baton at any instant, so the
//   critical step needs no lock of its own: mutual exclusion comes from the handoff.
//
// State machine:
//   Idle → Waiting → Active → Waiting → ... → Finished
//                      └──────→ Failed   (checksum mismatch, panic)
//   Waiting ─────────────────→ Aborted  (run canceled / timed out)
//
// Active body, in order:
//   (a) recompute checksum, fail fatally on mismatch
//   (b) increment the shared counter
//   (c) fire the completion gate when the counter reaches the target
//   (d) arm the successor's signal
//   (e) decrement the remaining budget
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package ring

import (
	"sync/atomic"

	"batonring/baton"

	"golang.org/x/sys/cpu"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// UNIT STATE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// State is a unit's position in the switch-loop state machine.
type State uint32

const (
	Idle State = iota
	Waiting
	Active
	Finished
	Failed
	Aborted
)

var stateNames = [...]string{
	Idle:     "idle",
	Waiting:  "waiting",
	Active:   "active",
	Finished: "finished",
	Failed:   "failed",
	Aborted:  "aborted",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Observer receives a callback on the unit's own thread immediately after
// the checksum check (Enter) and immediately before the successor is armed
// (Leave). Used to instrument ordering and exclusivity.
type Observer interface {
	Enter(unit, cycle int)
	Leave(unit, cycle int)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// UNIT LAYOUT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Unit is one participant of the ring.
//
// Fields other than state are owned by the unit's goroutine while the run is
// live; the harness reads them only after Wait has joined every unit.
// Padding keeps neighbouring units' hot fields on separate cache lines.
type Unit struct {
	_ cpu.CacheLinePad

	index     int
	budget    int
	remaining int
	verified  int
	block     DataBlock
	signal    baton.Signal
	next      *Unit // topological link, set once by Build
	run       *run
	observer  Observer
	state     atomic.Uint32

	_ cpu.CacheLinePad
}

// UnitStats is a read-only snapshot of a unit after the run.
type UnitStats struct {
	Index     int
	Budget    int
	Remaining int
	Verified  int
	BlockLen  int
	State     State
}

// State returns the unit's current state. Safe at any time.
//
//go:nosplit
//go:inline
func (u *Unit) State() State {
	return State(u.state.Load())
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SWITCH LOOP
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// loop runs the unit until its budget is spent, the run aborts, or its
// workload is found corrupted.
//
//go:registerparams
func (u *Unit) loop() error {
	r := u.run
	for cycle := 0; u.remaining > 0; cycle++ {
		u.state.Store(uint32(Waiting))
		if err := u.signal.Await(); err != nil {
			u.state.Store(uint32(Aborted))
			return err
		}
		u.state.Store(uint32(Active))

		// (a) touch the whole block
		if sum := u.block.Sum(); sum != u.block.checksum {
			u.state.Store(uint32(Failed))
			return &CorruptionError{Unit: u.index, Cycle: cycle, Want: u.block.checksum, Got: sum}
		}
		u.verified++

		if u.observer != nil {
			u.observer.Enter(u.index, cycle)
		}

		// (b) + (c)
		if r.counter.Add(1) == r.target {
			r.gate.Complete()
		}

		if u.observer != nil {
			u.observer.Leave(u.index, cycle)
		}

		// (d) + (e)
		u.next.signal.Arm()
		u.remaining--
	}
	u.state.Store(uint32(Finished))
	return nil
}

// stats snapshots the unit. Callers must have joined the unit first.
func (u *Unit) stats() UnitStats {
	return UnitStats{
		Index:     u.index,
		Budget:    u.budget,
		Remaining: u.remaining,
		Verified:  u.verified,
		BlockLen:  u.block.Len(),
		State:     u.State(),
	}
}
