// ============================================================================
// RING TOPOLOGY & RUN SUPERVISION
// ============================================================================
//
// A Ring is built once per run: N units, each linked to its cyclic successor,
// each on its own locked OS thread. All mutable run state (shared counter,
// completion gate, first fatal error) lives in a run value owned by the Ring,
// so consecutive or concurrent runs never share anything.
//
// Lifecycle:
//   Build  → units constructed, links wired, nothing running
//   Start  → one thread per unit, returns once every thread is running
//   Kick   → arms unit 0 (the only external arming)
//   Wait   → blocks on the gate or the run context, then joins every unit
//
// Failure model:
//   - A checksum mismatch or a panic in any unit cancels the run. Cancellation
//     aborts every baton signal, so parked units and the harness are released
//     instead of waiting forever for a handoff that cannot come.
//   - The run deadline and the caller's context cancel the run the same way.
//   - Wait reports the first fatal error; abort returns caused by it are not
//     reported separately.

package ring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"batonring/baton"

	"golang.org/x/sys/cpu"
)

// ============================================================================
// RUN STATE
// ============================================================================

// run is the per-run shared state. The counter sits on its own cache line;
// it is the only word written by every unit.
type run struct {
	_       cpu.CacheLinePad
	counter atomic.Int64
	_       cpu.CacheLinePad

	target int64
	gate   *baton.Promise

	ctx    context.Context
	cancel context.CancelCauseFunc
	done   chan struct{}

	errOnce sync.Once
	err     error
}

// fail records err as the run's fatal error, if it is the first, and cancels
// the run.
func (r *run) fail(err error) {
	r.errOnce.Do(func() { r.err = err })
	r.cancel(err)
}

// ============================================================================
// RING
// ============================================================================

// Ring is an immutable cyclic topology of units plus the state of one run.
type Ring struct {
	cfg   Config
	units []*Unit
	run   *run

	started atomic.Bool
	kicked  atomic.Bool
	joined  sync.WaitGroup

	stopAbort func() bool
	release   context.CancelFunc

	pinOnce sync.Once
	pinErr  error
}

// Build validates cfg and constructs the ring. Nothing runs until Start.
func Build(cfg Config) (*Ring, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	budgets, err := Budgets(cfg.Units, cfg.Target, cfg.Remainder)
	if err != nil {
		return nil, err
	}

	rn := &run{
		target: int64(cfg.Target),
		gate:   baton.NewPromise(),
		done:   make(chan struct{}),
	}
	units := make([]*Unit, cfg.Units)
	for i := range units {
		units[i] = &Unit{
			index:     i,
			budget:    budgets[i],
			remaining: budgets[i],
			block:     NewDataBlock(i, cfg.BlockSize),
			signal:    baton.New(cfg.Signal),
			run:       rn,
			observer:  cfg.Observer,
		}
	}
	for i, u := range units {
		u.next = units[(i+1)%len(units)]
	}

	return &Ring{cfg: cfg, units: units, run: rn}, nil
}

// Size returns the number of units.
func (r *Ring) Size() int {
	return len(r.units)
}

// Target returns the number of increments this run must perform.
func (r *Ring) Target() int64 {
	return r.run.target
}

// Counter returns the shared counter.
func (r *Ring) Counter() int64 {
	return r.run.counter.Load()
}

// Gate exposes the completion gate, fired once by whichever unit performs
// the final increment.
func (r *Ring) Gate() *baton.Promise {
	return r.run.gate
}

// Done is closed when the run is canceled, times out or fails. It is not
// closed by a successful completion; watch Gate for that. Before Start it
// simply stays open.
func (r *Ring) Done() <-chan struct{} {
	return r.run.done
}

// PinErr returns the first CPU pinning failure, if any. Valid after Start.
func (r *Ring) PinErr() error {
	return r.pinErr
}

// ============================================================================
// START / KICK
// ============================================================================

// Start launches one locked OS thread per unit and returns once every thread
// has been created. Units then park on their unarmed signals.
//
// The run is bound to ctx: canceling ctx aborts the run, and an already
// canceled ctx starts nothing. Config.Timeout, when positive, adds a
// deadline on top.
func (r *Ring) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return classify(context.Cause(ctx))
	}
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	base, release := ctx, context.CancelFunc(func() {})
	if r.cfg.Timeout > 0 {
		base, release = context.WithTimeoutCause(ctx, r.cfg.Timeout, ErrRunTimeout)
	}
	r.release = release
	r.run.ctx, r.run.cancel = context.WithCancelCause(base)
	r.stopAbort = context.AfterFunc(r.run.ctx, r.abortAll)

	var ready sync.WaitGroup
	ready.Add(len(r.units))
	r.joined.Add(len(r.units))
	for _, u := range r.units {
		launchPinned(coreFor(u.index), r.cfg.Pin, &ready, r.recordPinErr, func() {
			defer r.joined.Done()
			r.supervise(u)
		})
	}
	ready.Wait()
	return nil
}

// Kick arms unit 0 and lets the baton start circulating. Only the first
// call has an effect.
func (r *Ring) Kick() {
	if r.kicked.CompareAndSwap(false, true) {
		r.units[0].signal.Arm()
	}
}

// supervise runs one unit and converts its exit into run-level outcome.
func (r *Ring) supervise(u *Unit) {
	defer func() {
		if p := recover(); p != nil {
			u.state.Store(uint32(Failed))
			r.run.fail(fmt.Errorf("%w: unit %d: %v", ErrUnitExited, u.index, p))
		}
	}()

	err := u.loop()
	switch {
	case err == nil:
	case errors.Is(err, baton.ErrAborted):
		// released by cancellation; the cause is already recorded
	default:
		r.run.fail(err)
	}
}

// abortAll releases every parked unit and closes Done. Runs once, when the
// run context ends.
func (r *Ring) abortAll() {
	close(r.run.done)
	for _, u := range r.units {
		u.signal.Abort()
	}
}

func (r *Ring) recordPinErr(err error) {
	r.pinOnce.Do(func() { r.pinErr = err })
}

// ============================================================================
// WAIT / JOIN
// ============================================================================

// Wait blocks until the completion gate fires or the run is canceled, then
// joins every unit. It returns nil only when the full target was reached.
func (r *Ring) Wait() error {
	if !r.started.Load() {
		return ErrNotStarted
	}

	select {
	case <-r.run.gate.Done():
	case <-r.run.ctx.Done():
	}
	r.joined.Wait()

	r.stopAbort()
	r.run.cancel(nil)
	r.release()

	if r.run.err != nil {
		return r.run.err
	}
	if r.run.gate.Completed() {
		return nil
	}
	return classify(context.Cause(r.run.ctx))
}

// Run is Start, Kick and Wait in sequence.
func (r *Ring) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	r.Kick()
	return r.Wait()
}

// Stats snapshots every unit. Call only after Wait.
func (r *Ring) Stats() []UnitStats {
	out := make([]UnitStats, len(r.units))
	for i, u := range r.units {
		out[i] = u.stats()
	}
	return out
}

// classify maps a context cause onto the ring's error set.
func classify(cause error) error {
	switch {
	case cause == nil:
		return ErrRunCanceled
	case errors.Is(cause, ErrRunTimeout):
		return ErrRunTimeout
	case errors.Is(cause, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrRunTimeout, cause)
	default:
		return fmt.Errorf("%w: %w", ErrRunCanceled, cause)
	}
}
