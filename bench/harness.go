// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⏱  TIMING HARNESS
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Thread-Switch Latency Benchmark
// Component: Run driver, warm-up and doubling sweep
//
// Description:
//   Builds a fresh ring per configuration, starts every unit thread, then times the interval
//   between arming unit 0 and the completion gate firing. Thread creation and join are kept
//   outside the measured window. Elapsed time divided by the increment target is the mean
//   cost of one switch.
//
// Measurement:
//   - time.Now carries the monotonic clock reading; Sub uses it exclusively
//   - Context-switch counters (getrusage) are sampled around the same window
//   - Warm-up passes run unrecorded before the first sweep
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package bench

import (
	"context"
	"fmt"
	"time"

	"batonring/baton"
	"batonring/constants"
	"batonring/debug"
	"batonring/ring"
	"batonring/utils"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Config holds the parameters shared by every run of one harness.
type Config struct {
	Signal    baton.Kind
	Target    int
	Doublings int
	Timeout   time.Duration
	Remainder ring.RemainderPolicy
	Pin       bool
}

// DefaultConfig returns the settings of the reference benchmark.
func DefaultConfig() Config {
	return Config{
		Signal:    baton.Condition,
		Target:    constants.TotalIncrements,
		Doublings: constants.SweepDoublings,
		Timeout:   constants.DefaultRunTimeout,
		Remainder: ring.RemainderSpread,
	}
}

// Validate checks the harness-level parameters. Under RemainderReject the
// target must divide evenly by every ring size the harness will build, warm-up
// passes included, so an indivisible target fails here and not mid-sweep.
func (c *Config) Validate() error {
	switch {
	case c.Target < 1:
		return fmt.Errorf("%w: target %d must be positive", ring.ErrInvalidConfig, c.Target)
	case c.Doublings < 1 || c.Doublings > maxDoublings():
		return fmt.Errorf("%w: doublings %d outside [1, %d]", ring.ErrInvalidConfig, c.Doublings, maxDoublings())
	case c.Timeout < 0:
		return fmt.Errorf("%w: negative timeout %v", ring.ErrInvalidConfig, c.Timeout)
	}
	if c.Remainder != ring.RemainderReject {
		return nil
	}
	sizes := c.unitCounts()
	for _, p := range constants.WarmupPasses {
		sizes = append(sizes, p.Units)
	}
	for _, n := range sizes {
		rc := ring.Config{Units: n, BlockSize: 1, Target: c.Target, Remainder: c.Remainder}
		if err := rc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// unitCounts lists 1, 2, 4, ... for the configured number of doublings,
// omitting sizes above the target.
func (c *Config) unitCounts() []int {
	out := make([]int, 0, c.Doublings)
	for i, n := 0, 1; i < c.Doublings; i, n = i+1, n*2 {
		if n > c.Target {
			break
		}
		out = append(out, n)
	}
	return out
}

// maxDoublings is the deepest sweep whose largest ring fits MaxUnits.
func maxDoublings() int {
	n := 0
	for 1<<n <= constants.MaxUnits {
		n++
	}
	return n
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// RESULTS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Result is the measurement of one recorded run.
type Result struct {
	Signal     baton.Kind
	Units      int
	BlockSize  int
	Increments int64
	Elapsed    time.Duration

	// Process-wide context switches during the timed window. Zero where
	// the platform does not expose them.
	VoluntarySwitches   int64
	InvoluntarySwitches int64
}

// PerSwitch returns the mean time of one handoff.
func (r Result) PerSwitch() time.Duration {
	if r.Increments == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Increments)
}

// MicrosPerSwitch returns the mean handoff time in fractional microseconds.
func (r Result) MicrosPerSwitch() float64 {
	if r.Increments == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / 1e3 / float64(r.Increments)
}

// Millis returns the whole-run time in milliseconds.
func (r Result) Millis() int64 {
	return r.Elapsed.Milliseconds()
}

// BlockBytes returns the size of one unit's data block.
func (r Result) BlockBytes() int {
	return 4 * r.BlockSize
}

// usage is a sample of the process context-switch counters.
type usage struct {
	voluntary   int64
	involuntary int64
}

// UsageSupported reports whether Result carries context-switch counts.
func UsageSupported() bool {
	return usageSupported
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// HARNESS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Sink receives every recorded result. Returning an error stops a sweep.
type Sink func(Result) error

// Harness drives ring runs for one signal kind.
type Harness struct {
	cfg  Config
	sink Sink
}

// New validates cfg and returns a harness. sink may be nil.
func New(cfg Config, sink Sink) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Harness{cfg: cfg, sink: sink}, nil
}

// Config returns the harness settings.
func (h *Harness) Config() Config {
	return h.cfg
}

// RunOnce builds and times one ring of units threads with blockSize-entry
// workloads. When record is set the result is also delivered to the sink.
//
//go:registerparams
func (h *Harness) RunOnce(ctx context.Context, units, blockSize int, record bool) (Result, error) {
	res := Result{Signal: h.cfg.Signal, Units: units, BlockSize: blockSize}

	r, err := ring.Build(ring.Config{
		Units:     units,
		BlockSize: blockSize,
		Target:    h.cfg.Target,
		Signal:    h.cfg.Signal,
		Remainder: h.cfg.Remainder,
		Pin:       h.cfg.Pin,
		Timeout:   h.cfg.Timeout,
	})
	if err != nil {
		return res, err
	}
	if err := r.Start(ctx); err != nil {
		return res, err
	}
	if err := r.PinErr(); err != nil {
		debug.DropError("PIN", err)
	}

	// ───── Timed window: kick → gate ─────
	before := sampleUsage()
	start := time.Now()
	r.Kick()
	select {
	case <-r.Gate().Done():
	case <-r.Done():
	}
	elapsed := time.Since(start)
	after := sampleUsage()

	if err := r.Wait(); err != nil {
		return res, fmt.Errorf("%s ring of %d units: %w", h.cfg.Signal, units, err)
	}

	res.Increments = r.Counter()
	res.Elapsed = elapsed
	res.VoluntarySwitches = after.voluntary - before.voluntary
	res.InvoluntarySwitches = after.involuntary - before.involuntary

	if record && h.sink != nil {
		if err := h.sink(res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// WarmUp runs the fixed unrecorded passes.
func (h *Harness) WarmUp(ctx context.Context) error {
	for _, p := range constants.WarmupPasses {
		debug.DropMessage("WARMUP", h.cfg.Signal.String()+" "+utils.Itoa(p.Units)+" threads")
		if _, err := h.RunOnce(ctx, p.Units, p.BlockSize, false); err != nil {
			return err
		}
	}
	return nil
}

// UnitCounts lists the ring sizes visited by Sweep.
func (h *Harness) UnitCounts() []int {
	return h.cfg.unitCounts()
}

// Sweep times every unit count for one block size, stopping at the first
// error.
func (h *Harness) Sweep(ctx context.Context, blockSize int) error {
	for _, n := range h.UnitCounts() {
		if _, err := h.RunOnce(ctx, n, blockSize, true); err != nil {
			return err
		}
	}
	return nil
}
