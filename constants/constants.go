// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Benchmark Tunables & Sweep Geometry
//
// Purpose:
//   - Defines the global increment target shared by every ring run.
//   - Fixes the warm-up passes and the doubling sweep depth.
//   - Provides defaults for workload size and the run-level deadline.
//
// Notes:
//   - Command-line flags in main.go override these per invocation
//   - Target is a multiple of every swept unit count (4096 * 400)
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

import "time"

// ───────────────────────────── Ring Workload ──────────────────────────────

const (
	// TotalIncrements is the number of handoffs performed by one run, spread
	// across all units of the ring. 4096 * 400 divides evenly by every unit
	// count of the default sweep (1 .. 4096).
	TotalIncrements = 4096 * 400

	// DefaultBlockSize is the number of integers in each unit's data block
	// when no block size is given on the command line.
	DefaultBlockSize = 1024

	// MaxBlockSize caps a single unit's block. 1<<24 ints is 128 MiB per unit.
	MaxBlockSize = 1 << 24
)

// ───────────────────────────── Sweep Geometry ─────────────────────────────

const (
	// SweepDoublings is the number of unit counts visited by a sweep:
	// 1, 2, 4, ..., 2^(SweepDoublings-1). 13 → up to 4096 threads.
	SweepDoublings = 13

	// MaxUnits bounds a single ring. Each unit owns a locked OS thread and
	// the runtime aborts the process past 10,000 threads.
	MaxUnits = 1 << 13
)

// WarmupPass describes one unrecorded run executed before a sweep.
type WarmupPass struct {
	Units     int
	BlockSize int
}

// WarmupPasses stabilises memory placement and thread creation before the
// measured sweep. Results of these runs are discarded.
var WarmupPasses = [...]WarmupPass{
	{Units: 1, BlockSize: 1024},
	{Units: 16, BlockSize: 1024},
}

// ─────────────────────────── Run Supervision ──────────────────────────────

const (
	// DefaultRunTimeout aborts a single run whose completion gate never fires.
	// A healthy 4096-thread run finishes in a few seconds.
	DefaultRunTimeout = 2 * time.Minute

	// SettleDelay separates consecutive block sizes, letting the OS retire
	// the previous sweep's threads.
	SettleDelay = time.Second
)
