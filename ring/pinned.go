// pinned.go
//
// Dedicated OS thread per ring unit.
//
//   • Every unit body runs on a goroutine locked to its own OS thread,
//     so a handoff is a real thread wake, not a goroutine swap on one M.
//   • Optional CPU pinning spreads unit i onto core i mod NumCPU.
//   • The goroutine exits while still locked: the runtime then retires the
//     thread instead of returning it (and its affinity mask) to the pool.
//   • ready is released once the thread is locked and pinned, before body.
//
// Pinning failures are reported through onPinErr and never stop the unit.

package ring

import (
	"runtime"
	"sync"
)

// launchPinned starts body on a fresh locked OS thread.
func launchPinned(
	core int,
	pin bool,
	ready *sync.WaitGroup,
	onPinErr func(error),
	body func(),
) {
	go func() {
		// ── thread & affinity ─────────────────────────────
		runtime.LockOSThread()
		if pin {
			if err := setAffinity(core); err != nil && onPinErr != nil {
				onPinErr(err)
			}
		}
		ready.Done()

		body()
	}()
}

// coreFor maps a unit index onto the available CPUs.
//
//go:nosplit
//go:inline
func coreFor(unit int) int {
	return unit % runtime.NumCPU()
}
