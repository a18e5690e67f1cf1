//go:build linux

package bench

import "golang.org/x/sys/unix"

const usageSupported = true

// sampleUsage reads the process-wide context-switch counters.
// Counters are cumulative; RunOnce reports the delta across one run.
func sampleUsage() usage {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return usage{}
	}
	return usage{
		voluntary:   int64(ru.Nvcsw),
		involuntary: int64(ru.Nivcsw),
	}
}
