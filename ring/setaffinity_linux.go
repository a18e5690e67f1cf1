// setaffinity_linux.go - Linux CPU affinity via sched_setaffinity(2)

//go:build linux

package ring

import "golang.org/x/sys/unix"

// setAffinity pins the calling OS thread to one CPU core.
// The caller must hold runtime.LockOSThread.
func setAffinity(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set) // 0 = current thread
}
