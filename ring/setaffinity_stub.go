// setaffinity_stub.go - CPU affinity no-op for platforms without
// sched_setaffinity(2). Units still run on dedicated locked threads; only
// core placement is left to the OS.

//go:build !linux

package ring

func setAffinity(cpu int) error {
	return nil
}
