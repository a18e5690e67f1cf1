package baton

import "sync"

// ConditionSignal is a monitor-style baton: a flag guarded by a mutex with a
// condition variable for parking the waiter.
//
// Await re-checks the flag in a loop, so spurious or stale broadcasts are
// absorbed. The flag is cleared under the same lock that observed it.
type ConditionSignal struct {
	mu      sync.Mutex
	cond    sync.Cond
	armed   bool
	aborted bool
}

// NewConditionSignal returns an unarmed condition signal.
func NewConditionSignal() *ConditionSignal {
	s := &ConditionSignal{}
	s.cond.L = &s.mu
	return s
}

// Arm sets the flag and wakes the single waiter.
func (s *ConditionSignal) Arm() {
	s.mu.Lock()
	s.armed = true
	s.cond.Signal()
	s.mu.Unlock()
}

// Await parks until the flag is set, then clears it.
func (s *ConditionSignal) Await() error {
	s.mu.Lock()
	for !s.armed {
		if s.aborted {
			s.mu.Unlock()
			return ErrAborted
		}
		s.cond.Wait()
	}
	s.armed = false
	s.mu.Unlock()
	return nil
}

// Abort releases the waiter. Broadcast, since Abort may race a late Await.
func (s *ConditionSignal) Abort() {
	s.mu.Lock()
	s.aborted = true
	s.cond.Broadcast()
	s.mu.Unlock()
}
