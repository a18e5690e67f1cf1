package baton

// ChannelSignal hands the baton over a buffered channel of capacity one.
// The buffer holds at most one pending arming; extra Arm calls are dropped.
type ChannelSignal struct {
	ch    chan struct{}
	abort abortLatch
}

// NewChannelSignal returns an unarmed channel signal.
func NewChannelSignal() *ChannelSignal {
	return &ChannelSignal{
		ch:    make(chan struct{}, 1),
		abort: abortLatch{ch: make(chan struct{})},
	}
}

// Arm deposits the baton without blocking.
//
//go:nosplit
//go:inline
func (s *ChannelSignal) Arm() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Await receives the baton.
func (s *ChannelSignal) Await() error {
	select {
	case <-s.ch:
		return nil
	case <-s.abort.ch:
		select {
		case <-s.ch:
			return nil
		default:
			return ErrAborted
		}
	}
}

// Abort releases the waiter.
func (s *ChannelSignal) Abort() {
	s.abort.trip()
}
