package baton

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST CONFIGURATION
// ============================================================================

const (
	pingPongRounds = 10000
	blockedProbe   = 20 * time.Millisecond
	testDeadline   = 5 * time.Second
)

// forEachKind runs fn as a subtest against every signal variant.
func forEachKind(t *testing.T, fn func(t *testing.T, k Kind)) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) { fn(t, k) })
	}
}

// awaitAsync starts Await on a goroutine and returns its result channel.
func awaitAsync(s Signal) <-chan error {
	out := make(chan error, 1)
	go func() { out <- s.Await() }()
	return out
}

// ============================================================================
// KIND SELECTION
// ============================================================================

func TestKind_ParseRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}

	got, err := ParseKind("  Completion ")
	require.NoError(t, err)
	require.Equal(t, Completion, got)

	_, err = ParseKind("spinlock")
	require.Error(t, err)
	require.Equal(t, "unknown", Kind(42).String())
}

func TestNew_Variants(t *testing.T) {
	require.IsType(t, &ConditionSignal{}, New(Condition))
	require.IsType(t, &CompletionSignal{}, New(Completion))
	require.IsType(t, &ChannelSignal{}, New(Channel))
	require.IsType(t, &ConditionSignal{}, New(Kind(99)))
}

// ============================================================================
// WAKEUP ORDERING
// ============================================================================

func TestSignal_ArmBeforeAwait(t *testing.T) {
	forEachKind(t, func(t *testing.T, k Kind) {
		s := New(k)
		s.Arm()
		require.NoError(t, s.Await())
	})
}

func TestSignal_AwaitBeforeArm(t *testing.T) {
	forEachKind(t, func(t *testing.T, k Kind) {
		s := New(k)
		res := awaitAsync(s)

		select {
		case err := <-res:
			t.Fatalf("Await returned before Arm: %v", err)
		case <-time.After(blockedProbe):
		}

		s.Arm()
		select {
		case err := <-res:
			require.NoError(t, err)
		case <-time.After(testDeadline):
			t.Fatal("Await did not return after Arm")
		}
	})
}

func TestSignal_NoDoubleConsumption(t *testing.T) {
	forEachKind(t, func(t *testing.T, k Kind) {
		s := New(k)
		s.Arm()
		s.Arm()
		require.NoError(t, s.Await())

		res := awaitAsync(s)
		select {
		case err := <-res:
			t.Fatalf("second Await consumed a duplicate arming: %v", err)
		case <-time.After(blockedProbe):
		}
		s.Abort()
		require.ErrorIs(t, <-res, ErrAborted)
	})
}

func TestSignal_Reusable(t *testing.T) {
	forEachKind(t, func(t *testing.T, k Kind) {
		s := New(k)
		for i := 0; i < 100; i++ {
			s.Arm()
			require.NoError(t, s.Await())
		}
	})
}

// ============================================================================
// ABORT
// ============================================================================

func TestSignal_AbortReleasesWaiter(t *testing.T) {
	forEachKind(t, func(t *testing.T, k Kind) {
		s := New(k)
		res := awaitAsync(s)
		time.Sleep(blockedProbe)
		s.Abort()

		select {
		case err := <-res:
			require.True(t, errors.Is(err, ErrAborted))
		case <-time.After(testDeadline):
			t.Fatal("Abort did not release Await")
		}
	})
}

func TestSignal_AbortIsSticky(t *testing.T) {
	forEachKind(t, func(t *testing.T, k Kind) {
		s := New(k)
		s.Abort()
		s.Abort()
		require.ErrorIs(t, s.Await(), ErrAborted)
		require.ErrorIs(t, s.Await(), ErrAborted)
	})
}

func TestSignal_PendingArmWinsOverAbort(t *testing.T) {
	forEachKind(t, func(t *testing.T, k Kind) {
		s := New(k)
		s.Arm()
		s.Abort()
		require.NoError(t, s.Await())
		require.ErrorIs(t, s.Await(), ErrAborted)
	})
}

// ============================================================================
// CONCURRENCY
// ============================================================================

// TestSignal_PingPong alternates two goroutines over a pair of signals and
// checks that plain writes made before Arm are visible after Await.
func TestSignal_PingPong(t *testing.T) {
	forEachKind(t, func(t *testing.T, k Kind) {
		a, b := New(k), New(k)
		var shared int
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < pingPongRounds; i++ {
				if b.Await() != nil {
					return
				}
				shared++
				a.Arm()
			}
		}()

		for i := 0; i < pingPongRounds; i++ {
			shared++
			b.Arm()
			require.NoError(t, a.Await())
		}
		wg.Wait()
		require.Equal(t, 2*pingPongRounds, shared)
	})
}

// ============================================================================
// PROMISE
// ============================================================================

func TestPromise_CompleteOnce(t *testing.T) {
	p := NewPromise()
	require.False(t, p.Completed())
	require.True(t, p.Complete())
	require.False(t, p.Complete())
	require.True(t, p.Completed())
	require.Equal(t, struct{}{}, <-p.Done())
}

func TestPromise_ConcurrentComplete(t *testing.T) {
	const trials = 100
	for i := 0; i < trials; i++ {
		p := NewPromise()
		var wins sync.WaitGroup
		var mu sync.Mutex
		won := 0
		for g := 0; g < 4; g++ {
			wins.Add(1)
			go func() {
				defer wins.Done()
				if p.Complete() {
					mu.Lock()
					won++
					mu.Unlock()
				}
			}()
		}
		wins.Wait()
		require.Equal(t, 1, won)
	}
}

// ============================================================================
// BENCHMARKS
// ============================================================================

func benchmarkPingPong(b *testing.B, k Kind) {
	x, y := New(k), New(k)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if y.Await() != nil {
				return
			}
			x.Arm()
		}
	}()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		y.Arm()
		_ = x.Await()
	}
	b.StopTimer()
	y.Abort()
	<-done
}

func BenchmarkPingPong_Condition(b *testing.B)  { benchmarkPingPong(b, Condition) }
func BenchmarkPingPong_Completion(b *testing.B) { benchmarkPingPong(b, Completion) }
func BenchmarkPingPong_Channel(b *testing.B)    { benchmarkPingPong(b, Channel) }
