package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KosalSout1234/pintos/internal/fixedpoint"
)

// TestScenarioS1RunOrderByPriority reproduces spec.md section 8's S1:
// three threads of distinct priority, created from a higher-priority
// main, run strictly in descending-priority order once main gives up
// the CPU. Strict-priority scheduling never yields the CPU to a thread
// it outranks, so main must actually Block rather than merely Yield —
// a bare Yield from a thread that outranks everything else it just
// created is a no-op, and none of A/B/C would ever run.
func TestScenarioS1RunOrderByPriority(t *testing.T) {
	s := Init()
	mainThread := s.Current()
	var order []string

	_, _ = s.Create("A", 20, func(any) {
		order = append(order, "A")
		require.NoError(t, s.Unblock(mainThread))
	}, nil)
	_, _ = s.Create("B", 30, func(any) {
		order = append(order, "B")
	}, nil)
	_, _ = s.Create("C", 25, func(any) {
		order = append(order, "C")
	}, nil)

	require.NoError(t, s.Block(ReasonUnknown))

	require.Equal(t, []string{"B", "C", "A"}, order)
}

// TestScenarioS3NestedDonation reproduces spec.md section 8's S3: L
// holds lock A, M holds lock B and blocks on A, H blocks on B. L's
// effective priority rises to H's via the transitive donation walk
// through M while M itself sits blocked on A; once L releases, M
// inherits the donation until it too releases B.
func TestScenarioS3NestedDonation(t *testing.T) {
	s := Init()
	mainThread := s.Current()
	lockA := NewLock()
	lockB := NewLock()

	lHandle := make(chan *Thread, 1)
	mHandle := make(chan *Thread, 1)
	hHandle := make(chan *Thread, 1)

	_, _ = s.Create("L", 1, func(any) {
		s.Acquire(lockA)
		lHandle <- s.Current()
		require.NoError(t, s.Unblock(mainThread))
		require.NoError(t, s.Block(ReasonUnknown))
		s.Release(lockA)
	}, nil)
	require.NoError(t, s.Block(ReasonUnknown)) // let L acquire A, then hand back
	lThread := <-lHandle
	require.Equal(t, Priority(1), s.GetEffectivePriority(lThread))

	_, _ = s.Create("M", 16, func(any) {
		s.Acquire(lockB)
		mHandle <- s.Current()
		require.NoError(t, s.Unblock(mainThread))
		s.Acquire(lockA) // blocks; donates M's priority to L
		s.Release(lockA)
		s.Release(lockB)
	}, nil)
	require.NoError(t, s.Block(ReasonUnknown)) // let M acquire B, donate, and block on A
	mThread := <-mHandle
	require.Equal(t, Priority(16), s.GetEffectivePriority(lThread))

	_, _ = s.Create("H", 32, func(any) {
		require.NoError(t, s.Unblock(mainThread))
		s.Acquire(lockB) // blocks; donates transitively through M to L
		hHandle <- s.Current()
		s.Release(lockB)
	}, nil)
	require.NoError(t, s.Block(ReasonUnknown)) // let H run, donate, and block on B

	require.Equal(t, Priority(32), s.GetEffectivePriority(lThread))
	require.Equal(t, Priority(32), s.GetEffectivePriority(mThread))

	require.NoError(t, s.Unblock(lThread))
	s.CheckPreempt() // L outranks main now; runs, releases A, exits

	hThread := <-hHandle
	require.Equal(t, Priority(1), s.GetEffectivePriority(lThread))
	require.Equal(t, Priority(16), s.GetEffectivePriority(mThread))
	require.Equal(t, Priority(32), s.GetEffectivePriority(hThread))
}

// TestScenarioS4SleepWakeOrderByDeadlineNotInsertion reproduces
// spec.md section 8's S4: five threads sleep to staggered absolute
// deadlines in scrambled creation order; each wakes no earlier than
// its own deadline, and the observed wake order follows ascending
// deadline, not creation order.
func TestScenarioS4SleepWakeOrderByDeadlineNotInsertion(t *testing.T) {
	s := Init()
	var order []string
	var wg sync.WaitGroup
	wg.Add(5)
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	deadlines := []struct {
		name string
		at   uint64
	}{
		{"d3", 30}, {"d1", 10}, {"d5", 50}, {"d2", 20}, {"d4", 40},
	}
	for _, d := range deadlines {
		d := d
		_, _ = s.Create(d.name, PriDefault, func(any) {
			defer wg.Done()
			s.Sleep(d.at)
			order = append(order, d.name)
		}, nil)
	}

	s.Yield() // let every thread run up to its own Sleep call

	for i := 0; i < 55; i++ {
		s.Tick()
		s.Yield()
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sleepers never all woke")
	}

	require.Equal(t, []string{"d1", "d2", "d3", "d4", "d5"}, order)
}

// TestScenarioS5MLFQNiceLowersSchedulingPriority reproduces the
// substance of spec.md section 8's S5 (a nice-5 thread receives
// strictly less CPU than a nice-0 thread) at the scheduling-decision
// level: given identical accumulated recent_cpu, MLFQ always computes
// a lower priority for the higher-nice thread, so a strictly-correct
// ready structure always prefers the nice-0 thread. A live wall-clock
// race isn't meaningful to assert under the cooperative token model
// (see doc.go), since nothing drives ticks while a thread holds the
// CPU except that thread itself.
func TestScenarioS5MLFQNiceLowersSchedulingPriority(t *testing.T) {
	r := newReadyStructures(true)
	niceZero := newTestThread(1, PriDefault)
	niceFive := newTestThread(2, PriDefault)

	for _, th := range []*Thread{niceZero, niceFive} {
		th.recentCPU = fixedpoint.FromInt(40)
	}
	niceZero.nice = 0
	niceFive.nice = 5

	r.enqueue(niceFive)
	r.enqueue(niceZero)

	require.Less(t, niceFive.priority, niceZero.priority)
	require.Equal(t, niceZero, r.pop())
	require.Equal(t, niceFive, r.pop())
}
