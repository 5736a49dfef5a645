package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitCreatesMainAndIdleThreads(t *testing.T) {
	s := Init()
	require.Equal(t, StatusRunning, s.Current().Status())
	require.Equal(t, TID(0), s.Current().TID())
	require.NotNil(t, s.idleThread)
	require.Equal(t, "idle", s.idleThread.Name())

	count := 0
	s.Foreach(func(*Thread) bool { count++; return true })
	require.Equal(t, 2, count)
}

func TestCreateAssignsIncrementingTIDsAndReadiesThread(t *testing.T) {
	s := Init()
	done := make(chan struct{})

	tid, err := s.Create("worker", PriDefault, func(any) {
		close(done)
	}, nil)
	require.NoError(t, err)
	require.Equal(t, TID(2), tid) // 0=main, 1=idle, 2=worker

	s.Yield()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker never ran")
	}
}

func TestHigherPriorityThreadRunsBeforeLowerUnderStrictDiscipline(t *testing.T) {
	s := Init()
	var order []string

	// low shares main's own priority so it keeps its turn once main
	// re-enqueues itself behind it (ties broken FIFO); a thread with
	// priority strictly below main's would never run at all until main
	// blocks or exits, since strict-priority scheduling never yields
	// the CPU to a thread it outranks.
	_, _ = s.Create("low", PriDefault, func(any) {
		order = append(order, "low")
	}, nil)
	_, _ = s.Create("high", PriDefault+5, func(any) {
		order = append(order, "high")
	}, nil)

	s.Yield()

	require.Equal(t, []string{"high", "low"}, order)
}

func TestBlockUnblockRoundTrip(t *testing.T) {
	s := Init()
	ready := make(chan *Thread, 1)
	resumed := make(chan struct{})

	_, _ = s.Create("waiter", PriDefault, func(any) {
		ready <- s.Current()
		require.NoError(t, s.Block(ReasonUnknown))
		close(resumed)
	}, nil)

	s.Yield() // let waiter run until it blocks, then control returns to main

	var waiter *Thread
	select {
	case waiter = <-ready:
	case <-time.After(time.Second):
		t.Fatal("waiter never signaled")
	}
	require.Equal(t, StatusBlocked, waiter.Status())

	require.NoError(t, s.Unblock(waiter))
	require.Equal(t, StatusReady, waiter.Status())

	s.Yield()

	select {
	case <-resumed:
	case <-time.After(time.Second):
		t.Fatal("waiter never resumed")
	}
}

func TestUnblockNonBlockedThreadReturnsError(t *testing.T) {
	s := Init()
	require.ErrorIs(t, s.Unblock(s.Current()), ErrNotBlocked)
}

func TestExitRemovesThreadFromAllList(t *testing.T) {
	s := Init()
	done := make(chan struct{})

	_, _ = s.Create("short-lived", PriDefault, func(any) {
		close(done)
	}, nil)

	s.Yield()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("thread never ran")
	}

	count := 0
	s.Foreach(func(*Thread) bool { count++; return true })
	require.Equal(t, 2, count) // main + idle; short-lived reaped
}

func TestSetPriorityYieldsWhenDroppingBelowReadyThread(t *testing.T) {
	s := Init()
	ran := make(chan struct{})
	_, _ = s.Create("contender", PriDefault+1, func(any) {
		close(ran)
	}, nil)

	s.SetPriority(PriDefault - 1)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("contender never ran after SetPriority yielded")
	}
}
