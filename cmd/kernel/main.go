// Command kernel boots the scheduler, reproducing a handful of the
// canonical scenarios (a producer/consumer pair, a priority-donation
// chain, and a round of MLFQ-governed CPU-bound threads) and prints
// the observed run order. It stands in for the kernel's own loader and
// process-creation surface, which are explicitly out of scope.
package main

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/KosalSout1234/pintos/scheduler"
)

func main() {
	// The scheduler's only synchronization primitive assumes a single
	// virtual CPU (doc.go); pin to one P so the Go runtime never
	// actually parallelizes what this package models as strictly
	// sequential.
	runtime.GOMAXPROCS(1)

	opt := pflag.StringP("opt", "o", "", `boot option; "mlfqs" boots with the mlfqs scheduler (thread_mlfqs)`)
	ticks := pflag.Int("ticks", 200, "number of synthetic timer ticks to drive")
	pflag.Parse()
	mlfqs := *opt == "mlfqs"

	var out sync.Mutex
	log := func(format string, args ...any) {
		out.Lock()
		defer out.Unlock()
		fmt.Printf(format+"\n", args...)
	}

	s := scheduler.Init(scheduler.WithMLFQS(mlfqs))

	log("booted scheduler (mlfqs=%v)", mlfqs)

	runDonationScenario(s, log)
	runProducerConsumer(s, log)
	runCPUBoundRace(s, log)

	driveTicks(s, *ticks)

	stats := s.Stats()
	log("context switches=%d preemptions=%d donations=%d median schedule latency(ns)=%.1f",
		stats.ContextSwitches, stats.Preemptions, stats.DonationsPerformed, stats.MedianScheduleNS)
}

// runDonationScenario reproduces a low/medium/high priority chain
// contending for one lock (scenario S2/S3 of spec.md section 8): the
// low thread should finish with the high thread's donated priority in
// effect until it releases the lock.
func runDonationScenario(s *scheduler.Scheduler, log func(string, ...any)) {
	lk := scheduler.NewLock()
	boot := s.Current()
	var wg sync.WaitGroup
	wg.Add(3)

	_, _ = s.Create("low", scheduler.PriDefault-2, func(any) {
		defer wg.Done()
		s.Acquire(lk)
		_ = s.Unblock(boot)
		for i := 0; i < 3; i++ {
			s.CheckPreempt()
		}
		log("low: releasing lock, effective priority=%d", s.GetEffectivePriority(s.Current()))
		s.Release(lk)
		log("low: released lock")
	}, nil)
	_ = s.Block(scheduler.ReasonUnknown) // let low take the lock before the others exist

	_, _ = s.Create("medium", scheduler.PriDefault, func(any) {
		defer wg.Done()
		for i := 0; i < 3; i++ {
			s.CheckPreempt()
		}
		log("medium: ran without waiting on the lock")
	}, nil)

	_, _ = s.Create("high", scheduler.PriDefault+10, func(any) {
		defer wg.Done()
		s.Acquire(lk)
		log("high: acquired lock")
		s.Release(lk)
	}, nil)

	s.Yield()
}

// runProducerConsumer reproduces a bounded-buffer rendezvous built on
// Semaphore rather than Lock, so the demo exercises both primitives.
func runProducerConsumer(s *scheduler.Scheduler, log func(string, ...any)) {
	items := scheduler.NewSemaphore(0)
	slots := scheduler.NewSemaphore(2)

	_, _ = s.Create("producer", scheduler.PriDefault, func(any) {
		for i := 0; i < 4; i++ {
			s.Down(slots)
			log("producer: made item %d", i)
			s.Up(items)
			s.CheckPreempt()
		}
	}, nil)

	_, _ = s.Create("consumer", scheduler.PriDefault, func(any) {
		for i := 0; i < 4; i++ {
			s.Down(items)
			log("consumer: took item %d", i)
			s.Up(slots)
			s.CheckPreempt()
		}
	}, nil)

	s.Yield()
}

// runCPUBoundRace spawns several CPU-bound threads with distinct
// niceness so the MLFQ discipline's fairness (or the priority
// discipline's strict ordering) is visible in the printed run order.
func runCPUBoundRace(s *scheduler.Scheduler, log func(string, ...any)) {
	for i, nice := range []int{-5, 0, 5} {
		name := fmt.Sprintf("worker-%d", i)
		nice := nice
		_, _ = s.Create(name, scheduler.PriDefault, func(any) {
			s.SetNice(nice)
			for i := 0; i < 10; i++ {
				s.CheckPreempt()
			}
			log("%s: finished its run", name)
		}, nil)
	}
	s.Yield()
}

// driveTicks stands in for the timer interrupt source: it sleeps a
// small real interval per tick purely so a human watching the demo's
// output can see activity unfold, then delivers the tick.
func driveTicks(s *scheduler.Scheduler, n int) {
	for i := 0; i < n; i++ {
		var req unix.Timespec
		req.Sec = 0
		req.Nsec = 1_000_000
		_ = unix.Nanosleep(&req, nil)
		s.Tick()
		s.CheckPreempt()
	}
}
