package scheduler

import "sync/atomic"

// metrics holds scheduler introspection counters. None of these feed
// back into scheduling decisions themselves — spec.md's non-goals
// explicitly rule out dynamic time-slice adjustment, so these are
// observation only, mirroring the teacher's own counters in
// eventloop's run loop.
type metrics struct {
	contextSwitches atomic.Int64
	preemptions     atomic.Int64
	donationsCount  atomic.Int64

	scheduleLatency *psquare
}

func newMetrics() *metrics {
	return &metrics{scheduleLatency: newPSquare(0.5)}
}

// Stats is a point-in-time snapshot of scheduler metrics.
type Stats struct {
	ContextSwitches    int64
	Preemptions        int64
	DonationsPerformed int64
	MedianScheduleNS   float64
}

// Stats returns a snapshot of the scheduler's counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		ContextSwitches:    s.metrics.contextSwitches.Load(),
		Preemptions:        s.metrics.preemptions.Load(),
		DonationsPerformed: s.metrics.donationsCount.Load(),
		MedianScheduleNS:   s.metrics.scheduleLatency.value(),
	}
}

// observeScheduleLatency records one schedule() call's wall-clock
// duration in nanoseconds into the running median estimator.
func (s *Scheduler) observeScheduleLatency(ns float64) {
	s.metrics.scheduleLatency.observe(ns)
}
