package scheduler

import "sync/atomic"

// clock is the scheduler's notion of time: a monotonically increasing
// tick counter driven entirely by calls to Scheduler.Tick, plus a
// wall-clock anchor used only for log timestamps. There is no free
// running goroutine advancing it — see doc.go.
type clock struct {
	ticks   atomic.Uint64
	startNS int64
}

func newClock(startNS int64) *clock {
	return &clock{startNS: startNS}
}

// Ticks returns the number of timer ticks delivered so far.
func (c *clock) Ticks() uint64 { return c.ticks.Load() }

// Advance records one delivered tick and returns the new tick count.
func (c *clock) Advance() uint64 { return c.ticks.Add(1) }

// WallTime returns a synthetic nanosecond timestamp for log entries,
// derived from the tick count rather than the real wall clock so that
// logs stay deterministic under a fixed timer frequency in tests.
func (c *clock) WallTime(timerFreqHz int) int64 {
	if timerFreqHz <= 0 {
		timerFreqHz = 100
	}
	nsPerTick := int64(1e9) / int64(timerFreqHz)
	return c.startNS + int64(c.Ticks())*nsPerTick
}
