// options.go - functional options for scheduler construction, mirroring
// eventloop/options.go's LoopOption pattern.
package scheduler

// config holds the boot-time configuration resolved from Option values.
// Every field here is immutable after Init (thread_mlfqs in particular
// must never change at runtime, per spec.md section 3).
type config struct {
	mlfqs      bool
	timerFreq  int
	timeSlice  int
	idleEntry  func(aux any)
	idleAux    any
	maxThreads int
}

// Option configures a Scheduler at construction time.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithMLFQS selects the MLFQ discipline when enabled, and the strict
// priority discipline (with donation) when disabled. Corresponds to the
// boot-time "-o mlfqs" flag of spec.md section 6.
func WithMLFQS(enabled bool) Option {
	return optionFunc(func(c *config) { c.mlfqs = enabled })
}

// WithTimerFreq sets TIMER_FREQ, the number of ticks considered "one
// second" by the MLFQ per-second recompute. Defaults to 100.
func WithTimerFreq(hz int) Option {
	return optionFunc(func(c *config) { c.timerFreq = hz })
}

// WithTimeSlice overrides TIME_SLICE, the number of ticks a thread may
// run before an involuntary yield is requested. Defaults to 4.
func WithTimeSlice(ticks int) Option {
	return optionFunc(func(c *config) { c.timeSlice = ticks })
}

// WithIdleEntry overrides the idle thread's body. Defaults to a loop that
// immediately gives up the CPU. A substitute body lets a caller observe
// idle scheduling without spinning.
func WithIdleEntry(fn func(aux any), aux any) Option {
	return optionFunc(func(c *config) {
		c.idleEntry = fn
		c.idleAux = aux
	})
}

// WithMaxThreads bounds the number of live thread descriptors, standing
// in for the original's fixed page-allocator pool so ErrPageExhausted's
// path is actually reachable in tests. Zero (the default) means
// unbounded.
func WithMaxThreads(n int) Option {
	return optionFunc(func(c *config) { c.maxThreads = n })
}

func resolveConfig(opts []Option) *config {
	c := &config{
		timerFreq: 100,
		timeSlice: TimeSlice,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		o.apply(c)
	}
	if c.idleEntry == nil {
		c.idleEntry = defaultIdleEntry
	}
	return c
}

func defaultIdleEntry(aux any) {
	s := aux.(*Scheduler)
	for {
		s.idleYield()
	}
}
