package scheduler

import "github.com/KosalSout1234/pintos/internal/fixedpoint"

// Tick delivers one timer tick to the scheduler: it is the only place
// time advances. Callers play the role of the timer interrupt handler
// of spec.md section 6 — there is no free-running goroutine generating
// ticks (see doc.go) — so Tick must be invoked from a context where
// nothing else is concurrently mutating scheduler state, exactly the
// constraint a real interrupt handler satisfies by running with
// interrupts already disabled.
//
// It increments the running thread's recent_cpu and walks the sleep list
// waking anything whose deadline has passed. Under MLFQS it also
// recomputes load_avg, every thread's recent_cpu and every thread's
// priority once per timerFreq ticks, and every thread's priority once
// per time slice in between. It never preempts from inside itself;
// it only ever raises the yieldOnReturn flag for the running thread's
// next cooperative checkpoint to consume, matching the non-goal that
// interrupt handlers themselves are never preempted (spec.md section
// 1).
func (s *Scheduler) Tick() {
	old := s.intr.Disable()
	defer s.intr.SetLevel(old)

	now := s.clock.Advance()

	if cur := s.current; cur != nil && cur != s.idleThread {
		cur.recentCPU = fixedpoint.AddInt(cur.recentCPU, 1)
	}

	s.wakeSleepers(now)

	if s.config.mlfqs {
		if now%uint64(s.timerFreq()) == 0 {
			s.recomputeLoadAvgAndRecentCPU()
			s.recomputeAllPriorities()
		} else if now%uint64(s.timeSlice()) == 0 {
			s.recomputeAllPriorities()
		}
	}

	if now%uint64(s.timeSlice()) == 0 {
		s.intr.RequestYieldOnReturn()
	}
}

func (s *Scheduler) timeSlice() int {
	if s.config.timeSlice <= 0 {
		return TimeSlice
	}
	return s.config.timeSlice
}

// GetLoadAvg returns round(100*load_avg), the integer form spec.md
// section 4.3's get_load_avg is specified to return. Meaningful only
// under MLFQS; under strict priority scheduling load_avg never moves
// off zero.
func (s *Scheduler) GetLoadAvg() int {
	old := s.intr.Disable()
	defer s.intr.SetLevel(old)
	return fixedpoint.ToIntRound(fixedpoint.MulInt(s.loadAvg, 100))
}

// GetRecentCPU returns round(100*recent_cpu) for the calling thread,
// the integer form spec.md section 4.3's get_recent_cpu is specified
// to return.
func (s *Scheduler) GetRecentCPU() int {
	old := s.intr.Disable()
	defer s.intr.SetLevel(old)
	return fixedpoint.ToIntRound(fixedpoint.MulInt(s.Current().recentCPU, 100))
}

func (s *Scheduler) timerFreq() int {
	if s.config.timerFreq <= 0 {
		return 100
	}
	return s.config.timerFreq
}

// wakeSleepers moves every sleeping thread whose deadline has elapsed
// back onto the ready structure, in ascending wake-time order (spec.md
// section 4.4).
func (s *Scheduler) wakeSleepers(now uint64) {
	var batch []*Thread
	batch = s.sleeping.popExpired(now, batch)
	for _, t := range batch {
		t.status = StatusReady
		t.blocked = Blocked{}
		s.ready.enqueue(t)
		s.maybePreemptFor(t)
		logf(s, LevelDebug, "sleep", t.tid, "thread woken", map[string]any{"tick": int64(now)})
	}
}

// Sleep blocks the calling thread until at least the given tick has
// elapsed. A wakeupAt in the past or present returns immediately
// without blocking (spec.md section 4.4's "ticks <= 0" edge case,
// generalized to an absolute deadline already passed).
func (s *Scheduler) Sleep(wakeupAt uint64) {
	cur := s.Current()
	old := s.intr.Disable()
	if wakeupAt <= s.clock.Ticks() {
		s.intr.SetLevel(old)
		return
	}
	cur.blocked = Blocked{Reason: ReasonSleeping, SleepingWakeupAt: wakeupAt}
	s.sleeping.insert(cur)
	s.blockLocked(cur)
	s.intr.SetLevel(old)
}

// recomputeLoadAvgAndRecentCPU applies the per-second EWMA formulas of
// spec.md section 4.3:
//
//	load_avg   = (59/60) * load_avg + (1/60) * ready_count
//	recent_cpu = (2*load_avg / (2*load_avg+1)) * recent_cpu + nice
//
// ready_count includes the running thread itself (if not idle) plus
// everything on the ready structure, but never the idle thread.
func (s *Scheduler) recomputeLoadAvgAndRecentCPU() {
	readyCount := s.ready.size()
	if cur := s.current; cur != nil && cur != s.idleThread {
		readyCount++
	}

	fiftyNineSixtieths := fixedpoint.Div(fixedpoint.FromInt(59), fixedpoint.FromInt(60))
	oneSixtieth := fixedpoint.Div(fixedpoint.FromInt(1), fixedpoint.FromInt(60))
	s.loadAvg = fixedpoint.Add(
		fixedpoint.Mul(fiftyNineSixtieths, s.loadAvg),
		fixedpoint.MulInt(oneSixtieth, readyCount),
	)

	twoLoadAvg := fixedpoint.MulInt(s.loadAvg, 2)
	coefficient := fixedpoint.Div(twoLoadAvg, fixedpoint.AddInt(twoLoadAvg, 1))

	s.Foreach(func(t *Thread) bool {
		t.recentCPU = fixedpoint.AddInt(fixedpoint.Mul(coefficient, t.recentCPU), t.nice)
		return true
	})
}

// mlfqPriority computes a thread's MLFQ priority from the formula of
// spec.md section 4.3:
//
//	priority = PRI_MAX - (recent_cpu/4 rounded) - nice*2
//
// clamped to [PRI_MIN, PRI_MAX].
func mlfqPriority(t *Thread) Priority {
	p := PriMax - fixedpoint.ToIntRound(fixedpoint.DivInt(t.recentCPU, 4)) - t.nice*2
	return clampPriority(Priority(p))
}

// recomputeAllPriorities recomputes every non-idle thread's MLFQ
// priority and relocates any READY thread whose new priority differs
// from the queue it currently sits in (spec.md section 4.3). The running
// thread's priority is updated too, but it cannot move queues until it
// is next enqueued.
func (s *Scheduler) recomputeAllPriorities() {
	s.Foreach(func(t *Thread) bool {
		if t == s.idleThread {
			return true
		}
		newPriority := mlfqPriority(t)
		if t.status == StatusReady {
			if newPriority != t.priority {
				s.ready.moveQueue(t, newPriority)
			}
		} else {
			t.priority = newPriority
		}
		return true
	})
	if cur := s.current; cur != nil && cur != s.idleThread && s.ready.topPriority() > cur.priority {
		s.intr.RequestYieldOnReturn()
	}
}
