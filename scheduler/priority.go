package scheduler

// SetPriority changes the calling thread's base priority and
// unconditionally yields the CPU (spec.md section 4.2: thread_set_priority
// yields regardless of whether the new priority actually costs the
// caller the CPU). Under the MLFQ discipline this is a no-op —
// thread_set_priority is disabled once -o mlfqs has been selected,
// since priority there is entirely formula-derived (spec.md section
// 4.3). It never lets a lowered base priority undercut a donation in
// effect, since EffectivePriority already takes the max of the two.
func (s *Scheduler) SetPriority(p Priority) {
	if s.config.mlfqs {
		return
	}
	cur := s.Current()
	old := s.intr.Disable()
	cur.priority = clampPriority(p)
	s.intr.SetLevel(old)
	s.Yield()
}

// SetNice changes the calling thread's niceness, immediately
// recomputing its MLFQ priority and yielding if a ready thread now
// outranks it (spec.md section 4.3). Under the strict priority
// discipline nice has no effect and this is a no-op.
func (s *Scheduler) SetNice(n int) {
	if !s.config.mlfqs {
		return
	}
	cur := s.Current()
	old := s.intr.Disable()
	cur.nice = clampNice(n)
	cur.priority = mlfqPriority(cur)
	top := s.ready.topPriority()
	s.intr.SetLevel(old)
	if top > cur.priority {
		s.Yield()
	}
}
