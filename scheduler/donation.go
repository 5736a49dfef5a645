package scheduler

// donation.go implements priority donation across lock-holder chains
// (spec.md section 4.6, properties 4-5 of section 8). Donation is only
// meaningful under the strict-priority discipline: MLFQ ignores
// donated_priority entirely (thread_set_priority is disabled under
// mlfqs, and so is donation), so Donate is a no-op when the scheduler
// is running under MLFQS.

// Donate walks the chain of lock holders starting at waiter's
// requested lock, raising each holder's donated_priority to at least
// candidate, and re-sorting any holder that is currently READY so the
// ready structure's ordering invariant keeps holding. The walk is
// iterative, not recursive, and is bounded by the number of distinct
// locks in the system, which in any real program is finite; spec.md
// section 9 argues no cycle can form because a thread already holding
// a lock can never block trying to acquire that same lock again.
func (s *Scheduler) Donate(lk *Lock, candidate Priority) {
	if s.config.mlfqs {
		return
	}
	for lk != nil {
		holder := lk.holder
		if holder == nil {
			return
		}
		if holder.donatedPriority >= candidate {
			return
		}
		holder.donatedPriority = candidate
		s.metrics.donationsCount.Add(1)
		if holder.status == StatusReady {
			s.ready.resort(holder)
		}
		logf(s, LevelDebug, "donation", holder.tid, "priority donated", map[string]any{
			"candidate": int(candidate),
		})
		if holder.blocked.Reason != ReasonWaitingOnLock || holder.blocked.Lock == nil {
			return
		}
		lk = holder.blocked.Lock
	}
}

// CalculateDonatedPriority recomputes t's donated_priority from
// scratch as the maximum effective priority among every thread
// currently waiting on any lock t holds, or PriMin if t holds no locks
// or none of them have waiters. Called whenever a lock t holds is
// released, since dropping one lock can only ever lower the donation
// t is entitled to, never raise it (spec.md section 4.6).
func (s *Scheduler) CalculateDonatedPriority(t *Thread) Priority {
	best := Priority(PriMin)
	for _, lk := range t.ownedLocks {
		for e := lk.waiters.Front(); e != nil; e = e.Next() {
			if ep := e.Owner().EffectivePriority(); ep > best {
				best = ep
			}
		}
	}
	return best
}

// GetEffectivePriority returns max(priority, donated_priority).
func (s *Scheduler) GetEffectivePriority(t *Thread) Priority {
	return t.EffectivePriority()
}
