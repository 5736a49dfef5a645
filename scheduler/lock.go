package scheduler

import "github.com/KosalSout1234/pintos/internal/list"

// Lock is the minimal mutual-exclusion primitive spec.md treats as an
// external collaborator that merely feeds donation state (section
// 4.6). It is not a general-purpose synchronization library: just
// enough of a binary lock, with a priority-ordered waiter list, to
// exercise the donation chain end to end (scenarios S2/S3 of section
// 8).
type Lock struct {
	holder  *Thread
	waiters *list.List[Thread]
}

// NewLock returns an unheld lock.
func NewLock() *Lock {
	return &Lock{waiters: list.New[Thread]()}
}

// Holder returns the thread currently holding lk, or nil.
func (lk *Lock) Holder() *Thread { return lk.holder }

// Acquire blocks the calling thread until lk is free, then takes it.
// If lk is already held, the caller donates its effective priority up
// the holder chain before blocking (spec.md section 4.6). Must be
// called from the current thread's own goroutine.
func (s *Scheduler) Acquire(lk *Lock) {
	cur := s.Current()
	kassert(cur != nil, "Acquire: no current thread")
	kassert(lk.holder != cur, "Acquire: thread %d already holds this lock", cur.tid)

	for lk.holder != nil {
		s.Donate(lk, cur.EffectivePriority())
		old := s.intr.Disable()
		cur.blocked = Blocked{Reason: ReasonWaitingOnLock, Lock: lk}
		s.insertWaiterOrdered(lk, cur)
		s.blockLocked(cur)
		s.intr.SetLevel(old)
	}
	lk.holder = cur
	cur.ownedLocks = append(cur.ownedLocks, lk)
}

// Release hands lk back, waking the highest-effective-priority waiter
// if any, and recomputes the releasing thread's own donated_priority
// since dropping a lock can only lower what it is owed.
func (s *Scheduler) Release(lk *Lock) {
	cur := s.Current()
	kassert(lk.holder == cur, "Release: thread %d does not hold this lock", cur.tid)

	for i, owned := range cur.ownedLocks {
		if owned == lk {
			cur.ownedLocks = append(cur.ownedLocks[:i], cur.ownedLocks[i+1:]...)
			break
		}
	}
	lk.holder = nil

	old := s.intr.Disable()
	next := s.popHighestPriorityWaiter(lk)
	s.intr.SetLevel(old)

	cur.donatedPriority = s.CalculateDonatedPriority(cur)

	if next != nil {
		s.Unblock(next)
	}
}

// popHighestPriorityWaiter removes and returns lk's highest-effective-
// priority waiter, or nil if none. insertWaiterOrdered keeps the list
// sorted at insertion time, but a nested donation can raise a
// still-blocked waiter's effective priority after it has already taken
// its place in line (Donate only re-sorts waiters that are READY, not
// ones blocked further down a donation chain), so Release scans rather
// than trusting Front() to still hold the highest priority — mirroring
// Pintos' sema_up, which re-sorts the waiter list before popping.
func (s *Scheduler) popHighestPriorityWaiter(lk *Lock) *Thread {
	var best *Thread
	var bestElem *list.Elem[Thread]
	for e := lk.waiters.Front(); e != nil; e = e.Next() {
		if best == nil || e.Owner().EffectivePriority() > best.EffectivePriority() {
			best = e.Owner()
			bestElem = e
		}
	}
	if best != nil {
		lk.waiters.Remove(bestElem)
	}
	return best
}

func (s *Scheduler) insertWaiterOrdered(lk *Lock, t *Thread) {
	ep := t.EffectivePriority()
	for e := lk.waiters.Front(); e != nil; e = e.Next() {
		if e.Owner().EffectivePriority() < ep {
			lk.waiters.InsertBefore(&t.elem, e)
			return
		}
	}
	lk.waiters.PushBack(&t.elem)
}

// Semaphore is a counting generalization of Lock with no donation
// semantics of its own (spec.md does not require donation through
// semaphores, only through locks), included because the demo
// scenarios use one to model a bounded resource pool alongside the
// donation-bearing Lock.
type Semaphore struct {
	value   int
	waiters *list.List[Thread]
}

// NewSemaphore returns a semaphore initialized to value.
func NewSemaphore(value int) *Semaphore {
	kassert(value >= 0, "NewSemaphore: negative initial value")
	return &Semaphore{value: value, waiters: list.New[Thread]()}
}

// Down blocks until the semaphore's value is positive, then decrements it.
func (s *Scheduler) Down(sem *Semaphore) {
	cur := s.Current()
	old := s.intr.Disable()
	for sem.value == 0 {
		sem.waiters.PushBack(&cur.elem)
		s.blockLocked(cur)
	}
	sem.value--
	s.intr.SetLevel(old)
}

// Up increments the semaphore's value, waking the longest-waiting
// blocked thread if any.
func (s *Scheduler) Up(sem *Semaphore) {
	old := s.intr.Disable()
	sem.value++
	var next *Thread
	if e := sem.waiters.Front(); e != nil {
		next = e.Owner()
		sem.waiters.Remove(&next.elem)
	}
	s.intr.SetLevel(old)
	if next != nil {
		s.Unblock(next)
	}
}
