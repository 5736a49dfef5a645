package scheduler

import "github.com/KosalSout1234/pintos/internal/list"

// readyStructures holds whichever ready-queue representation the boot
// flag selected. Exactly one of the two is populated at a time,
// selected once at Init and never switched at runtime (config.mlfqs is
// immutable), matching spec.md section 3.
type readyStructures struct {
	mlfqs bool

	// Priority-mode: single effective-priority-descending list.
	priorityList *list.List[Thread]

	// MLFQ-mode: PRI_MAX+1 FIFO queues plus an aggregate count.
	mlfq     [PriMax + 1]*list.List[Thread]
	mlfqSize int
}

func newReadyStructures(mlfqs bool) *readyStructures {
	r := &readyStructures{mlfqs: mlfqs}
	if mlfqs {
		for i := range r.mlfq {
			r.mlfq[i] = list.New[Thread]()
		}
	} else {
		r.priorityList = list.New[Thread]()
	}
	return r
}

func (r *readyStructures) size() int {
	if r.mlfqs {
		return r.mlfqSize
	}
	return r.priorityList.Len()
}

// enqueue inserts t into the appropriate structure. In priority mode it
// is inserted so the list remains sorted by effective priority
// descending, ties broken by insertion order (older first) — an
// insertion sort over the (short, bounded) ready list, exactly mirroring
// the original's list_insert_ordered usage.
func (r *readyStructures) enqueue(t *Thread) {
	if r.mlfqs {
		// The thread's stored priority field doubles as "which queue it
		// is currently enqueued in" in MLFQ mode (thread_set_priority is
		// disabled under mlfqs, so nothing else writes it); refresh it
		// from the formula at the moment of insertion per spec.md
		// section 3's "enqueued at the moment of insertion" rule.
		t.priority = mlfqPriority(t)
		q := r.mlfq[t.priority]
		q.PushBack(&t.mlfqElem)
		r.mlfqSize++
		return
	}
	r.insertOrdered(t)
}

func (r *readyStructures) insertOrdered(t *Thread) {
	ep := t.EffectivePriority()
	for e := r.priorityList.Front(); e != nil; e = e.Next() {
		if e.Owner().EffectivePriority() < ep {
			r.priorityList.InsertBefore(&t.elem, e)
			return
		}
	}
	r.priorityList.PushBack(&t.elem)
}

// resort removes and reinserts t to restore priority order after a
// donation changed its effective priority. Only meaningful in priority
// mode; a no-op otherwise (MLFQ priority only changes at the periodic
// recompute, never via donation).
func (r *readyStructures) resort(t *Thread) {
	if r.mlfqs {
		return
	}
	r.priorityList.Remove(&t.elem)
	r.insertOrdered(t)
}

// pop removes and returns the next thread to run, or nil if nothing is
// ready.
func (r *readyStructures) pop() *Thread {
	if r.mlfqs {
		for p := PriMax; p >= PriMin; p-- {
			q := r.mlfq[p]
			if e := q.Front(); e != nil {
				t := e.Owner()
				q.Remove(&t.mlfqElem)
				r.mlfqSize--
				return t
			}
		}
		return nil
	}
	if e := r.priorityList.Front(); e != nil {
		t := e.Owner()
		r.priorityList.Remove(&t.elem)
		return t
	}
	return nil
}

// topPriority returns the highest effective priority currently waiting
// in the ready structure, or PriMin-1 if it is empty, used by the
// tick handler to decide whether an MLFQ recompute just raised some
// ready thread above the running one.
func (r *readyStructures) topPriority() Priority {
	if r.mlfqs {
		for p := PriMax; p >= PriMin; p-- {
			if !r.mlfq[p].Empty() {
				return Priority(p)
			}
		}
		return PriMin - 1
	}
	if e := r.priorityList.Front(); e != nil {
		return e.Owner().EffectivePriority()
	}
	return PriMin - 1
}

// moveQueue relocates an MLFQ-resident thread to the queue matching its
// newly-recomputed priority, appending it at the tail of the new queue
// (spec.md section 4.3: "if it differs from its current queue index,
// move it to the new queue, appended at tail").
func (r *readyStructures) moveQueue(t *Thread, newPriority Priority) {
	old := r.mlfq[t.priority]
	old.Remove(&t.mlfqElem)
	r.mlfqSize--
	t.priority = newPriority
	r.mlfq[newPriority].PushBack(&t.mlfqElem)
	r.mlfqSize++
}
