package scheduler

import "github.com/KosalSout1234/pintos/internal/list"

// sleepList is blocked_sleeping_list: threads BLOCKED with reason
// ReasonSleeping, kept in ascending wake-time order (ties broken by
// insertion order) so the tick handler's wakeup walk can stop at the
// first unexpired entry.
type sleepList struct {
	l *list.List[Thread]
}

func newSleepList() *sleepList {
	return &sleepList{l: list.New[Thread]()}
}

func (s *sleepList) insert(t *Thread) {
	for e := s.l.Front(); e != nil; e = e.Next() {
		if e.Owner().blocked.SleepingWakeupAt > t.blocked.SleepingWakeupAt {
			s.l.InsertBefore(&t.elem, e)
			return
		}
	}
	s.l.PushBack(&t.elem)
}

// popExpired removes and returns every thread whose wake time is <= now,
// in ascending wake-time order. Because the list is sorted, it can stop
// at the first unexpired entry (spec.md section 4.4).
func (s *sleepList) popExpired(now uint64, out []*Thread) []*Thread {
	for {
		e := s.l.Front()
		if e == nil {
			return out
		}
		t := e.Owner()
		if t.blocked.SleepingWakeupAt > now {
			return out
		}
		s.l.Remove(&t.elem)
		out = append(out, t)
	}
}
