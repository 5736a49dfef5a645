// Package list implements an intrusive doubly-linked list in the style of
// container/list, except the link node (Elem) is meant to be embedded
// directly inside the owning struct instead of being separately
// allocated. Each embedded Elem sits in at most one list at a time with
// zero allocation, so a thread descriptor joins one list per Elem it
// embeds, as spec.md's data model requires for ready/sleep/waiter-list
// membership.
package list

// Elem is an intrusive link node, embedded by value in the owner type T.
// Elem is intentionally not safe for concurrent use; callers are
// expected to serialize access the same way the scheduler serializes
// access to every other piece of shared state (see scheduler.IntrGate).
type Elem[T any] struct {
	next, prev *Elem[T]
	list       *List[T]
	owner      *T
}

// Owner returns the struct this Elem is embedded in. Valid even when the
// element is not currently linked into any list.
func (e *Elem[T]) Owner() *T { return e.owner }

// Linked reports whether the element currently belongs to a list.
func (e *Elem[T]) Linked() bool { return e.list != nil }

// List is a circular doubly-linked list with a sentinel root element, the
// same structural idiom as container/list.List but operating on embedded
// Elem[T] nodes rather than separately-heap-allocated ones.
type List[T any] struct {
	root Elem[T]
	len  int
}

// New returns an initialized empty list.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.root.next = &l.root
	l.root.prev = &l.root
	return l
}

// Init binds owner as the T an Elem is embedded in. Must be called once
// before the Elem is first used (thread descriptors call this for each
// of their embedded link nodes at creation time).
func Init[T any](e *Elem[T], owner *T) {
	e.owner = owner
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int { return l.len }

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool { return l.len == 0 }

// Front returns the first element, or nil if the list is empty.
func (l *List[T]) Front() *Elem[T] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// Back returns the last element, or nil if the list is empty.
func (l *List[T]) Back() *Elem[T] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

// Next returns the element following e, or nil at the end of the list.
func (e *Elem[T]) Next() *Elem[T] {
	if n := e.next; e.list != nil && n != &e.list.root {
		return n
	}
	return nil
}

// Prev returns the element preceding e, or nil at the start of the list.
func (e *Elem[T]) Prev() *Elem[T] {
	if p := e.prev; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

func (l *List[T]) insertAfter(e, at *Elem[T]) *Elem[T] {
	n := at.next
	at.next = e
	e.prev = at
	e.next = n
	n.prev = e
	e.list = l
	l.len++
	return e
}

// PushFront inserts e at the front of the list. e must not already be
// linked into any list.
func (l *List[T]) PushFront(e *Elem[T]) *Elem[T] {
	return l.insertAfter(e, &l.root)
}

// PushBack inserts e at the back of the list. e must not already be
// linked into any list.
func (l *List[T]) PushBack(e *Elem[T]) *Elem[T] {
	return l.insertAfter(e, l.root.prev)
}

// InsertBefore inserts e immediately before mark, which must already be
// an element of this list.
func (l *List[T]) InsertBefore(e, mark *Elem[T]) *Elem[T] {
	return l.insertAfter(e, mark.prev)
}

// Remove unlinks e from l. It is a no-op if e is not currently linked
// into l. Safe to call twice.
func (l *List[T]) Remove(e *Elem[T]) {
	if e.list != l {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.list = nil
	l.len--
}

// Each calls fn for every element from front to back, stopping early if
// fn returns false. fn must not mutate the list it is iterating.
func (l *List[T]) Each(fn func(*T) bool) {
	for e := l.Front(); e != nil; e = e.Next() {
		if !fn(e.Owner()) {
			return
		}
	}
}
