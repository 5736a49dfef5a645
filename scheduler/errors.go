package scheduler

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable failure modes listed in spec.md
// section 7. Everything else (contract violations such as blocking or
// scheduling with interrupts enabled, a current thread that is not
// RUNNING, or a stack-overflow-corrupted magic field) is not recoverable and is
// reported through kassert instead, mirroring the teacher's own
// sentinel-plus-%w-wrapping style (eventloop/loop.go's ErrLoop*
// variables).
var (
	// ErrPageExhausted is returned by Create when the page allocator
	// collaborator is out of memory.
	ErrPageExhausted = errors.New("scheduler: page allocator exhausted")

	// ErrAlreadyBlocked is returned when a caller tries to block a
	// thread that is not currently RUNNING.
	ErrAlreadyBlocked = errors.New("scheduler: thread is already blocked")

	// ErrNotBlocked is returned when Unblock is given a thread that is
	// not currently BLOCKED.
	ErrNotBlocked = errors.New("scheduler: thread is not blocked")
)

// wrapf is a small helper mirroring WrapError in the teacher's
// errors.go: message plus %w-wrapped cause so errors.Is/As keep working.
func wrapf(cause error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), cause)
}

// kassert panics with a formatted message when cond is false. It plays
// the role of Pintos' ASSERT()/PANIC(): scheduler invariants are not
// recoverable, because the scheduler is the mechanism recovery would run
// through (spec.md section 7).
func kassert(cond bool, format string, args ...any) {
	if !cond {
		panic("scheduler: invariant violation: " + fmt.Sprintf(format, args...))
	}
}
