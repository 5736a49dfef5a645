// Package scheduler implements the thread-level scheduler of a small
// preemptive kernel: thread lifecycle, a priority-ordered or multi-level
// feedback queue (MLFQ) ready structure, a tick-driven sleep/wake list,
// and priority donation across lock-holder chains.
//
// Translating a uniprocessor kernel scheduler into Go requires one
// deliberate substitution. The original runs each thread on its own
// kernel stack and switches between them with a hand-written
// switch_threads routine; "the current thread" is found by rounding the
// stack pointer down to a page boundary. Go exposes neither raw stack
// pointers nor a context-switch primitive, so each Thread here owns a
// goroutine of its own instead of a raw stack, and "the current thread"
// is the one goroutine that has been handed the resumeCh token — every
// other thread's goroutine is parked on a channel receive. schedule()
// passes that token from one goroutine to the next instead of swapping
// stack pointers; thread_schedule_tail runs in the newly-resumed
// goroutine exactly where the original runs it on the newly-resumed
// stack. IntrGate plays the role real interrupt-disable/enable plays:
// it is the single mutex that makes "only one thread runs at a time"
// true, handed from goroutine to goroutine across each switch the same
// way the disabled-interrupts region spans a real context switch. See
// interrupt.go for the concurrency contract this relies on.
//
// There is no free-running timer goroutine. A real timer interrupt
// preempts whatever the CPU happens to be executing; Go cannot preempt
// another goroutine at an arbitrary instruction, so Tick is instead
// invoked cooperatively by whichever goroutine currently holds the
// resumeCh token — typically the demo's tick-driving loop (cmd/kernel), or
// a test driver standing in for the timer device of spec section 6.
package scheduler
