// Package sched implements the blocking and wake handshake between a
// syscall in progress and the producers of the object it waits on.
//
// A thread that must wait registers on the object's Queue and parks until a
// producer wakes it with a reason, or until it is interrupted. The result
// of the wait is an explicit (reason, interrupted) pair; classification of
// spurious wakes is left to the caller.
package sched

import (
	"sync"

	"github.com/gammazero/deque"
)

// WakeReason is a bitset recording why a blocked thread resumed.
type WakeReason uint8

const (
	// WakeNone is a wake with no condition satisfied. A thread resumed
	// with WakeNone before its condition held observed a spurious wake.
	WakeNone WakeReason = 0

	// WakeRead means the object became readable.
	WakeRead WakeReason = 1 << 0

	// WakeException is reserved for exceptional conditions on the object.
	// No producer raises it yet.
	WakeException WakeReason = 1 << 1
)

type waiter struct {
	ch chan WakeReason // buffered so wakes never block the producer
}

// Queue holds the threads blocked on one object, in arrival order.
// The zero value is an empty queue ready for use.
type Queue struct {
	mu      sync.Mutex
	waiters deque.Deque[*waiter]
}

// Len returns the number of blocked threads.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waiters.Len()
}

// Wake resumes the longest-blocked thread with the given reason. It
// returns false when no thread was blocked.
func (q *Queue) Wake(reason WakeReason) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.waiters.Len() == 0 {
		return false
	}
	q.waiters.PopFront().ch <- reason
	return true
}

// Broadcast resumes every blocked thread with the given reason and returns
// how many were resumed.
func (q *Queue) Broadcast(reason WakeReason) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.waiters.Len()
	for i := 0; i < n; i++ {
		q.waiters.PopFront().ch <- reason
	}
	return n
}

func (q *Queue) register() *waiter {
	w := &waiter{ch: make(chan WakeReason, 1)}
	q.mu.Lock()
	q.waiters.PushBack(w)
	q.mu.Unlock()
	return w
}

func (q *Queue) unregister(w *waiter) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := q.waiters.Index(func(x *waiter) bool { return x == w }); i >= 0 {
		q.waiters.Remove(i)
	}
}

// Thread is the calling context of one guest thread for the duration of a
// syscall: whatever it blocks on, and whether an interruption is pending.
type Thread struct {
	interrupt chan struct{} // holds at most one pending interrupt
}

// NewThread returns a thread with no pending interrupt.
func NewThread() *Thread {
	return &Thread{interrupt: make(chan struct{}, 1)}
}

// Interrupt marks an asynchronous interruption, e.g. signal delivery. If
// the thread is blocked it resumes immediately; otherwise the interrupt
// stays pending and aborts the next block. Duplicate interrupts coalesce.
func (t *Thread) Interrupt() {
	select {
	case t.interrupt <- struct{}{}:
	default:
	}
}

// Interrupted reports whether an interrupt is pending, without consuming it.
func (t *Thread) Interrupted() bool {
	return len(t.interrupt) > 0
}

// BlockOn parks the calling thread on q until a producer wakes it or an
// interrupt arrives. It returns the wake reason and whether the wait was
// aborted by interruption; an aborted wait consumes the pending interrupt.
//
// A wake racing with an interrupt is not lost: it is handed to the next
// waiter on the queue.
func (t *Thread) BlockOn(q *Queue) (WakeReason, bool) {
	return t.wait(q, q.register())
}

// Await is BlockOn with a readiness condition. The thread is registered on
// q before ready is evaluated, so a producer that publishes and wakes the
// queue at any point is either seen by ready or delivered to the waiter;
// there is no window in which the condition turning true goes unnoticed.
// When ready already holds the thread does not park and the result is
// (WakeRead, false).
//
// Callers that test the condition themselves before blocking must go
// through Await, not a bare BlockOn, or a wake landing between their test
// and registration is lost.
func (t *Thread) Await(q *Queue, ready func() bool) (WakeReason, bool) {
	w := q.register()
	if ready() {
		q.unregister(w)
		// A producer may already have woken w; hand the wake to the
		// next waiter.
		select {
		case r := <-w.ch:
			q.Wake(r)
		default:
		}
		return WakeRead, false
	}
	return t.wait(q, w)
}

func (t *Thread) wait(q *Queue, w *waiter) (WakeReason, bool) {
	select {
	case <-t.interrupt:
		q.unregister(w)
		select {
		case r := <-w.ch:
			q.Wake(r)
		default:
		}
		return WakeNone, true
	case r := <-w.ch:
		return r, false
	}
}
