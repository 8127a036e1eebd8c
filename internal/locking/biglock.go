// Package locking provides the coarse per-process lock held across
// syscall entry points, including across blocking suspension.
package locking

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// BigLock is a reentrant mutex serializing the syscalls of one process.
//
// Reentrancy lets an entry point take the lock unconditionally while still
// allowing embedders that already hold it to call in. The owner is tracked
// by goroutine id, which stands in for the owning thread.
type BigLock struct {
	mu sync.Mutex

	owner     int64 // goroutine id of the current holder, -1 if none
	recursion int32
}

// NewBigLock returns an unlocked BigLock.
func NewBigLock() *BigLock {
	return &BigLock{owner: -1}
}

// Lock acquires the lock, or increments the recursion count when the
// calling goroutine already holds it.
func (l *BigLock) Lock() {
	gid := goid.Get()
	if atomic.LoadInt64(&l.owner) == gid {
		l.recursion++
		return
	}
	l.mu.Lock()
	atomic.StoreInt64(&l.owner, gid)
	l.recursion = 1
}

// Unlock releases the lock. It panics when called by a goroutine that does
// not hold it.
func (l *BigLock) Unlock() {
	gid := goid.Get()
	if atomic.LoadInt64(&l.owner) != gid {
		panic(fmt.Sprintf("goroutine (%d) does not hold the big lock, the owner (%d) does", gid, l.owner))
	}
	l.recursion--
	if l.recursion != 0 {
		return
	}
	atomic.StoreInt64(&l.owner, -1)
	l.mu.Unlock()
}

// Held reports whether the calling goroutine holds the lock.
func (l *BigLock) Held() bool {
	return atomic.LoadInt64(&l.owner) == goid.Get()
}

// AssertHeld panics when the calling goroutine does not hold the lock. It
// guards internal helpers that rely on the caller having entered through a
// syscall entry point.
func (l *BigLock) AssertHeld() {
	if !l.Held() {
		panic("process big lock not held")
	}
}
