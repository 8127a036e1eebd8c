package sched

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWakeResumesInArrivalOrder(t *testing.T) {
	q := new(Queue)

	const waiters = 3
	order := make(chan int, waiters)
	ready := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			th := NewThread()
			<-ready
			// Stagger registration so arrival order is deterministic.
			time.Sleep(time.Duration(i) * 10 * time.Millisecond)
			reason, interrupted := th.BlockOn(q)
			require.False(t, interrupted)
			require.Equal(t, WakeRead, reason)
			order <- i
		}()
	}

	close(ready)
	for q.Len() != waiters {
		time.Sleep(time.Millisecond)
	}
	for i := 0; i < waiters; i++ {
		require.True(t, q.Wake(WakeRead))
		require.Equal(t, i, <-order)
	}
	wg.Wait()

	require.False(t, q.Wake(WakeRead), "no waiter left")
}

func TestBroadcast(t *testing.T) {
	q := new(Queue)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reason, interrupted := NewThread().BlockOn(q)
			require.False(t, interrupted)
			require.Equal(t, WakeRead, reason)
		}()
	}
	for q.Len() != 4 {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, 4, q.Broadcast(WakeRead))
	wg.Wait()
	require.Zero(t, q.Len())
}

func TestPendingInterruptAbortsBlock(t *testing.T) {
	q := new(Queue)
	th := NewThread()

	th.Interrupt()
	th.Interrupt() // coalesces
	require.True(t, th.Interrupted())

	reason, interrupted := th.BlockOn(q)
	require.True(t, interrupted)
	require.Equal(t, WakeNone, reason)
	require.Zero(t, q.Len(), "aborted waiter must be unregistered")

	// The interrupt was consumed; the next block waits normally.
	require.False(t, th.Interrupted())
	done := make(chan struct{})
	go func() {
		reason, interrupted := th.BlockOn(q)
		require.False(t, interrupted)
		require.Equal(t, WakeRead, reason)
		close(done)
	}()
	for q.Len() != 1 {
		time.Sleep(time.Millisecond)
	}
	require.True(t, q.Wake(WakeRead))
	<-done
}

func TestInterruptWhileBlocked(t *testing.T) {
	q := new(Queue)
	th := NewThread()

	done := make(chan struct{})
	go func() {
		_, interrupted := th.BlockOn(q)
		require.True(t, interrupted)
		close(done)
	}()
	for q.Len() != 1 {
		time.Sleep(time.Millisecond)
	}
	th.Interrupt()
	<-done
	require.Zero(t, q.Len())
}

func TestSpuriousWakeReason(t *testing.T) {
	q := new(Queue)

	done := make(chan WakeReason, 1)
	go func() {
		reason, interrupted := NewThread().BlockOn(q)
		require.False(t, interrupted)
		done <- reason
	}()
	for q.Len() != 1 {
		time.Sleep(time.Millisecond)
	}
	require.True(t, q.Wake(WakeNone))
	require.Equal(t, WakeNone, <-done)
}

func TestAwaitSeesPublishBeforeRegistration(t *testing.T) {
	q := new(Queue)

	// The caller's own readiness check saw nothing, then the producer
	// published and broadcast into a still-empty queue.
	var ready atomic.Bool
	ready.Store(true)
	require.Zero(t, q.Broadcast(WakeRead))

	reason, interrupted := NewThread().Await(q, ready.Load)
	require.False(t, interrupted)
	require.NotZero(t, reason&WakeRead)
	require.Zero(t, q.Len())
}

func TestAwaitParksUntilWake(t *testing.T) {
	q := new(Queue)

	var ready atomic.Bool
	done := make(chan WakeReason, 1)
	go func() {
		reason, interrupted := NewThread().Await(q, ready.Load)
		require.False(t, interrupted)
		done <- reason
	}()
	for q.Len() != 1 {
		time.Sleep(time.Millisecond)
	}
	require.True(t, q.Wake(WakeRead))
	require.Equal(t, WakeRead, <-done)
}
