package locking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBigLockReentry(t *testing.T) {
	l := NewBigLock()

	l.Lock()
	require.True(t, l.Held())
	l.Lock() // reenter
	l.Unlock()
	require.True(t, l.Held())
	l.Unlock()
	require.False(t, l.Held())
}

func TestBigLockUnlockByNonOwnerPanics(t *testing.T) {
	l := NewBigLock()
	l.Lock()
	defer l.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.Panics(t, func() { l.Unlock() })
		require.False(t, l.Held())
	}()
	wg.Wait()
}

func TestBigLockAssertHeld(t *testing.T) {
	l := NewBigLock()
	require.Panics(t, func() { l.AssertHeld() })

	l.Lock()
	require.NotPanics(t, func() { l.AssertHeld() })
	l.Unlock()
}

func TestBigLockMutualExclusion(t *testing.T) {
	l := NewBigLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 8000, counter)
}
