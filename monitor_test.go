package gputhread

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoleOwner(t *testing.T) {
	m := SoleOwner()
	for range 3 {
		final, err := m.OnRelease(nil)
		require.NoError(t, err)
		assert.True(t, final)
	}
}

func TestReleaseMonitorFunc(t *testing.T) {
	cause := errors.New("boom")
	var got *Thread
	th := &Thread{name: "x"}

	m := ReleaseMonitorFunc(func(t *Thread) (bool, error) {
		got = t
		return false, cause
	})
	final, err := m.OnRelease(th)
	assert.False(t, final)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, th, got)
}

func TestRefCount_LastReleaseIsFinal(t *testing.T) {
	r := NewRefCount(3)
	assert.Equal(t, 3, r.Count())

	for i := 2; i >= 0; i-- {
		final, err := r.OnRelease(nil)
		require.NoError(t, err)
		assert.Equal(t, i == 0, final)
		assert.Equal(t, i, r.Count())
	}
}

func TestRefCount_Acquire(t *testing.T) {
	r := NewRefCount(1)
	r.Acquire()
	assert.Equal(t, 2, r.Count())

	final, err := r.OnRelease(nil)
	require.NoError(t, err)
	assert.False(t, final)
}

func TestRefCount_Underflow(t *testing.T) {
	r := NewRefCount(1)
	_, err := r.OnRelease(nil)
	require.NoError(t, err)

	final, err := r.OnRelease(nil)
	assert.False(t, final)
	assert.ErrorIs(t, err, ErrRefCountUnderflow)
	assert.Zero(t, r.Count())
}

func TestRefCount_Concurrent(t *testing.T) {
	const holders = 64
	r := NewRefCount(holders)

	var finals atomic.Int32
	var wg sync.WaitGroup
	for range holders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			final, err := r.OnRelease(nil)
			if err != nil {
				t.Errorf("OnRelease: %v", err)
			}
			if final {
				finals.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), finals.Load())
	assert.Zero(t, r.Count())
}
