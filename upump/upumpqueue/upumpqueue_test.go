package upumpqueue_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/upump/upumpqueue"
)

func TestPostRunsOnLoopGoroutine(t *testing.T) {
	m := upumpqueue.New(4)
	done := make(chan struct{})
	m.Post(func() {
		close(done)
		m.Stop()
	})

	go func() {
		require.NoError(t, m.Run())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted job never ran")
	}
}

func TestTimerFiresOnce(t *testing.T) {
	m := upumpqueue.New(4)
	var fired atomic.Int32

	p, err := m.AddTimer(10*time.Millisecond, false, func() {
		fired.Add(1)
		m.Stop()
	})
	require.NoError(t, err)
	require.NoError(t, p.Start())

	require.NoError(t, m.Run())
	assert.Equal(t, int32(1), fired.Load())
}

func TestTimerRepeatsUntilStopped(t *testing.T) {
	m := upumpqueue.New(4)
	var fired atomic.Int32

	p, err := m.AddTimer(5*time.Millisecond, true, func() {
		if fired.Add(1) >= 3 {
			m.Stop()
		}
	})
	require.NoError(t, err)
	require.NoError(t, p.Start())

	require.NoError(t, m.Run())
	require.NoError(t, p.Stop())
	assert.GreaterOrEqual(t, fired.Load(), int32(3))
}

func TestIdlerRunsWhenQueueEmpty(t *testing.T) {
	m := upumpqueue.New(4)
	var ticks atomic.Int32

	p, err := m.AddIdler(func() {
		if ticks.Add(1) >= 5 {
			m.Stop()
		}
	})
	require.NoError(t, err)
	require.NoError(t, p.Start())

	require.NoError(t, m.Run())
	assert.GreaterOrEqual(t, ticks.Load(), int32(5))
}

func TestAddFDReadUnsupported(t *testing.T) {
	m := upumpqueue.New(1)
	_, err := m.AddFDRead(0, func() {})
	assert.ErrorIs(t, err, uerror.ErrUnhandled)
}

func TestRunOnceDrainsOneJobWithoutBlocking(t *testing.T) {
	m := upumpqueue.New(1)
	ran := false
	m.Post(func() { ran = true })

	require.NoError(t, m.RunOnce())
	assert.True(t, ran)
}
