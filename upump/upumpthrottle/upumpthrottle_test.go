package upumpthrottle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"upipe.go.dev/upipe/upump/upumpqueue"
	"upipe.go.dev/upipe/upump/upumpthrottle"
)

func TestAllowedCallsAreGatedByLimiter(t *testing.T) {
	mgr := upumpqueue.New(16)
	go mgr.Run()
	defer mgr.Stop()

	limiter := rate.NewLimiter(rate.Limit(0), 1) // one token, never refills
	var calls int
	p := upumpthrottle.New(mgr, limiter, time.Millisecond, func() { calls++ })
	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Eventually(t, func() bool { return p.Ticks() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, int64(1), p.Allowed())
	assert.Equal(t, 1, calls)
}

func TestUnlimitedLimiterAllowsEveryTick(t *testing.T) {
	mgr := upumpqueue.New(16)
	go mgr.Run()
	defer mgr.Stop()

	limiter := rate.NewLimiter(rate.Inf, 1)
	p := upumpthrottle.New(mgr, limiter, time.Millisecond, func() {})
	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Eventually(t, func() bool { return p.Ticks() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, p.Ticks(), p.Allowed())
}
