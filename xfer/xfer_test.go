package xfer_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/udict"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/xfer"
)

type countingPipe struct {
	upipe.Base
	inputs     atomic.Int32
	releasedOn chan struct{}
}

func newCountingPipe() *countingPipe {
	p := &countingPipe{releasedOn: make(chan struct{})}
	upipe.Init(&p.Base, "1", "test.counting", nil, p, func() { close(p.releasedOn) })
	return p
}

func (p *countingPipe) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	p.inputs.Add(1)
}

func (p *countingPipe) Control(cmd *upipe.Command) error {
	return uerror.ErrUnhandled
}

func TestInputAppliesOnWorkerGoroutine(t *testing.T) {
	inner := newCountingPipe()
	mgr := xfer.New(4)
	defer mgr.Stop()

	p := mgr.Alloc(nil, inner)
	p.Input(context.Background(), uref.New(udict.New()), nil)

	assert.Eventually(t, func() bool { return inner.inputs.Load() == 1 }, time.Second, time.Millisecond)
}

func TestControlRoundTripsReturnValue(t *testing.T) {
	inner := newCountingPipe()
	mgr := xfer.New(4)
	defer mgr.Stop()

	p := mgr.Alloc(nil, inner)
	err := p.Control(&upipe.Command{Kind: upipe.CmdFlush})
	require.Error(t, err)
	assert.ErrorIs(t, err, uerror.ErrUnhandled)
}

func TestProxyReleaseTearsDownInnerOnWorker(t *testing.T) {
	inner := newCountingPipe()
	mgr := xfer.New(4)
	defer mgr.Stop()

	p := mgr.Alloc(nil, inner)
	p.Release()

	select {
	case <-inner.releasedOn:
	case <-time.After(time.Second):
		t.Fatal("inner pipe was never released")
	}
}
