package upipe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
)

// nullPipe is a minimal Pipe used only to exercise upipe.Base.
type nullPipe struct {
	upipe.Base
	torn    bool
	inputs  int
}

func newNullPipe(probe uprobe.Probe) *nullPipe {
	p := &nullPipe{}
	upipe.Init(&p.Base, "1", "test.null", probe, p, func() { p.torn = true })
	return p
}

func (p *nullPipe) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	p.inputs++
}

func (p *nullPipe) Control(cmd *upipe.Command) error {
	return uerror.ErrUnhandled
}

func TestUseReleaseTriggersOnZeroExactlyOnce(t *testing.T) {
	p := newNullPipe(nil)

	p.Use()
	assert.Equal(t, int64(2), p.RefCount())

	p.Release()
	assert.False(t, p.torn)
	p.Release()
	assert.True(t, p.torn)
}

func TestReleaseBeyondZeroPanics(t *testing.T) {
	p := newNullPipe(nil)
	p.Release()
	assert.Panics(t, func() { p.Release() })
}

func TestControlReturnsUnhandledForUnknownCommand(t *testing.T) {
	p := newNullPipe(nil)
	err := p.Control(&upipe.Command{Kind: upipe.CmdSetURI})
	require.Error(t, err)
	assert.ErrorIs(t, err, uerror.ErrUnhandled)
}

func TestThrowDelegatesToWiredProbe(t *testing.T) {
	var seen uprobe.Kind
	probe := uprobe.Func(func(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
		seen = ev.Kind
		return uprobe.OutcomeHandled
	})
	p := newNullPipe(probe)

	out := p.Throw(uprobe.Event{Kind: uprobe.KindReady})
	assert.Equal(t, uprobe.OutcomeHandled, out)
	assert.Equal(t, uprobe.KindReady, seen)
}

func TestWeakRefInvalidateClearsResolve(t *testing.T) {
	p := newNullPipe(nil)
	w := upipe.NewWeakRef(p)

	assert.Same(t, upipe.Pipe(p), w.Resolve())
	w.Invalidate()
	assert.Nil(t, w.Resolve())
}
