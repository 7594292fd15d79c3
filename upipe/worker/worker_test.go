package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/modules/counter"
	"upipe.go.dev/upipe/modules/null"
	"upipe.go.dev/upipe/udict"
	"upipe.go.dev/upipe/upipe/worker"
	"upipe.go.dev/upipe/uref"
)

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, cond())
}

func TestWlinMovesInputAcrossWorkerToOutput(t *testing.T) {
	inner := counter.New("inner", nil)
	w, err := worker.NewWlin(nil, nil, inner, 4, 4, 4)
	require.NoError(t, err)

	sink := null.New("sink", nil)
	require.NoError(t, w.Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: sink}))

	w.Input(context.Background(), uref.New(udict.New()), nil)

	waitUntil(t, func() bool {
		w.Pump(context.Background())
		return sink.Count() == 1
	})
}

func TestWlinFlushDropsHeldInputWithoutReachingInner(t *testing.T) {
	inner := counter.New("inner", nil)
	w, err := worker.NewWlin(nil, nil, inner, 4, 4, 4)
	require.NoError(t, err)

	sink := null.New("sink", nil)
	require.NoError(t, w.Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: sink}))

	w.Input(context.Background(), uref.New(udict.New()), nil)
	require.NoError(t, w.Control(&upipe.Command{Kind: upipe.CmdFlush}))

	w.Pump(context.Background())
	assert.EqualValues(t, 0, sink.Count())
	assert.EqualValues(t, 0, inner.URefCount())
}

func TestWsinkMovesInputAcrossWorker(t *testing.T) {
	inner := null.New("inner", nil)
	w, err := worker.NewWsink(nil, nil, inner, 4, 4)
	require.NoError(t, err)

	w.Input(context.Background(), uref.New(udict.New()), nil)

	waitUntil(t, func() bool {
		w.Pump(context.Background())
		return inner.Count() == 1
	})
}
