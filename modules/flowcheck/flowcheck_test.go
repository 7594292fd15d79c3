package flowcheck_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/modules/flowcheck"
	"upipe.go.dev/upipe/modules/null"
	"upipe.go.dev/upipe/udict"
	"upipe.go.dev/upipe/uref"
)

func refWithFlowDef(def string) *uref.Ref {
	r := uref.New(udict.New())
	r.SetFlowDef(def)
	return r
}

func TestForwardsMatchingPrefix(t *testing.T) {
	f := flowcheck.New("1", "block.", nil)
	sink := null.New("2", nil)
	require.NoError(t, f.Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: sink}))

	f.Input(context.Background(), refWithFlowDef("block.raw."), nil)

	assert.EqualValues(t, 1, f.Accepted())
	assert.EqualValues(t, 0, f.Rejected())
	assert.EqualValues(t, 1, sink.Count())
}

func TestDropsNonMatchingPrefix(t *testing.T) {
	f := flowcheck.New("1", "block.", nil)
	sink := null.New("2", nil)
	require.NoError(t, f.Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: sink}))

	f.Input(context.Background(), refWithFlowDef("pic.yuv420p."), nil)

	assert.EqualValues(t, 0, f.Accepted())
	assert.EqualValues(t, 1, f.Rejected())
	assert.EqualValues(t, 0, sink.Count())
}

func TestSetOptionChangesPrefix(t *testing.T) {
	f := flowcheck.New("1", "block.", nil)
	sink := null.New("2", nil)
	require.NoError(t, f.Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: sink}))
	require.NoError(t, f.Control(&upipe.Command{Kind: upipe.CmdSetOption, OptionKey: "prefix", OptionValue: "pic."}))

	f.Input(context.Background(), refWithFlowDef("pic.yuv420p."), nil)
	assert.EqualValues(t, 1, f.Accepted())
}
