package null_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/modules/null"
	"upipe.go.dev/upipe/udict"
	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/uref"
)

func TestInputDiscardsAndCounts(t *testing.T) {
	s := null.New("1", nil)
	s.Input(context.Background(), uref.New(udict.New()), nil)
	s.Input(context.Background(), uref.New(udict.New()), nil)
	assert.EqualValues(t, 2, s.Count())
}

func TestFlowDefRoundTrips(t *testing.T) {
	s := null.New("1", nil)
	require.NoError(t, s.Control(&upipe.Command{Kind: upipe.CmdSetFlowDef, FlowDef: "block.raw."}))

	var got string
	require.NoError(t, s.Control(&upipe.Command{Kind: upipe.CmdGetFlowDef, FlowDefOut: &got}))
	assert.Equal(t, "block.raw.", got)
}

func TestUnknownCommandIsUnhandled(t *testing.T) {
	s := null.New("1", nil)
	err := s.Control(&upipe.Command{Kind: upipe.CmdGetURI})
	assert.ErrorIs(t, err, uerror.ErrUnhandled)
}
