package upipehelper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/udict"
	"upipe.go.dev/upipe/upipe/upipehelper"
	"upipe.go.dev/upipe/uref"
)

func TestHoldPassesThroughWhenNotBlocked(t *testing.T) {
	var h upipehelper.InputHold
	ref := uref.New(udict.New())

	held := h.Hold(ref, nil)
	assert.False(t, held)
	assert.Equal(t, 0, h.Len())
}

func TestHoldQueuesWhileBlockedAndReleasesInOrder(t *testing.T) {
	var h upipehelper.InputHold
	h.Block()
	assert.True(t, h.Blocked())

	a := uref.New(udict.New())
	a.SetSeqNum(1)
	b := uref.New(udict.New())
	b.SetSeqNum(2)

	assert.True(t, h.Hold(a, nil))
	assert.True(t, h.Hold(b, nil))
	assert.Equal(t, 2, h.Len())

	drained := h.Release()
	require.Len(t, drained, 2)

	seq1, err := drained[0].Ref().SeqNum()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq1)

	seq2, err := drained[1].Ref().SeqNum()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq2)

	assert.False(t, h.Blocked())
	assert.Equal(t, 0, h.Len())
}
