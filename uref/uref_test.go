package uref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/ubuf"
	"upipe.go.dev/upipe/udict"
	"upipe.go.dev/upipe/uref"
)

func TestFlowDefPrefixMatching(t *testing.T) {
	r := uref.New(udict.New())
	r.SetFlowDef("pic.yuv420p.")
	assert.True(t, r.FlowDefHasPrefix("pic."))
	assert.False(t, r.FlowDefHasPrefix("sound."))
}

func TestDupSharesBufCopiesDict(t *testing.T) {
	mgr := ubuf.NewBlockManager(nil)
	b, err := mgr.Alloc(4)
	require.NoError(t, err)

	r := uref.NewWithBuf(udict.New(), b)
	r.SetSeqNum(7)

	dup := r.Dup()
	dup.SetSeqNum(8)

	orig, err := r.SeqNum()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), orig)

	dupSeq, err := dup.SeqNum()
	require.NoError(t, err)
	assert.Equal(t, uint64(8), dupSeq)

	// Writing through the original buffer should fail until the dup's
	// buffer reference is released (copy-on-write).
	blk := r.Buf().(*ubuf.Block)
	_, err = blk.Write(0, 4)
	assert.Error(t, err)

	dup.Buf().Release()
	_, err = blk.Write(0, 4)
	assert.NoError(t, err)
}

func TestCmpSeqNum(t *testing.T) {
	a := uref.New(udict.New())
	a.SetSeqNum(1)
	b := uref.New(udict.New())
	b.SetSeqNum(2)

	cmp, err := uref.CmpSeqNum(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)
}

func TestPictureFlowAttrs(t *testing.T) {
	r := uref.New(udict.New())
	r.SetHSize(1920)
	r.SetVSize(1080)
	r.PlaneAdd(0, "y8", 1, 1, 1)

	h, err := r.HSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(1920), h)

	chroma, hsub, vsub, mpixel, err := r.Plane(0)
	require.NoError(t, err)
	assert.Equal(t, "y8", chroma)
	assert.Equal(t, uint8(1), hsub)
	assert.Equal(t, uint8(1), vsub)
	assert.Equal(t, uint8(1), mpixel)
}
