package ubufmempool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/ubuf"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/ubufmempool"
	"upipe.go.dev/upipe/urequest"
)

type fakePipe struct{}

func (fakePipe) Signature() string { return "test.pipe" }
func (fakePipe) ID() string        { return "1" }

func TestThrowPicksManagerByPrefix(t *testing.T) {
	blockMgr := ubuf.NewBlockManager(nil)
	probe := ubufmempool.New().Register("block.", blockMgr)

	req := urequest.New(urequest.KindUbufMgr, "block.mpegts")
	var got any
	req.Register(func(resource any) error { got = resource; return nil })

	out := probe.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindNeedUbufMgr, Request: req})

	require.Equal(t, uprobe.OutcomeHandled, out)
	assert.Same(t, blockMgr, got)
}

func TestThrowUnhandledForUnknownPrefix(t *testing.T) {
	probe := ubufmempool.New()
	req := urequest.New(urequest.KindUbufMgr, "sound.pcm")

	out := probe.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindNeedUbufMgr, Request: req})
	assert.Equal(t, uprobe.OutcomeUnhandled, out)
}
