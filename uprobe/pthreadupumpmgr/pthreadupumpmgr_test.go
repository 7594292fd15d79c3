package pthreadupumpmgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/upump/upumpqueue"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/pthreadupumpmgr"
	"upipe.go.dev/upipe/urequest"
)

type fakePipe struct{}

func (fakePipe) Signature() string { return "test.pipe" }
func (fakePipe) ID() string        { return "1" }

func TestThrowResolvesManagerBoundToWorker(t *testing.T) {
	p := pthreadupumpmgr.New()
	mgr := upumpqueue.New(1)
	p.Bind("worker-a", mgr)

	req := urequest.New(urequest.KindUpumpMgr, "")
	var got any
	req.Register(func(resource any) error { got = resource; return nil })

	out := p.Throw(fakePipe{}, uprobe.Event{
		Kind:    uprobe.KindNeedUpumpMgr,
		Request: &pthreadupumpmgr.WorkerRequest{WorkerID: "worker-a", Req: req},
	})

	require.Equal(t, uprobe.OutcomeHandled, out)
	assert.Same(t, mgr, got)
}

func TestThrowUnhandledForUnboundWorker(t *testing.T) {
	p := pthreadupumpmgr.New()
	req := urequest.New(urequest.KindUpumpMgr, "")

	out := p.Throw(fakePipe{}, uprobe.Event{
		Kind:    uprobe.KindNeedUpumpMgr,
		Request: &pthreadupumpmgr.WorkerRequest{WorkerID: "ghost", Req: req},
	})
	assert.Equal(t, uprobe.OutcomeUnhandled, out)
}

func TestUnbindRemovesWorker(t *testing.T) {
	p := pthreadupumpmgr.New()
	mgr := upumpqueue.New(1)
	p.Bind("worker-a", mgr)
	p.Unbind("worker-a")

	req := urequest.New(urequest.KindUpumpMgr, "")
	out := p.Throw(fakePipe{}, uprobe.Event{
		Kind:    uprobe.KindNeedUpumpMgr,
		Request: &pthreadupumpmgr.WorkerRequest{WorkerID: "worker-a", Req: req},
	})
	assert.Equal(t, uprobe.OutcomeUnhandled, out)
}
