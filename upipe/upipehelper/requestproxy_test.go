package upipehelper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/upipe/upipehelper"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/upumpmgr"
	"upipe.go.dev/upipe/upump/upumpqueue"
	"upipe.go.dev/upipe/urequest"
)

type fakePipe struct{}

func (fakePipe) Signature() string { return "test.pipe" }
func (fakePipe) ID() string        { return "1" }

func TestRegisterAnsweredSynchronouslyIsNotPending(t *testing.T) {
	mgr := upumpqueue.New(1)
	probe := upumpmgr.New(mgr)
	rp := upipehelper.NewRequestProxy()

	req := urequest.New(urequest.KindUpumpMgr, "")
	var got any
	req.Register(func(resource any) error { got = resource; return nil })

	out := rp.Register(fakePipe{}, probe, req)

	require.Equal(t, uprobe.OutcomeHandled, out)
	assert.Same(t, mgr, got)
	assert.Empty(t, rp.Pending())
}

func TestRegisterUnansweredStaysPendingUntilForget(t *testing.T) {
	rp := upipehelper.NewRequestProxy()
	req := urequest.New(urequest.KindUClock, "")

	rp.Register(fakePipe{}, nil, req)
	assert.Len(t, rp.Pending(), 1)

	rp.Forget(req.ID())
	assert.Empty(t, rp.Pending())
}

func TestRegisterSinkLatencyStaysPendingAfterBeingAnswered(t *testing.T) {
	rp := upipehelper.NewRequestProxy()
	req := urequest.New(urequest.KindSinkLatency, "")
	req.Register(func(resource any) error { return nil })

	rp.Register(fakePipe{}, nil, req)
	require.NoError(t, req.Answer(100))
	require.True(t, req.Answered())

	assert.Len(t, rp.Pending(), 1, "a sink latency request must stay reachable so a later re-provide can update it")

	require.NoError(t, req.Answer(50))
	assert.Len(t, rp.Pending(), 1)

	rp.Forget(req.ID())
	assert.Empty(t, rp.Pending())
}
