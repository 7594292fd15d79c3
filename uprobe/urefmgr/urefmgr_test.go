package urefmgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/urefmgr"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/urequest"
)

type fakePipe struct{}

func (fakePipe) Signature() string { return "test.pipe" }
func (fakePipe) ID() string        { return "1" }

func TestThrowAnswersWithBoundManager(t *testing.T) {
	mgr := uref.NewManager()
	probe := urefmgr.New(mgr)

	req := urequest.New(urequest.KindUrefMgr, "")
	var got any
	req.Register(func(resource any) error { got = resource; return nil })

	out := probe.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindNeedUrefMgr, Request: req})

	require.Equal(t, uprobe.OutcomeHandled, out)
	assert.Same(t, mgr, got)
}
