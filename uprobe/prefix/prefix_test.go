package prefix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/prefix"
)

type fakePipe struct{}

func (fakePipe) Signature() string { return "test.pipe" }
func (fakePipe) ID() string        { return "1" }

func TestThrowPrependsTag(t *testing.T) {
	var seen string
	next := uprobe.Func(func(p uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
		seen = ev.Message
		return uprobe.OutcomeHandled
	})

	p := prefix.New("decoder", next)
	p.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindUpdate, Message: "stalled"})

	assert.Equal(t, "decoder: stalled", seen)
}

func TestThrowWithEmptyMessageUsesTagAlone(t *testing.T) {
	var seen string
	next := uprobe.Func(func(p uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
		seen = ev.Message
		return uprobe.OutcomeHandled
	})

	p := prefix.New("decoder", next)
	p.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindReady})

	assert.Equal(t, "decoder", seen)
}
