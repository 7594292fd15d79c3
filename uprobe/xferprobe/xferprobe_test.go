package xferprobe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/xferprobe"
)

type fakePipe struct{}

func (fakePipe) Signature() string { return "xfer.proxy" }
func (fakePipe) ID() string        { return "1" }

func TestReadyEventsLogAtInfo(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := xferprobe.New(zap.New(core), "worker-0")

	out := p.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindReady})

	assert.Equal(t, uprobe.OutcomeUnhandled, out)
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestOtherEventsLogAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := xferprobe.New(zap.New(core), "worker-0")

	p.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindUpdate})

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}
