package stdiolog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/stdiolog"
)

type fakePipe struct{}

func (fakePipe) Signature() string { return "test.pipe" }
func (fakePipe) ID() string        { return "abc123" }

func TestThrowLogsErrorEventsAtErrorLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	probe := stdiolog.New(zap.New(core))

	out := probe.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindFatalError, Err: errors.New("boom")})

	assert.Equal(t, uprobe.OutcomeUnhandled, out)
	require := logs.All()
	assert.Len(t, require, 1)
	assert.Equal(t, zapcore.ErrorLevel, require[0].Level)
}

func TestThrowAlwaysFallsThrough(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	probe := stdiolog.New(zap.New(core))

	out := probe.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindReady})
	assert.Equal(t, uprobe.OutcomeUnhandled, out)
}
