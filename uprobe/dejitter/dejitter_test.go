package dejitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/dejitter"
)

type fakePipe struct{}

func (fakePipe) Signature() string { return "test.pipe" }
func (fakePipe) ID() string        { return "1" }

func TestFirstSampleSetsOffsetExactly(t *testing.T) {
	p := dejitter.New()
	p.Sample(1000, 1100)

	offset, have := p.Offset()
	require.True(t, have)
	assert.Equal(t, int64(100), offset)
}

func TestSubsequentSamplesSmoothTowardNewValue(t *testing.T) {
	p := dejitter.NewWithAlpha(0.5)
	p.Sample(1000, 1100) // offset 100
	p.Sample(1000, 1300) // offset 300, averaged: 100 + 0.5*(300-100) = 200

	offset, have := p.Offset()
	require.True(t, have)
	assert.Equal(t, int64(200), offset)
}

func TestThrowIgnoresOtherEventKinds(t *testing.T) {
	p := dejitter.New()
	out := p.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindReady})
	assert.Equal(t, uprobe.OutcomeUnhandled, out)

	_, have := p.Offset()
	assert.False(t, have)
}

func TestThrowFoldsClockRefSample(t *testing.T) {
	p := dejitter.New()
	out := p.Throw(fakePipe{}, uprobe.Event{
		Kind:    uprobe.KindClockRef,
		Request: &dejitter.Sample{ProgramClock: 500, WallClock: 550},
	})
	assert.Equal(t, uprobe.OutcomeUnhandled, out)

	offset, have := p.Offset()
	require.True(t, have)
	assert.Equal(t, int64(50), offset)
}
