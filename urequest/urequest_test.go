package urequest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/urequest"
)

func TestAnswerRunsRegisteredCallback(t *testing.T) {
	r := urequest.New(urequest.KindUpumpMgr, "")

	var got any
	calls := 0
	r.Register(func(resource any) error {
		got = resource
		calls++
		return nil
	})

	require.NoError(t, r.Answer("fake-manager"))

	assert.Equal(t, "fake-manager", got)
	assert.Equal(t, 1, calls)
	assert.True(t, r.Answered())
}

func TestAnswerCanBeReProvidedWhenTheResourceChanges(t *testing.T) {
	r := urequest.New(urequest.KindSinkLatency, "")

	var got any
	calls := 0
	r.Register(func(resource any) error {
		got = resource
		calls++
		return nil
	})

	require.NoError(t, r.Answer(100*time.Millisecond))
	require.NoError(t, r.Answer(250*time.Millisecond))

	assert.Equal(t, 250*time.Millisecond, got)
	assert.Equal(t, 2, calls)
	assert.True(t, r.Answered())
}

func TestAnswerWithoutRegisterIsNoop(t *testing.T) {
	r := urequest.New(urequest.KindUClock, "")
	assert.NoError(t, r.Answer(struct{}{}))
	assert.False(t, r.Answered())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "ubuf_mgr", urequest.KindUbufMgr.String())
	assert.Equal(t, "flow_format", urequest.KindFlowFormat.String())
}

func TestEachRequestHasUniqueID(t *testing.T) {
	a := urequest.New(urequest.KindSinkLatency, "")
	b := urequest.New(urequest.KindSinkLatency, "")
	assert.NotEqual(t, a.ID(), b.ID())
}
