// Package null implements a discard sink: every uref handed to Input is
// immediately released and forgotten. It anchors the bottom of test
// pipelines that only care about what a source or filter produces, the
// Go-native analogue of upipe's upipe_null example pipe.
package null

import (
	"context"
	"sync/atomic"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/uprobe"
)

// Sink is a pipe that frees every uref it receives.
type Sink struct {
	upipe.Base
	flowDef string
	count   atomic.Int64
}

// New creates a Sink wired to probe.
func New(id string, probe uprobe.Probe) *Sink {
	s := &Sink{}
	upipe.Init(&s.Base, id, "upipe.null", probe, s, func() {})
	return s
}

// Input implements upipe.Pipe by freeing ref without inspecting it.
func (s *Sink) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	s.count.Add(1)
	ref.Free()
}

// Count reports how many urefs this sink has discarded, for tests.
func (s *Sink) Count() int64 {
	return s.count.Load()
}

// Control implements upipe.Pipe.
func (s *Sink) Control(cmd *upipe.Command) error {
	switch cmd.Kind {
	case upipe.CmdSetFlowDef:
		s.flowDef = cmd.FlowDef
		return nil
	case upipe.CmdGetFlowDef:
		if cmd.FlowDefOut != nil {
			*cmd.FlowDefOut = s.flowDef
		}
		return nil
	default:
		return uerror.ErrUnhandled
	}
}
