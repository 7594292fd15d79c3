// Package counter implements a linear filter that tallies the urefs and
// bytes passing through it and forwards each one unmodified, the
// Go-native analogue of upipe's upipe_dup/trickplay-style accounting
// filters used to anchor pipeline tests without a real codec.
package counter

import (
	"context"
	"sync/atomic"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upipe/upipehelper"
	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/uprobe"
)

// Filter counts urefs and bytes in flight and forwards them to output
// unchanged. It holds input (via upipehelper.InputHold) whenever no
// output is wired yet, replaying once one is set.
type Filter struct {
	upipe.Base
	hold    upipehelper.InputHold
	output  upipe.Pipe
	flowDef string
	urefs   atomic.Int64
	bytes   atomic.Int64
}

// New creates a Filter wired to probe. It starts blocked: the first
// CmdSetOutput call unblocks it and replays anything received meanwhile.
func New(id string, probe uprobe.Probe) *Filter {
	f := &Filter{}
	f.hold.Block()
	upipe.Init(&f.Base, id, "upipe.counter", probe, f, func() {})
	return f
}

// Input implements upipe.Pipe.
func (f *Filter) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	if f.hold.Hold(ref, pump) {
		return
	}
	f.account(ctx, ref, pump)
}

func (f *Filter) account(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	f.urefs.Add(1)
	if buf := ref.Buf(); buf != nil {
		if sized, ok := buf.(interface{ Size() int }); ok {
			f.bytes.Add(int64(sized.Size()))
		}
	}
	if f.output != nil {
		f.output.Input(ctx, ref, pump)
	} else {
		f.Throw(uprobe.Event{Kind: uprobe.KindNeedOutput})
		ref.Free()
	}
}

// URefCount reports how many urefs have passed through, for tests.
func (f *Filter) URefCount() int64 { return f.urefs.Load() }

// ByteCount reports how many data bytes have passed through, for tests.
func (f *Filter) ByteCount() int64 { return f.bytes.Load() }

// Control implements upipe.Pipe.
func (f *Filter) Control(cmd *upipe.Command) error {
	switch cmd.Kind {
	case upipe.CmdSetFlowDef:
		f.flowDef = cmd.FlowDef
		return nil
	case upipe.CmdGetFlowDef:
		if cmd.FlowDefOut != nil {
			*cmd.FlowDefOut = f.flowDef
		}
		return nil
	case upipe.CmdSetOutput:
		f.output = cmd.Output
		for _, held := range f.hold.Release() {
			f.account(context.Background(), held.Ref(), held.Pump())
			if held.Pump() != nil {
				held.Pump().Start()
			}
		}
		return nil
	case upipe.CmdGetOutput:
		if cmd.OutputOut != nil {
			*cmd.OutputOut = f.output
		}
		return nil
	default:
		return uerror.ErrUnhandled
	}
}
