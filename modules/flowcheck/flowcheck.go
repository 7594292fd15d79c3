// Package flowcheck implements a filter that only forwards urefs whose
// flow definition matches a configured prefix, rejecting (freeing and
// reporting) everything else. It exercises the "matching and
// narrowing use prefix comparison" contract end-to-end as a real pipe.
package flowcheck

import (
	"context"
	"fmt"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/uprobe"
)

// Filter forwards urefs whose flow definition has Prefix and drops
// everything else.
type Filter struct {
	upipe.Base
	prefix   string
	output   upipe.Pipe
	accepted int64
	rejected int64
}

// New creates a Filter matching prefix, wired to probe.
func New(id, prefix string, probe uprobe.Probe) *Filter {
	f := &Filter{prefix: prefix}
	upipe.Init(&f.Base, id, "upipe.flowcheck", probe, f, func() {})
	return f
}

// Input implements upipe.Pipe.
func (f *Filter) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	if !ref.FlowDefHasPrefix(f.prefix) {
		f.rejected++
		f.Throw(uprobe.Event{Kind: uprobe.KindError, Err: fmt.Errorf("flowcheck: uref does not match prefix %q", f.prefix)})
		ref.Free()
		return
	}
	f.accepted++
	if f.output != nil {
		f.output.Input(ctx, ref, pump)
	} else {
		ref.Free()
	}
}

// Accepted reports how many urefs matched the configured prefix.
func (f *Filter) Accepted() int64 { return f.accepted }

// Rejected reports how many urefs were dropped for not matching.
func (f *Filter) Rejected() int64 { return f.rejected }

// Control implements upipe.Pipe.
func (f *Filter) Control(cmd *upipe.Command) error {
	switch cmd.Kind {
	case upipe.CmdSetOutput:
		f.output = cmd.Output
		return nil
	case upipe.CmdGetOutput:
		if cmd.OutputOut != nil {
			*cmd.OutputOut = f.output
		}
		return nil
	case upipe.CmdSetOption:
		if cmd.OptionKey == "prefix" {
			f.prefix = cmd.OptionValue
			return nil
		}
		return uerror.ErrUnhandled
	default:
		return uerror.ErrUnhandled
	}
}
