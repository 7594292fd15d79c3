// Package uclockprobe implements a probe that answers KindNeedUclock
// requests with a fixed uclock.Clock, matching upipe's uprobe_uclock.
package uclockprobe

import (
	"upipe.go.dev/upipe/uclock"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/urequest"
)

// Probe answers KindNeedUclock events with Clock.
type Probe struct {
	Clock uclock.Clock
}

// New creates a Probe bound to clk.
func New(clk uclock.Clock) *Probe {
	return &Probe{Clock: clk}
}

// Throw implements uprobe.Probe.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	if ev.Kind != uprobe.KindNeedUclock {
		return uprobe.OutcomeUnhandled
	}
	req, ok := ev.Request.(*urequest.Request)
	if !ok {
		return uprobe.OutcomeUnhandled
	}
	if err := req.Answer(p.Clock); err != nil {
		return uprobe.OutcomeError
	}
	return uprobe.OutcomeHandled
}
