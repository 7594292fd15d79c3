// Package upumpmgr implements a probe that answers KindNeedUpumpMgr
// requests with a fixed upump.Manager, matching upipe's
// uprobe_upump_mgr (every pipe in a thread shares one event loop).
package upumpmgr

import (
	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/urequest"
)

// Probe answers KindNeedUpumpMgr events with Mgr and returns
// OutcomeHandled, so a Chain stops there and later probes do not see the
// event.
type Probe struct {
	Mgr upump.Manager
}

// New creates a Probe bound to mgr.
func New(mgr upump.Manager) *Probe {
	return &Probe{Mgr: mgr}
}

// Throw implements uprobe.Probe.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	if ev.Kind != uprobe.KindNeedUpumpMgr {
		return uprobe.OutcomeUnhandled
	}
	req, ok := ev.Request.(*urequest.Request)
	if !ok {
		return uprobe.OutcomeUnhandled
	}
	if err := req.Answer(p.Mgr); err != nil {
		return uprobe.OutcomeError
	}
	return uprobe.OutcomeHandled
}
