// Package urefmgr implements a probe that answers KindNeedUrefMgr
// requests with a fixed uref.Manager, matching upipe's uprobe_uref_mgr.
package urefmgr

import (
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/urequest"
)

// Probe answers KindNeedUrefMgr events with Mgr.
type Probe struct {
	Mgr *uref.Manager
}

// New creates a Probe bound to mgr.
func New(mgr *uref.Manager) *Probe {
	return &Probe{Mgr: mgr}
}

// Throw implements uprobe.Probe.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	if ev.Kind != uprobe.KindNeedUrefMgr {
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
