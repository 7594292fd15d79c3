package upipehelper

import (
	"sync"

	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/urequest"
)

// RequestProxy tracks a pipe's outstanding urequest.Requests and forwards
// each one up a probe chain as the matching KindNeed* Event, so a pipe's
// CmdRegisterRequest handler can be one call instead of a signature-
// specific switch. A request not answered during Register stays
// registered, even if it is answered later, until CmdUnregisterRequest
// (Forget) removes it.
type RequestProxy struct {
	mu      sync.Mutex
	pending map[string]*urequest.Request
}

// NewRequestProxy creates an empty RequestProxy.
func NewRequestProxy() *RequestProxy {
	return &RequestProxy{pending: make(map[string]*urequest.Request)}
}

// eventKindFor maps a urequest.Kind to the uprobe.Event it should be
// thrown as.
func eventKindFor(k urequest.Kind) uprobe.Kind {
	switch k {
	case urequest.KindUrefMgr:
		return uprobe.KindNeedUrefMgr
	case urequest.KindUbufMgr:
		return uprobe.KindNeedUbufMgr
	case urequest.KindUpumpMgr:
		return uprobe.KindNeedUpumpMgr
	case urequest.KindUClock:
		return uprobe.KindNeedUclock
	default:
		return uprobe.KindProvideRequest
	}
}

// Register records req and throws it up pipe's probe chain via probe.
// If the probe chain answers synchronously (the common case for
// fixed managers/clocks registered at graph-construction time), req is
// already Answered by the time Register returns and the caller need not
// track it further and it is dropped from pending. KindSinkLatency
// requests stay registered even once answered, since a sink may
// re-provide a changed latency later and needs somewhere to deliver it.
func (p *RequestProxy) Register(pipe uprobe.Pipe, probe uprobe.Probe, req *urequest.Request) uprobe.Outcome {
	p.mu.Lock()
	p.pending[req.ID()] = req
	p.mu.Unlock()

	var out uprobe.Outcome
	if probe != nil {
		out = probe.Throw(pipe, uprobe.Event{Kind: eventKindFor(req.Kind), Request: req})
	}

	if req.Answered() && req.Kind != urequest.KindSinkLatency {
		p.mu.Lock()
		delete(p.pending, req.ID())
		p.mu.Unlock()
	}
	return out
}

// Forget removes a request by id without requiring it to be answered,
// implementing CmdUnregisterRequest.
func (p *RequestProxy) Forget(id string) {
	p.mu.Lock()
	delete(p.pending, id)
	p.mu.Unlock()
}

// Pending returns every request still registered: those not answered
// during Register and every KindSinkLatency request, answered or not,
// until Forget removes them.
func (p *RequestProxy) Pending() []*urequest.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*urequest.Request, 0, len(p.pending))
	for _, req := range p.pending {
		out = append(out, req)
	}
	return out
}
