// Package pthreadupumpmgr implements a probe answering KindNeedUpumpMgr
// with the upump.Manager registered for the calling worker, matching
// upipe's uprobe_pthread_upump_mgr (one upump_mgr per pthread, looked up
// by thread-local storage). Go has no TLS primitive, so this is keyed
// explicitly by a caller-supplied worker id rather than the OS thread.
// Neither xfer.Manager nor upump/upumpqueue calls Bind: a worker id has a
// manager only once the code that starts that worker has called Bind
// with it, and a pipe on that worker resolves it only by sending the same
// id in its WorkerRequest. sync.Map is used in place of a library-backed
// registry since no available library offers goroutine-local storage
// (Go deliberately has none), and a plain map+mutex would be no more
// idiomatic than sync.Map for this access pattern (many readers, rare
// writers at worker startup).
package pthreadupumpmgr

import (
	"sync"

	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/urequest"
)

// Probe dispatches to whichever upump.Manager was Bind-ed under the
// worker id carried by the Event's Request payload.
type Probe struct {
	managers sync.Map // worker id (string) -> upump.Manager
}

// New creates an empty Probe.
func New() *Probe {
	return &Probe{}
}

// Bind registers mgr under workerID, overwriting any prior binding.
func (p *Probe) Bind(workerID string, mgr upump.Manager) {
	p.managers.Store(workerID, mgr)
}

// Unbind removes a worker's registration, typically once its loop
// exits for good.
func (p *Probe) Unbind(workerID string) {
	p.managers.Delete(workerID)
}

// WorkerRequest is the payload a pipe attaches to a KindNeedUpumpMgr
// Event when using this probe: Req is the request to answer, WorkerID
// names the worker whose bound manager should answer it.
type WorkerRequest struct {
	WorkerID string
	Req      *urequest.Request
}

// Throw implements uprobe.Probe. ev.Request must be a *WorkerRequest;
// a plain *urequest.Request (as upumpmgr.Probe expects) is left
// unhandled since this probe cannot infer a worker id for it.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	if ev.Kind != uprobe.KindNeedUpumpMgr {
		return uprobe.OutcomeUnhandled
	}
	wreq, ok := ev.Request.(*WorkerRequest)
	if !ok {
		return uprobe.OutcomeUnhandled
	}
	mgr, ok := p.managers.Load(wreq.WorkerID)
	if !ok {
		return uprobe.OutcomeUnhandled
	}
	if err := wreq.Req.Answer(mgr); err != nil {
		return uprobe.OutcomeError
	}
	return uprobe.OutcomeHandled
}
