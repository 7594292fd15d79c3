// Package ubufmempool implements a probe that answers KindNeedUbufMgr
// requests by picking the right concrete ubuf.Manager for the requested
// flow format's prefix ("block.", "pic.", "sound."), matching upipe's
// uprobe_ubuf_mem_pool (one pool per buffer family, shared across a
// pipeline's pipes to avoid duplicate allocation).
package ubufmempool

import (
	"sort"
	"strings"

	"upipe.go.dev/upipe/ubuf"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/urequest"
)

// Probe holds one ubuf.Manager per flow-def prefix.
type Probe struct {
	byPrefix map[string]ubuf.Manager
	prefixes []string // kept sorted longest-first so "pic.yuv420p." beats "pic."
}

// New creates an empty Probe; register managers with Register.
func New() *Probe {
	return &Probe{byPrefix: make(map[string]ubuf.Manager)}
}

// Register binds mgr to every flow def starting with prefix.
func (p *Probe) Register(prefix string, mgr ubuf.Manager) *Probe {
	if _, exists := p.byPrefix[prefix]; !exists {
		p.prefixes = append(p.prefixes, prefix)
		sort.Slice(p.prefixes, func(i, j int) bool { return len(p.prefixes[i]) > len(p.prefixes[j]) })
	}
	p.byPrefix[prefix] = mgr
	return p
}

// Throw implements uprobe.Probe.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	if ev.Kind != uprobe.KindNeedUbufMgr {
		return uprobe.OutcomeUnhandled
	}
	req, ok := ev.Request.(*urequest.Request)
	if !ok {
		return uprobe.OutcomeUnhandled
	}

	for _, prefix := range p.prefixes {
		if strings.HasPrefix(req.FlowFormat, prefix) {
			if err := req.Answer(p.byPrefix[prefix]); err != nil {
				return uprobe.OutcomeError
			}
			return uprobe.OutcomeHandled
		}
	}
	return uprobe.OutcomeUnhandled
}
