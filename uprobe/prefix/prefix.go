// Package prefix implements a probe that tags every event's message with
// a fixed string before passing it on, matching upipe's uprobe_prefix
// (used to distinguish which subtree of a pipeline an event came from).
package prefix

import "upipe.go.dev/upipe/uprobe"

// Probe prepends Tag to ev.Message before delegating to Next, since
// uprobe.Chain passes the original Event to every link and a probe that
// only rewrites its own copy would have no visible effect.
type Probe struct {
	Tag  string
	Next uprobe.Probe
}

// New creates a prefix Probe delegating to next.
func New(tag string, next uprobe.Probe) *Probe {
	return &Probe{Tag: tag, Next: next}
}

// Throw implements uprobe.Probe.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	if ev.Message != "" {
		ev.Message = p.Tag + ": " + ev.Message
	} else {
		ev.Message = p.Tag
	}
	if p.Next == nil {
		return uprobe.OutcomeUnhandled
	}
	return p.Next.Throw(pipe, ev)
}
