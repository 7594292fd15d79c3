// Package selflow implements a probe that watches KindNewFlowDef events
// arriving from several candidate input subpipes and decides which ones
// to accept, matching upipe's upipe_selflow state machine: a selector
// string of "auto" (take the first one seen and ignore the rest), an id
// list like "1,3" (accept exactly those flow ids, in any order), "all"
// (accept everything), or "" (accept nothing).
package selflow

import (
	"strconv"
	"strings"
	"sync"

	"upipe.go.dev/upipe/uprobe"
)

// Candidate is one observed (flow_id, flow_def) pair.
type Candidate struct {
	FlowID  int
	FlowDef string
}

type selectorMode int

const (
	modeReject selectorMode = iota
	modeAuto
	modeAll
	modeIDList
)

// Selector parses and evaluates a selflow selector string.
type Selector struct {
	raw  string
	mode selectorMode
	ids  map[int]struct{}
}

// ParseSelector parses a selector string: "auto", "all", "" (reject), or
// a comma-separated list of flow ids such as "1,3".
func ParseSelector(s string) Selector {
	switch s {
	case "auto":
		return Selector{raw: s, mode: modeAuto}
	case "all":
		return Selector{raw: s, mode: modeAll}
	case "":
		return Selector{raw: s, mode: modeReject}
	}

	ids := make(map[int]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		ids[id] = struct{}{}
	}
	return Selector{raw: s, mode: modeIDList, ids: ids}
}

// String returns the original selector text.
func (s Selector) String() string { return s.raw }

// accepts reports whether flowID should be accepted, given whether a
// flow has already been selected under "auto" mode (auto only ever
// accepts its first match).
func (s Selector) accepts(flowID int, autoAlreadyPicked bool) bool {
	switch s.mode {
	case modeAll:
		return true
	case modeIDList:
		_, ok := s.ids[flowID]
		return ok
	case modeAuto:
		return !autoAlreadyPicked
	default:
		return false
	}
}

// Probe accumulates flow defs announced via KindNewFlowDef and accepts
// or ignores each one per its Selector, exposing the currently selected
// flow_id set; it never itself issues a Control call (the pipe
// embedding it does that in reaction to OnSelect).
type Probe struct {
	mu         sync.Mutex
	selector   Selector
	candidates []Candidate
	selected   map[int]string // flow_id -> flow_def, currently accepted
	onSelect   func(Candidate)
}

// New creates a Probe that evaluates selector against every
// KindNewFlowDef event it observes. onSelect, if non-nil, runs once per
// newly accepted flow id.
func New(selector string, onSelect func(Candidate)) *Probe {
	return &Probe{
		selector: ParseSelector(selector),
		selected: make(map[int]string),
		onSelect: onSelect,
	}
}

// Throw implements uprobe.Probe.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	if ev.Kind != uprobe.KindNewFlowDef {
		return uprobe.OutcomeUnhandled
	}

	c := Candidate{FlowID: ev.FlowID, FlowDef: ev.FlowDef}

	p.mu.Lock()
	dup := false
	for _, existing := range p.candidates {
		if existing == c {
			dup = true
			break
		}
	}
	if !dup {
		p.candidates = append(p.candidates, c)
	}

	_, alreadySelected := p.selected[c.FlowID]
	accept := !dup && !alreadySelected && p.selector.accepts(c.FlowID, len(p.selected) > 0)
	if accept {
		p.selected[c.FlowID] = c.FlowDef
	}
	p.mu.Unlock()

	if accept && p.onSelect != nil {
		p.onSelect(c)
	}
	return uprobe.OutcomeUnhandled
}

// Selected returns the currently accepted flow ids and their flow defs,
// in no particular order.
func (p *Probe) Selected() []Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Candidate, 0, len(p.selected))
	for id, def := range p.selected {
		out = append(out, Candidate{FlowID: id, FlowDef: def})
	}
	return out
}

// Candidates returns every distinct (flow_id, flow_def) pair observed,
// in first-seen order, regardless of whether it was accepted.
func (p *Probe) Candidates() []Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Candidate(nil), p.candidates...)
}
