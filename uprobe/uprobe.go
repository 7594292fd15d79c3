// Package uprobe implements the probe/event-catcher chain every pipe uses
// to report local events to its application. A
// Probe is a node in a singly-linked chain: DESIGN_NOTES' "vector of
// Fn(&Pipe,&Event)->Outcome" becomes an explicit next pointer here rather
// than a slice, so a probe can short-circuit the chain by returning
// OutcomeHandled.
package uprobe

import "fmt"

// Pipe is the minimal view of a pipe a probe needs: enough to log or key
// by instance without uprobe importing the upipe package (which itself
// depends on uprobe.Probe/Event/Outcome). upipe.Pipe satisfies this
// interface structurally.
type Pipe interface {
	Signature() string
	ID() string
}

// Kind identifies the category of event being thrown, standing in for
// upipe's throw()-with-variadic-args per-event-type macros.
type Kind int

const (
	KindReady Kind = iota
	KindDead
	KindFatalError
	KindError
	KindNeedOutput
	KindNeedInput
	KindNewFlowDef
	KindSourceEnd
	KindSinkEnd
	KindNeedUrefMgr
	KindNeedUbufMgr
	KindNeedUpumpMgr
	KindNeedUclock
	KindProvideRequest
	KindClockRef
	KindClockTS
	KindClockUTC
	KindUpdate
	KindSplitEnd
	KindRebuffer
)

func (k Kind) String() string {
	switch k {
	case KindReady:
		return "ready"
	case KindDead:
		return "dead"
	case KindFatalError:
		return "fatal_error"
	case KindError:
		return "error"
	case KindNeedOutput:
		return "need_output"
	case KindNeedInput:
		return "need_input"
	case KindNewFlowDef:
		return "new_flow_def"
	case KindSourceEnd:
		return "source_end"
	case KindSinkEnd:
		return "sink_end"
	case KindNeedUrefMgr:
		return "need_uref_mgr"
	case KindNeedUbufMgr:
		return "need_ubuf_mgr"
	case KindNeedUpumpMgr:
		return "need_upump_mgr"
	case KindNeedUclock:
		return "need_uclock"
	case KindProvideRequest:
		return "provide_request"
	case KindClockRef:
		return "clock_ref"
	case KindClockTS:
		return "clock_ts"
	case KindClockUTC:
		return "clock_utc"
	case KindUpdate:
		return "update"
	case KindSplitEnd:
		return "split_end"
	case KindRebuffer:
		return "rebuffer"
	default:
		return fmt.Sprintf("uprobe.Kind(%d)", int(k))
	}
}

// Event is a tagged union of everything a pipe can throw upward. Only the
// fields relevant to Kind are meaningful; this replaces upipe's variadic
// throw(pipe, event, ...) calls with a single typed value.
type Event struct {
	Kind Kind

	// Err carries the cause for KindFatalError/KindError.
	Err error

	// Request carries the pending resource ask for KindNeedUrefMgr,
	// KindNeedUbufMgr, KindNeedUpumpMgr, KindNeedUclock and
	// KindProvideRequest. It is declared as `any` to avoid uprobe
	// depending on urequest; callers type-assert to *urequest.Request.
	Request any

	// FlowDef carries the new flow definition string for
	// KindNewFlowDef.
	FlowDef string

	// FlowID carries the new flow's numeric identifier for
	// KindNewFlowDef, so a selecting probe can match against an id
	// list rather than only the flow def string.
	FlowID int

	// Message is a free-form human string for events that are
	// informational only (KindUpdate and friends).
	Message string
}

// Outcome reports what a Probe did with an Event.
type Outcome int

const (
	// OutcomeUnhandled means the event was not handled and should be
	// passed to the next probe in the chain.
	OutcomeUnhandled Outcome = iota
	// OutcomeHandled means the event was handled and the chain should
	// stop.
	OutcomeHandled
	// OutcomeError means the probe itself failed while handling the
	// event. Chain stops at it just as at OutcomeHandled and returns it
	// to the thrower.
	OutcomeError
)

// Probe is one link in the event-catcher chain.
type Probe interface {
	// Throw delivers ev, originating from pipe, to this probe. A probe
	// that does not recognize ev.Kind should call Next and return its
	// result, or return OutcomeUnhandled directly if it has no next
	// probe wired.
	Throw(pipe Pipe, ev Event) Outcome
}

// Chain links two probes: head handles events first, falling through to
// tail when it returns OutcomeUnhandled.
type Chain struct {
	head Probe
	tail Probe
}

// Link builds a chain where head is tried before tail. A nil tail makes
// Link equivalent to head alone.
func Link(head, tail Probe) *Chain {
	return &Chain{head: head, tail: tail}
}

// Throw implements Probe.
func (c *Chain) Throw(pipe Pipe, ev Event) Outcome {
	if c.head != nil {
		if out := c.head.Throw(pipe, ev); out != OutcomeUnhandled {
			return out
		}
	}
	if c.tail != nil {
		return c.tail.Throw(pipe, ev)
	}
	return OutcomeUnhandled
}

// Func adapts a plain function to the Probe interface.
type Func func(pipe Pipe, ev Event) Outcome

// Throw implements Probe.
func (f Func) Throw(pipe Pipe, ev Event) Outcome {
	return f(pipe, ev)
}

// Terminator is a Probe placed at the end of a chain that returns
// OutcomeHandled for every event it receives, fatal and error events
// included, without logging or panicking.
type Terminator struct{}

// Throw implements Probe.
func (Terminator) Throw(pipe Pipe, ev Event) Outcome {
	return OutcomeHandled
}
