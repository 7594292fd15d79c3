// Package urequest implements the asynchronous resource-request protocol
// pipes use to ask their application (via the probe chain) for managers,
// clocks, and negotiated flow formats.
package urequest

import "github.com/google/uuid"

// Kind identifies what a Request is asking for.
type Kind int

const (
	// KindUrefMgr asks for a uref.Manager to allocate urefs from.
	KindUrefMgr Kind = iota
	// KindUbufMgr asks for a ubuf.Manager able to allocate buffers
	// matching FlowFormat.
	KindUbufMgr
	// KindUpumpMgr asks for the upump.Manager the asking pipe's worker
	// loop should register pumps on.
	KindUpumpMgr
	// KindUClock asks for a uclock.Clock.
	KindUClock
	// KindFlowFormat asks the application to pick a concrete flow
	// format among the alternatives the pipe can produce.
	KindFlowFormat
	// KindSinkLatency asks downstream sinks to report their maximum
	// acceptable buffering latency, so a source can decide how far
	// ahead of real time it may run.
	KindSinkLatency
)

func (k Kind) String() string {
	switch k {
	case KindUrefMgr:
		return "uref_mgr"
	case KindUbufMgr:
		return "ubuf_mgr"
	case KindUpumpMgr:
		return "upump_mgr"
	case KindUClock:
		return "uclock"
	case KindFlowFormat:
		return "flow_format"
	case KindSinkLatency:
		return "sink_latency"
	default:
		return "unknown"
	}
}

// Request is a single pending ask. FlowFormat carries the candidate flow
// definition string for KindUbufMgr/KindFlowFormat; it is empty for
// kinds that need no such qualifier.
type Request struct {
	id         uuid.UUID
	Kind       Kind
	FlowFormat string

	// Provide is called by whoever answers the request, with the
	// concrete resource as `any` (the caller type-asserts it to the
	// expected type for Kind, e.g. upump.Manager for KindUpumpMgr).
	// Provide is nil until a registrant calls Register.
	Provide func(resource any) error

	provided bool
}

// New creates a Request of the given kind.
func New(kind Kind, flowFormat string) *Request {
	return &Request{id: uuid.New(), Kind: kind, FlowFormat: flowFormat}
}

// ID returns the request's unique identifier, used to correlate a
// KindProvideRequest probe event back to the Request that triggered it.
func (r *Request) ID() string {
	return r.id.String()
}

// Register attaches the callback invoked when the request is answered.
// A Request is normally registered once, by the pipe that owns it,
// before the request is thrown up the probe chain.
func (r *Request) Register(provide func(resource any) error) {
	r.Provide = provide
}

// Answer delivers resource to the registered callback. Requests may be
// re-answered if the resource changes later (e.g. a sink's reported
// latency); each call re-invokes Provide. provided only latches "has
// been answered at least once" for Answered.
func (r *Request) Answer(resource any) error {
	if r.Provide == nil {
		return nil
	}
	r.provided = true
	return r.Provide(resource)
}

// Answered reports whether Answer has already run.
func (r *Request) Answered() bool {
	return r.provided
}
