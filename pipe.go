// Package upipe implements the polymorphic processing node every
// element of a pipeline is built from:
// it accepts urefs and control commands on Input/Control and emits
// urefs and events to its output pipe and probe chain respectively.
package upipe

import (
	"context"

	"upipe.go.dev/upipe/internal/refcount"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
)

// Signature identifies a pipe's manager family, standing in for
// upipe's 4-character manager tags; Go interfaces make unsafe
// downcasting unnecessary, so Signature here is just a human-readable
// string used in log fields and in xfer proxy signatures.
type Signature string

// Pipe is the contract every pipe implementation satisfies. It also
// satisfies uprobe.Pipe, so any Pipe can be passed straight to a
// Probe's Throw.
type Pipe interface {
	// Input delivers one uref for processing. pump is the upump.Pump
	// the caller was using when it decided to push now; a pipe that
	// cannot accept ref immediately (back-pressure) calls pump.Stop()
	// and is responsible for restarting it once ready (the input-hold
	// idiom in upipe/upipehelper).
	Input(ctx context.Context, ref *uref.Ref, pump upump.Pump)

	// Control executes a synchronous control command. Pipes that do
	// not understand cmd.Kind return uerror.ErrUnhandled so callers
	// (and the probe chain, via KindUnhandled-style forwarding) can
	// react.
	Control(cmd *Command) error

	// Signature returns the pipe's manager family tag.
	Signature() string

	// ID returns this pipe instance's unique identifier.
	ID() string

	// Use retains a reference to the pipe; Release drops one,
	// triggering teardown when the last reference is dropped.
	Use() Pipe
	Release()
}

// Base is embedded by every concrete pipe implementation: it supplies
// ID/Signature/Use/Release/refcount bookkeeping and the probe chain,
// leaving Input/Control to the embedder, following a pattern of small
// composable structs generalized from buffering state to the full pipe
// lifecycle.
type Base struct {
	id   string
	sig  Signature
	rc   *refcount.Counter
	self Pipe // set by the embedder via Init so Use/Release return the concrete type

	Probe uprobe.Probe
}

// Init wires Base's bookkeeping. self must be the concrete pipe value
// embedding this Base, since Use returns self rather than &Base.
func Init(b *Base, id string, sig Signature, probe uprobe.Probe, self Pipe, onZero func()) {
	b.id = id
	b.sig = sig
	b.Probe = probe
	b.self = self
	b.rc = refcount.New(onZero)
}

// ID implements Pipe.
func (b *Base) ID() string { return b.id }

// Signature implements Pipe.
func (b *Base) Signature() string { return string(b.sig) }

// Use implements Pipe.
func (b *Base) Use() Pipe {
	b.rc.Retain()
	return b.self
}

// Release implements Pipe.
func (b *Base) Release() {
	b.rc.Release()
}

// RefCount exposes the live reference count for diagnostics and tests.
func (b *Base) RefCount() int64 {
	return b.rc.Count()
}

// Throw delivers ev to this pipe's probe chain, defaulting to a no-op
// if no probe was wired.
func (b *Base) Throw(ev uprobe.Event) uprobe.Outcome {
	if b.Probe == nil {
		return uprobe.OutcomeUnhandled
	}
	return b.Probe.Throw(b.self, ev)
}

// Manager is the factory/pool-owner interface for a pipe family,
// mirroring upipe_mgr.
type Manager interface {
	// Alloc constructs a new Pipe wired to probe. args are
	// signature-specific constructor parameters, replacing upipe's
	// variadic alloc functions.
	Alloc(probe uprobe.Probe, args ...any) (Pipe, error)

	// Signature returns the manager's pipe family tag.
	Signature() Signature

	// VacuumPools releases any pooled resources the manager's pipes
	// have accumulated (invariant-B4-style vacuuming, propagated down
	// from the umem/ubuf/udict layers).
	VacuumPools()
}
