// Package uref implements the reference packet that flows between pipes
// it owns exactly one udict.Dict plus at most one
// ubuf.Ubuf. A Ref without a Ubuf carries a control/flow-definition
// packet; one with a Ubuf carries data.
package uref

import (
	"upipe.go.dev/upipe/udict"
	"upipe.go.dev/upipe/ubuf"
)

// Ref is the unit of data or control flowing between pipes.
type Ref struct {
	dict *udict.Dict
	buf  ubuf.Ubuf
}

// Manager allocates fresh Refs backed by a pooled udict.Manager,
// answering a pipe's KindNeedUrefMgr probe request (upipe's
// uref_mgr, generalized here to just the dict-allocation half since
// ubuf allocation is negotiated separately via KindNeedUbufMgr).
type Manager struct {
	dicts *udict.Manager
}

// NewManager creates a Manager around its own udict.Manager.
func NewManager() *Manager {
	return &Manager{dicts: udict.NewManager()}
}

// Alloc returns a new control-packet Ref (no attached buffer).
func (m *Manager) Alloc() *Ref {
	return New(m.dicts.Alloc())
}

// Vacuum drops pooled dicts, per the ubuf-style manager vacuum contract.
func (m *Manager) Vacuum() {
	m.dicts.Vacuum()
}

// New wraps dict (taking ownership of it) with no attached buffer,
// producing a control/flow-definition packet.
func New(dict *udict.Dict) *Ref {
	return &Ref{dict: dict}
}

// NewWithBuf wraps dict and buf together, producing a data packet.
func NewWithBuf(dict *udict.Dict, buf ubuf.Ubuf) *Ref {
	return &Ref{dict: dict, buf: buf}
}

// Dict returns the attribute dictionary.
func (r *Ref) Dict() *udict.Dict {
	return r.dict
}

// Buf returns the attached buffer, or nil if this is a control packet.
func (r *Ref) Buf() ubuf.Ubuf {
	return r.buf
}

// HasBuf reports whether this uref carries data.
func (r *Ref) HasBuf() bool {
	return r.buf != nil
}

// Dup deep-copies the dictionary and shares the buffer (if any), per
// upipe's "uref_dup shares the ubuf and copies the udict" contract.
func (r *Ref) Dup() *Ref {
	nr := &Ref{dict: r.dict.Clone()}
	if r.buf != nil {
		nr.buf = r.buf.Dup()
	}
	return nr
}

// Fork returns a copy of r with its buffer replaced by buf; the dict is
// shared, not copied, matching upipe's "uref_fork swaps the ubuf for
// another" (the dict is not duplicated since Fork is used to attach a
// freshly transcoded buffer to otherwise-identical control attributes
// within a single pipe's ownership, not to create an independently
// mutable sibling - callers needing an independent dict should Dup first).
func (r *Ref) Fork(buf ubuf.Ubuf) *Ref {
	return &Ref{dict: r.dict, buf: buf}
}

// Free releases the buffer (if any) and the dictionary back to their
// pools. After Free, r must not be used.
func (r *Ref) Free() {
	if r.buf != nil {
		r.buf.Release()
	}
	r.dict.Release()
}
