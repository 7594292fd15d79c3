// Package udict implements the ordered, typed attribute dictionary that
// backs every uref. A Dict maps (name, Kind) pairs to values, preserving
// insertion order for iteration, and is pool-recycled through a Manager
// the same way ubuf backings are. Dict itself has no copy-on-write
// mechanism; uref.Dup gets copy-on-write semantics for the dict it
// carries by calling Clone eagerly rather than aliasing it.
package udict

import (
	"fmt"
	"sync"
)

// Kind identifies the type tag half of a Dict key. Two entries with the
// same name but different Kind are distinct attributes, mirroring upipe's
// udict, which distinguishes e.g. a "k.pts.sys" unsigned-int from a
// same-named string.
type Kind int

const (
	// KindOpaque stores an arbitrary blob, e.g. raw codec private data.
	KindOpaque Kind = iota
	KindString
	KindBool
	KindSmallInt // uint8
	KindInt      // int64
	KindUnsigned // uint64
	KindFloat    // float64
	KindRational
	KindVoid // nested Dict, used by e.g. per-plane picture attributes
)

// Rational is a numerator/denominator pair, used for sar/dar/fps-style
// attributes that must not silently lose precision to a float.
type Rational struct {
	Num, Den int64
}

type key struct {
	name string
	kind Kind
}

type entry struct {
	key   key
	value any
}

// Dict is an ordered typed key/value store. The zero value is an empty,
// unmanaged Dict (what New returns); a Manager's Alloc hands out
// recycled ones.
type Dict struct {
	entries []entry
	mgr     *Manager
}

// New creates an empty, unmanaged Dict.
func New() *Dict {
	return &Dict{}
}

// ErrNotFound is returned by Get when no entry matches the given name and
// kind.
var ErrNotFound = fmt.Errorf("udict: attribute not found")

func (d *Dict) indexOf(name string, kind Kind) int {
	for i, e := range d.entries {
		if e.key.name == name && e.key.kind == kind {
			return i
		}
	}
	return -1
}

// Get returns the value stored for (name, kind), or ErrNotFound.
func (d *Dict) Get(name string, kind Kind) (any, error) {
	i := d.indexOf(name, kind)
	if i < 0 {
		return nil, ErrNotFound
	}
	return d.entries[i].value, nil
}

// Set stores value under (name, kind), appending a new entry if the
// attribute didn't already exist, or overwriting in place (preserving
// original insertion order) if it did.
func (d *Dict) Set(name string, kind Kind, value any) {
	i := d.indexOf(name, kind)
	if i >= 0 {
		d.entries[i].value = value
		return
	}
	d.entries = append(d.entries, entry{key: key{name: name, kind: kind}, value: value})
}

// Delete removes the (name, kind) attribute, if present. Deleting an
// absent attribute is a no-op.
func (d *Dict) Delete(name string, kind Kind) {
	i := d.indexOf(name, kind)
	if i < 0 {
		return
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
}

// Attr is the (name, kind) key Iterate reports for each attribute. An
// attribute name stored as both a string and an int, say, is reported
// twice, once per Kind.
type Attr struct {
	Name string
	Kind Kind
}

// Iterate calls fn for every attribute in insertion order, stopping early
// if fn returns false.
func (d *Dict) Iterate(fn func(Attr, any) bool) {
	for _, e := range d.entries {
		if !fn(Attr{Name: e.key.name, Kind: e.key.kind}, e.value) {
			return
		}
	}
}

// Len returns the number of attributes stored.
func (d *Dict) Len() int {
	return len(d.entries)
}

// Clone returns a deep-enough copy: the entry slice is copied so the clone
// can be mutated without affecting the original, but attribute values
// themselves are not deep-copied (callers storing mutable values, e.g. a
// []byte opaque blob, are responsible for not mutating it through both
// handles).
func (d *Dict) Clone() *Dict {
	clone := &Dict{
		entries: make([]entry, len(d.entries)),
		mgr:     d.mgr,
	}
	copy(clone.entries, d.entries)
	return clone
}

// Release returns the Dict to its originating Manager's pool, if any.
// After Release the Dict must not be used.
func (d *Dict) Release() {
	if d.mgr != nil {
		d.mgr.put(d)
	}
}

// Manager recycles Dict values through a pool, mirroring the ubuf handle
// pool: allocation pops a free Dict (resetting it), Release pushes it back.
type Manager struct {
	pool sync.Pool
}

// NewManager creates a Dict Manager.
func NewManager() *Manager {
	m := &Manager{}
	m.pool.New = func() any { return &Dict{} }
	return m
}

// Alloc returns an empty Dict, reused from the pool when possible.
func (m *Manager) Alloc() *Dict {
	d := m.pool.Get().(*Dict)
	d.entries = d.entries[:0]
	d.mgr = m
	return d
}

func (m *Manager) put(d *Dict) {
	d.entries = nil
	m.pool.Put(d)
}

// Vacuum drops every pooled Dict, per the ubuf-style manager vacuum
// contract: safe to call from any goroutine at any time.
func (m *Manager) Vacuum() {
	m.pool = sync.Pool{New: func() any { return &Dict{} }}
}
