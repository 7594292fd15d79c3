package upipe

import "sync"

// WeakRef holds a non-owning reference to a Pipe, used for a subpipe's
// back-pointer to its super pipe: the super retains its subpipes, so a
// subpipe holding a strong reference back would create a refcount cycle
// neither side can ever zero out. Resolve returns nil once the super has
// been torn down and Invalidate called.
type WeakRef struct {
	mu   sync.RWMutex
	pipe Pipe
}

// NewWeakRef wraps pipe without retaining it.
func NewWeakRef(pipe Pipe) *WeakRef {
	return &WeakRef{pipe: pipe}
}

// Resolve returns the referenced Pipe, or nil if Invalidate has run.
func (w *WeakRef) Resolve() Pipe {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pipe
}

// Invalidate clears the reference; called by the super pipe's teardown
// path (its onZero callback) so subpipes stop resolving a dead super.
func (w *WeakRef) Invalidate() {
	w.mu.Lock()
	w.pipe = nil
	w.mu.Unlock()
}
