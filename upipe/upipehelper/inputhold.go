// Package upipehelper collects the small stateful idioms nearly every
// concrete pipe needs, so signature-specific pipes (modules/genblk,
// modules/counter, ...) can embed them instead of re-deriving the same
// plumbing: holding input while blocked, walking a subpipe list, and
// proxying unanswered requests up the probe chain.
package upipehelper

import (
	"sync"

	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/uref"
)

// InputHold buffers urefs a pipe cannot forward yet (no output wired,
// output is itself back-pressuring, a resource request is still
// pending) and replays them in order once Release is called. It follows
// a "lazily (re)acquire the real resource, guarded by one mutex"
// pattern, generalized from a single pending sample buffer to an
// ordered queue of held urefs.
type InputHold struct {
	mu      sync.Mutex
	held    []heldRef
	blocked bool
}

type heldRef struct {
	ref  *uref.Ref
	pump upump.Pump
}

// Hold reports whether the pipe is currently blocked; if so it queues
// ref for replay and returns true so the caller's Input can return
// immediately. If not blocked, it returns false and the caller should
// process ref normally.
func (h *InputHold) Hold(ref *uref.Ref, pump upump.Pump) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.blocked {
		return false
	}
	h.held = append(h.held, heldRef{ref: ref, pump: pump})
	if pump != nil {
		pump.Stop()
	}
	return true
}

// Block marks the hold as blocked; subsequent Hold calls queue instead
// of passing through.
func (h *InputHold) Block() {
	h.mu.Lock()
	h.blocked = true
	h.mu.Unlock()
}

// Release unblocks the hold and returns every queued uref in the order
// Hold received them, for the caller to replay through its normal
// Input path. The returned pumps are restarted by the caller once each
// ref is processed, mirroring upipe's "replay held input, one pump
// restart per drained packet" convention.
func (h *InputHold) Release() []heldRef {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blocked = false
	drained := h.held
	h.held = nil
	return drained
}

// Blocked reports whether the hold is currently accepting new urefs
// into its queue rather than passing them through.
func (h *InputHold) Blocked() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.blocked
}

// Len reports how many urefs are currently queued.
func (h *InputHold) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.held)
}

// Ref returns the held reference's uref.
func (h heldRef) Ref() *uref.Ref { return h.ref }

// Pump returns the held reference's originating pump, possibly nil.
func (h heldRef) Pump() upump.Pump { return h.pump }
