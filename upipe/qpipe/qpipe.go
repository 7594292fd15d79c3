// Package qpipe implements the bounded single-producer/single-consumer
// FIFO queue pipe pair needed between a cross-thread
// transfer's inner pipe and its proxy: a Sink accepts urefs on one side
// and a Src hands them out the other, with a fixed-capacity channel
// between them standing in for a cond-variable-gated ring buffer,
// generalized from raw sample slices to urefs, plus an explicit overflow
// list so blocked writers resume in arrival order once capacity frees up
// instead of blocking the producer's goroutine outright, since a pipe's
// Input must never block its caller's event loop.
package qpipe

import (
	"context"
	"fmt"
	"sync"

	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
)

type heldItem struct {
	ref  *uref.Ref
	pump upump.Pump
}

// queue is the shared FIFO state a Sink/Src pair wraps. Items beyond ch's
// capacity are kept in held, in arrival order, and fed into ch one at a
// time as space frees up, so overall delivery order is preserved.
type queue struct {
	mu   sync.Mutex
	ch   chan *uref.Ref
	held []heldItem
}

func newQueue(capacity int) *queue {
	return &queue{ch: make(chan *uref.Ref, capacity)}
}

// push returns true if ref was accepted directly into ch, false if it
// was held because ch (and every item ahead of it) is full. A held
// pump is stopped immediately; the caller must not assume Input pushed
// downstream synchronously in that case.
func (q *queue) push(ref *uref.Ref, pump upump.Pump) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.held) == 0 {
		select {
		case q.ch <- ref:
			return true
		default:
		}
	}
	q.held = append(q.held, heldItem{ref: ref, pump: pump})
	if pump != nil {
		pump.Stop()
	}
	return false
}

// pop removes and returns the oldest item, promoting the next held item
// (if any) into ch to take its place. ok is false if the queue was
// empty.
func (q *queue) pop() (*uref.Ref, bool) {
	select {
	case ref := <-q.ch:
		q.mu.Lock()
		if len(q.held) > 0 {
			next := q.held[0]
			q.held = q.held[1:]
			q.mu.Unlock()
			q.ch <- next.ref
			if next.pump != nil {
				next.pump.Start()
			}
		} else {
			q.mu.Unlock()
		}
		return ref, true
	default:
		return nil, false
	}
}

func (q *queue) length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ch) + len(q.held)
}

// flush drops every queued and held item without forwarding it,
// implementing CmdFlush.
func (q *queue) flush() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case <-q.ch:
		default:
			q.held = nil
			return
		}
	}
}

// Sink is the producer-facing half of a queue pipe pair.
type Sink struct {
	upipe.Base
	q *queue
}

// Src is the consumer-facing half of a queue pipe pair.
type Src struct {
	upipe.Base
	q      *queue
	output upipe.Pipe
}

// New creates a Sink/Src pair sharing one FIFO of the given capacity.
func New(probe uprobe.Probe, capacity int) (*Sink, *Src) {
	q := newQueue(capacity)

	sink := &Sink{q: q}
	upipe.Init(&sink.Base, "", "qpipe.sink", probe, sink, func() {})

	src := &Src{q: q}
	upipe.Init(&src.Base, "", "qpipe.src", probe, src, func() {})

	return sink, src
}

// Input implements upipe.Pipe; it never blocks, holding ref (and
// stopping pump) if the queue and every item ahead of it are full.
func (s *Sink) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	s.q.push(ref, pump)
}

// Control implements upipe.Pipe.
func (s *Sink) Control(cmd *upipe.Command) error {
	switch cmd.Kind {
	case upipe.CmdFlush:
		s.q.flush()
		return nil
	default:
		return fmt.Errorf("qpipe: sink does not understand %s: %w", cmd.Kind, uerror.ErrUnhandled)
	}
}

// Len reports how many urefs are currently queued or held, for tests
// and diagnostics.
func (s *Sink) Len() int {
	return s.q.length()
}

// Input implements upipe.Pipe; Src has no upstream of its own, so any
// direct Input call is rejected.
func (s *Src) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	s.Throw(uprobe.Event{Kind: uprobe.KindError, Err: fmt.Errorf("qpipe: src does not accept direct input")})
}

// Control implements upipe.Pipe.
func (s *Src) Control(cmd *upipe.Command) error {
	switch cmd.Kind {
	case upipe.CmdSetOutput:
		s.output = cmd.Output
		return nil
	case upipe.CmdGetOutput:
		if cmd.OutputOut != nil {
			*cmd.OutputOut = s.output
		}
		return nil
	case upipe.CmdFlush:
		s.q.flush()
		return nil
	default:
		return fmt.Errorf("qpipe: src does not understand %s: %w", cmd.Kind, uerror.ErrUnhandled)
	}
}

// Poll pops at most one queued uref and forwards it to the wired
// output, returning whether anything was forwarded. Worker composites
// drive this from an upump idler, matching upipe's qsrc reading loop.
func (s *Src) Poll(ctx context.Context, pump upump.Pump) bool {
	ref, ok := s.q.pop()
	if !ok {
		return false
	}
	if s.output != nil {
		s.output.Input(ctx, ref, pump)
	}
	return true
}
