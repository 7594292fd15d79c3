// Package worker implements the wsrc/wlin/wsink composites from
// each wraps an inner pipe running on its own xfer
// worker goroutine with qpipe queues exposed on the calling ("owner")
// thread, so a pipeline can mix pipes living on different event loops
// without any of them blocking on a cross-thread call.
package worker

import (
	"context"
	"fmt"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/upipe/qpipe"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/xfer"
)

// Wlin composes an owner-side input qsink/qsrc pair, a worker-thread
// inner pipe reached through an xfer proxy, and an owner-side output
// qsink/qsrc pair (upipe's wlin construction).
type Wlin struct {
	upipe.Base
	xferMgr *xfer.Manager
	proxy   upipe.Pipe
	inSink  *qpipe.Sink
	inSrc   *qpipe.Src
	outSink *qpipe.Sink
	outSrc  *qpipe.Src
}

// NewWlin wires inner onto its own xfer worker. inner.Control is called
// directly here (construction time, before any concurrent traffic) to
// bind its output to the worker-side half of the output queue.
func NewWlin(ownerProbe, workerProbe uprobe.Probe, inner upipe.Pipe, cmdQueueLen, inQueueLen, outQueueLen int) (*Wlin, error) {
	xferMgr := xfer.New(cmdQueueLen)
	proxy := xferMgr.Alloc(workerProbe, inner)

	inSink, inSrc := qpipe.New(ownerProbe, inQueueLen)
	if err := inSrc.Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: proxy}); err != nil {
		return nil, err
	}

	outSink, outSrc := qpipe.New(ownerProbe, outQueueLen)
	if err := inner.Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: outSink}); err != nil {
		return nil, err
	}

	w := &Wlin{xferMgr: xferMgr, proxy: proxy, inSink: inSink, inSrc: inSrc, outSink: outSink, outSrc: outSrc}
	upipe.Init(&w.Base, inner.ID(), "worker.wlin", ownerProbe, w, func() {
		proxy.Release()
		xferMgr.Stop()
	})
	return w, nil
}

// Input implements upipe.Pipe, enqueuing ref onto the owner-side input
// queue; it never blocks, per qpipe.Sink's contract.
func (w *Wlin) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	w.inSink.Input(ctx, ref, pump)
}

// Control implements upipe.Pipe. CmdSetOutput/CmdGetOutput address the
// owner-side output queue; CmdFlush drops held input on both queue
// halves directly rather than marshaling a flush through inner, since a
// flushed worker should drop what it's holding, not mutate the wrapped
// pipe's own state; everything else marshals to inner via proxy.
func (w *Wlin) Control(cmd *upipe.Command) error {
	switch cmd.Kind {
	case upipe.CmdSetOutput, upipe.CmdGetOutput:
		return w.outSrc.Control(cmd)
	case upipe.CmdFlush:
		w.inSink.Control(cmd)
		w.outSrc.Control(cmd)
		return nil
	default:
		return w.proxy.Control(cmd)
	}
}

// Pump drains at most one held input across the thread boundary and at
// most one produced output to the owner-side downstream pipe. Callers
// drive this from an upump idler (or a test loop) to move urefs.
func (w *Wlin) Pump(ctx context.Context) (inMoved, outMoved bool) {
	inMoved = w.inSrc.Poll(ctx, nil)
	outMoved = w.outSrc.Poll(ctx, nil)
	return
}

// Wsrc composes a worker-thread source inner pipe reached through an
// xfer proxy with an owner-side output qsink/qsrc pair; it omits the
// input queue since a source pipe has no upstream.
type Wsrc struct {
	upipe.Base
	xferMgr *xfer.Manager
	proxy   upipe.Pipe
	outSink *qpipe.Sink
	outSrc  *qpipe.Src
}

// NewWsrc wires inner (a source pipe) onto its own xfer worker.
func NewWsrc(ownerProbe, workerProbe uprobe.Probe, inner upipe.Pipe, cmdQueueLen, outQueueLen int) (*Wsrc, error) {
	xferMgr := xfer.New(cmdQueueLen)
	proxy := xferMgr.Alloc(workerProbe, inner)

	outSink, outSrc := qpipe.New(ownerProbe, outQueueLen)
	if err := inner.Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: outSink}); err != nil {
		return nil, err
	}

	w := &Wsrc{xferMgr: xferMgr, proxy: proxy, outSink: outSink, outSrc: outSrc}
	upipe.Init(&w.Base, inner.ID(), "worker.wsrc", ownerProbe, w, func() {
		proxy.Release()
		xferMgr.Stop()
	})
	return w, nil
}

// Input implements upipe.Pipe; a source has no upstream, so this
// always reports an error through the probe chain and is a no-op.
func (w *Wsrc) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	w.Throw(uprobe.Event{Kind: uprobe.KindError, Err: fmt.Errorf("worker: wsrc has no input side")})
}

// Control implements upipe.Pipe. CmdSetOutput/CmdGetOutput address the
// owner-side output queue; everything else, CmdFlush included, marshals
// to inner via proxy.
func (w *Wsrc) Control(cmd *upipe.Command) error {
	switch cmd.Kind {
	case upipe.CmdSetOutput, upipe.CmdGetOutput:
		return w.outSrc.Control(cmd)
	default:
		return w.proxy.Control(cmd)
	}
}

// Pump drains at most one produced output to the owner-side downstream.
func (w *Wsrc) Pump(ctx context.Context) bool {
	return w.outSrc.Poll(ctx, nil)
}

// Wsink composes an owner-side input qsink/qsrc pair with a
// worker-thread sink inner pipe reached through an xfer proxy; it
// omits the output queue since a sink pipe has no downstream.
type Wsink struct {
	upipe.Base
	xferMgr *xfer.Manager
	proxy   upipe.Pipe
	inSink  *qpipe.Sink
	inSrc   *qpipe.Src
}

// NewWsink wires inner (a sink pipe) onto its own xfer worker.
func NewWsink(ownerProbe, workerProbe uprobe.Probe, inner upipe.Pipe, cmdQueueLen, inQueueLen int) (*Wsink, error) {
	xferMgr := xfer.New(cmdQueueLen)
	proxy := xferMgr.Alloc(workerProbe, inner)

	inSink, inSrc := qpipe.New(ownerProbe, inQueueLen)
	if err := inSrc.Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: proxy}); err != nil {
		return nil, err
	}

	w := &Wsink{xferMgr: xferMgr, proxy: proxy, inSink: inSink, inSrc: inSrc}
	upipe.Init(&w.Base, inner.ID(), "worker.wsink", ownerProbe, w, func() {
		proxy.Release()
		xferMgr.Stop()
	})
	return w, nil
}

// Input implements upipe.Pipe, enqueuing ref onto the owner-side input
// queue.
func (w *Wsink) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	w.inSink.Input(ctx, ref, pump)
}

// Control implements upipe.Pipe; CmdFlush drops held input on the
// owner-side queue without propagating (see Wlin.Control), everything
// else marshals to inner via proxy.
func (w *Wsink) Control(cmd *upipe.Command) error {
	if cmd.Kind == upipe.CmdFlush {
		return w.inSink.Control(cmd)
	}
	return w.proxy.Control(cmd)
}

// Pump drains at most one held input across the thread boundary.
func (w *Wsink) Pump(ctx context.Context) bool {
	return w.inSrc.Poll(ctx, nil)
}
