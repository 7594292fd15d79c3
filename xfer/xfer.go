// Package xfer implements cross-thread pipe handoff: a
// Manager owns one worker goroutine running an event loop; Alloc wraps
// an inner pipe living on that worker with a proxy pipe safe to call
// from any other goroutine. Every proxy call marshals into a closure
// sent down a command channel: a transfer value owns a channel of boxed
// commands and a worker thread, and each command box carries a closure
// over the inner pipe.
package xfer

import (
	"context"
	"fmt"

	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
)

// Manager runs a single worker goroutine and serializes every command
// sent to any proxy it allocated through one channel, guaranteeing all
// of a wrapped inner pipe's state is only ever touched from that one
// goroutine.
type Manager struct {
	commands chan func()
	done     chan struct{}
}

// New creates a Manager with the given command-queue depth and starts
// its worker goroutine.
func New(queueLen int) *Manager {
	m := &Manager{
		commands: make(chan func(), queueLen),
		done:     make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Manager) run() {
	defer close(m.done)
	for cmd := range m.commands {
		cmd()
	}
}

// Stop closes the command channel and waits for the worker to drain
// and exit. No further commands may be submitted afterward.
func (m *Manager) Stop() {
	close(m.commands)
	<-m.done
}

// post enqueues cmd, returning ErrUpump if the Manager has already been
// stopped.
func (m *Manager) post(cmd func()) error {
	select {
	case <-m.done:
		return fmt.Errorf("xfer: manager stopped: %w", uerror.ErrUpump)
	default:
	}
	select {
	case m.commands <- cmd:
		return nil
	case <-m.done:
		return fmt.Errorf("xfer: manager stopped: %w", uerror.ErrUpump)
	}
}

// proxy is the Pipe handed back by Alloc; it never touches inner
// directly, only through commands posted to mgr.commands.
type proxy struct {
	upipe.Base
	mgr   *Manager
	inner upipe.Pipe
}

// Alloc wraps inner (which must only ever be touched through the
// returned proxy from now on) so calls from any goroutine are safely
// serialized onto mgr's worker. inner is retained on the proxy's
// behalf; the proxy's last Release enqueues inner's matching Release so
// inner is torn down on the worker thread that owns it, matching
// upipe's refcount policy for transferred pipes.
func (m *Manager) Alloc(probe uprobe.Probe, inner upipe.Pipe) upipe.Pipe {
	inner = inner.Use()
	p := &proxy{mgr: m, inner: inner}
	upipe.Init(&p.Base, inner.ID(), upipe.Signature("xfer."+inner.Signature()), probe, p, func() {
		m.post(func() { inner.Release() })
	})
	return p
}

// Input implements upipe.Pipe by marshaling the call onto the worker.
func (p *proxy) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	p.mgr.post(func() { p.inner.Input(ctx, ref, pump) })
}

// Control implements upipe.Pipe by marshaling the call onto the worker
// and blocking until it has run, since control commands have return
// values the caller needs synchronously.
func (p *proxy) Control(cmd *upipe.Command) error {
	result := make(chan error, 1)
	if err := p.mgr.post(func() { result <- p.inner.Control(cmd) }); err != nil {
		return err
	}
	return <-result
}
