// Package xferprobe implements a logging probe wired onto the proxy
// pipe xfer.Manager allocates on the caller's thread, tagging every
// event with the cross-thread transfer's direction so a mixed log
// stream stays attributable, following uprobe/prefix's delegation
// shape specialized for xfer's lifecycle events.
package xferprobe

import (
	"go.uber.org/zap"

	"upipe.go.dev/upipe/uprobe"
)

// Probe logs xfer lifecycle events (KindReady/KindDead crossing the
// thread boundary) at Info level and everything else at Debug, then
// always falls through.
type Probe struct {
	log  *zap.Logger
	name string
}

// New creates a Probe tagging every log line with name (typically the
// xfer.Manager's worker identifier).
func New(log *zap.Logger, name string) *Probe {
	return &Probe{log: log, name: name}
}

// Throw implements uprobe.Probe.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	fields := []zap.Field{
		zap.String("xfer", p.name),
		zap.String("signature", pipe.Signature()),
		zap.String("event", ev.Kind.String()),
	}
	switch ev.Kind {
	case uprobe.KindReady, uprobe.KindDead:
		p.log.Info("xfer transfer event", fields...)
	default:
		p.log.Debug("xfer transfer event", fields...)
	}
	return uprobe.OutcomeUnhandled
}
