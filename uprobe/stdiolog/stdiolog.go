// Package stdiolog implements the catch-all logging probe every pipe
// graph wires at the root of its probe chain, replacing upipe's
// uprobe_stdio with structured logging via go.uber.org/zap: a
// *zap.Logger threaded through, Debug/Info/Error calls with typed fields.
package stdiolog

import (
	"go.uber.org/zap"

	"upipe.go.dev/upipe/uprobe"
)

// Probe logs every event it receives, then returns OutcomeUnhandled so
// the probes after it in the chain still see the event.
type Probe struct {
	log *zap.Logger
}

// New wraps an existing *zap.Logger.
func New(log *zap.Logger) *Probe {
	return &Probe{log: log}
}

// NewProduction builds a Probe backed by zap's JSON production config.
func NewProduction() (*Probe, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(log), nil
}

// Throw implements uprobe.Probe.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	fields := []zap.Field{
		zap.String("signature", pipe.Signature()),
		zap.String("pipe_id", pipe.ID()),
		zap.String("event", ev.Kind.String()),
	}

	switch ev.Kind {
	case uprobe.KindFatalError, uprobe.KindError:
		p.log.Error("pipe event", append(fields, zap.Error(ev.Err))...)
	case uprobe.KindNewFlowDef:
		p.log.Info("pipe event", append(fields, zap.Int("flow_id", ev.FlowID), zap.String("flow_def", ev.FlowDef))...)
	default:
		if ev.Message != "" {
			fields = append(fields, zap.String("message", ev.Message))
		}
		p.log.Debug("pipe event", fields...)
	}

	return uprobe.OutcomeUnhandled
}
