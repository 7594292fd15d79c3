// Package upumpthrottle implements a timer-backed pump that only invokes
// its callback when a golang.org/x/time/rate.Limiter allows it, so tests
// can exercise pacing/back-pressure behavior (e.g. modules/genblk's rate
// knob) without opening any real file descriptor, following
// upump/upumpqueue's timerPump idiom generalized with a token-bucket gate.
package upumpthrottle

import (
	"time"

	"golang.org/x/time/rate"

	"upipe.go.dev/upipe/upump"
)

// Pump wraps a repeating timer registered on a upump.Manager: every tick,
// fn runs only if limiter currently has a token to spend.
type Pump struct {
	mgr     upump.Manager
	limiter *rate.Limiter
	period  time.Duration
	fn      func()
	timer   upump.Pump

	ticks   int64
	allowed int64
}

// New creates a Pump that polls limiter every period and calls fn on the
// ticks it allows. limiter must not be nil.
func New(mgr upump.Manager, limiter *rate.Limiter, period time.Duration, fn func()) *Pump {
	return &Pump{mgr: mgr, limiter: limiter, period: period, fn: fn}
}

// Start registers the underlying repeating timer.
func (p *Pump) Start() error {
	timer, err := p.mgr.AddTimer(p.period, true, p.tick)
	if err != nil {
		return err
	}
	p.timer = timer
	return p.timer.Start()
}

// Stop disarms the underlying timer.
func (p *Pump) Stop() error {
	if p.timer == nil {
		return nil
	}
	return p.timer.Stop()
}

func (p *Pump) tick() {
	p.ticks++
	if p.limiter.Allow() {
		p.allowed++
		p.fn()
	}
}

// Ticks reports how many timer ticks have fired, for tests.
func (p *Pump) Ticks() int64 { return p.ticks }

// Allowed reports how many ticks the limiter let through, for tests.
func (p *Pump) Allowed() int64 { return p.allowed }
