// Package dejitter implements a probe maintaining an exponential moving
// average of the offset between a uref's program clock reference and
// wall time, matching upipe's upipe_dejitter/the dejittering smoothing
// upipe's uclock-ref probes apply to live sources with jittery PCRs.
package dejitter

import "upipe.go.dev/upipe/uprobe"

// defaultAlpha weights the latest sample at 1/16th, a slow-converging
// average chosen to ride out single-packet jitter without tracking real
// clock drift.
const defaultAlpha = 1.0 / 16.0

// Probe watches KindClockRef events (a fresh program-clock-reference
// sample paired with the wall-clock time it was observed at) and tracks
// a smoothed offset between the two, exposed via Offset.
type Probe struct {
	alpha     float64
	have      bool
	offsetAvg float64
}

// New creates a Probe with the default smoothing factor.
func New() *Probe {
	return &Probe{alpha: defaultAlpha}
}

// NewWithAlpha creates a Probe with a custom smoothing factor in (0,1];
// higher values track jitter more closely and smooth it less.
func NewWithAlpha(alpha float64) *Probe {
	return &Probe{alpha: alpha}
}

// Sample folds one (programClock, wallClock) pair, both expressed in
// the same time unit (nanoseconds), into the running average.
func (p *Probe) Sample(programClock, wallClock int64) {
	offset := float64(wallClock - programClock)
	if !p.have {
		p.offsetAvg = offset
		p.have = true
		return
	}
	p.offsetAvg += p.alpha * (offset - p.offsetAvg)
}

// Offset returns the current smoothed wall-minus-program offset in
// nanoseconds, and whether at least one sample has been folded in.
func (p *Probe) Offset() (int64, bool) {
	return int64(p.offsetAvg), p.have
}

// Throw implements uprobe.Probe. It expects ev.Request to carry a
// *Sample value for KindClockRef events; anything else falls through
// unhandled.
func (p *Probe) Throw(pipe uprobe.Pipe, ev uprobe.Event) uprobe.Outcome {
	if ev.Kind != uprobe.KindClockRef {
		return uprobe.OutcomeUnhandled
	}
	sample, ok := ev.Request.(*Sample)
	if !ok {
		return uprobe.OutcomeUnhandled
	}
	p.Sample(sample.ProgramClock, sample.WallClock)
	return uprobe.OutcomeUnhandled
}

// Sample is the payload a pipe attaches to a KindClockRef Event.
type Sample struct {
	ProgramClock int64
	WallClock    int64
}
