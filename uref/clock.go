package uref

// Clock domains: the same instant may be expressed
// in the system clock (wall time the runtime measured arrival at), the
// program clock (the stream's own embedded clock reference, e.g. an MPEG
// PCR), or the original clock (the clock the content was authored
// against, before any dejitter/rebasing).
type ClockDomain int

const (
	ClockSys ClockDomain = iota
	ClockProg
	ClockOrig
)

func clockAttr(kind string, domain ClockDomain) string {
	switch domain {
	case ClockProg:
		return "k." + kind + ".prog"
	case ClockOrig:
		return "k." + kind + ".orig"
	default:
		return "k." + kind + ".sys"
	}
}

// PTS returns the presentation timestamp in the given clock domain, as a
// count of clock ticks (see Rate for the tick rate).
func (r *Ref) PTS(domain ClockDomain) (uint64, error) {
	return getUint64(r, clockAttr("pts", domain))
}

// SetPTS sets the presentation timestamp in the given clock domain.
func (r *Ref) SetPTS(domain ClockDomain, v uint64) {
	setUint64(r, clockAttr("pts", domain), v)
}

// DTS returns the decode timestamp in the given clock domain.
func (r *Ref) DTS(domain ClockDomain) (uint64, error) {
	return getUint64(r, clockAttr("dts", domain))
}

// SetDTS sets the decode timestamp in the given clock domain.
func (r *Ref) SetDTS(domain ClockDomain, v uint64) {
	setUint64(r, clockAttr("dts", domain), v)
}

// CR returns the clock reference (e.g. a transport-stream PCR) in the
// given clock domain.
func (r *Ref) CR(domain ClockDomain) (uint64, error) {
	return getUint64(r, clockAttr("cr", domain))
}

// SetCR sets the clock reference in the given clock domain.
func (r *Ref) SetCR(domain ClockDomain, v uint64) {
	setUint64(r, clockAttr("cr", domain), v)
}

// Rate returns the clock tick rate (ticks per second) PTS/DTS/CR values
// are expressed in.
func (r *Ref) Rate() (uint64, error) {
	return getUint64(r, "k.rate")
}

// SetRate sets the clock tick rate.
func (r *Ref) SetRate(v uint64) {
	setUint64(r, "k.rate", v)
}

// TSOffset returns the accumulated timestamp offset applied by dejitter
// rebasing (sys = prog + offset).
func (r *Ref) TSOffset() (int64, error) {
	return getInt64(r, "k.ts_offset")
}

// SetTSOffset sets the accumulated timestamp offset.
func (r *Ref) SetTSOffset(v int64) {
	setInt64(r, "k.ts_offset", v)
}

// Duration returns the uref's presentation duration in clock ticks.
func (r *Ref) Duration() (uint64, error) {
	return getUint64(r, "k.duration")
}

// SetDuration sets the uref's presentation duration.
func (r *Ref) SetDuration(v uint64) {
	setUint64(r, "k.duration", v)
}

// RAP reports whether this uref is a random access point (a decode can
// start cleanly here).
func (r *Ref) RAP() (bool, error) {
	return getBool(r, "k.rap")
}

// SetRAP marks this uref as a random access point.
func (r *Ref) SetRAP(v bool) {
	setBool(r, "k.rap", v)
}

// SeqNum returns the monotonically increasing sequence number upipe's
// testable properties use to verify queue FIFO ordering end-to-end.
func (r *Ref) SeqNum() (uint64, error) {
	return getUint64(r, "k.seqnum")
}

// SetSeqNum sets the sequence number.
func (r *Ref) SetSeqNum(v uint64) {
	setUint64(r, "k.seqnum", v)
}

// CmpSeqNum compares two urefs' sequence numbers, for tests asserting
// FIFO order was preserved across a queue or probe chain.
func CmpSeqNum(a, b *Ref) (int, error) {
	return cmpUint64(a, b, "k.seqnum")
}
