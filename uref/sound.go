package uref

// Sound flow attributes.

func (r *Ref) Channels() (uint64, error)   { return getUint64(r, "s.channels") }
func (r *Ref) SetChannels(v uint64)        { setUint64(r, "s.channels", v) }
func (r *Ref) SampleRate() (uint64, error) { return getUint64(r, "s.rate") }
func (r *Ref) SetSampleRate(v uint64)      { setUint64(r, "s.rate", v) }
func (r *Ref) Samples() (uint64, error)    { return getUint64(r, "s.samples") }
func (r *Ref) SetSamples(v uint64)         { setUint64(r, "s.samples", v) }
func (r *Ref) SampleSize() (uint64, error) { return getUint64(r, "s.sample_size") }
func (r *Ref) SetSampleSize(v uint64)      { setUint64(r, "s.sample_size", v) }
func (r *Ref) SoundPlanes() (uint64, error) { return getUint64(r, "s.planes") }
func (r *Ref) SetSoundPlanes(v uint64)      { setUint64(r, "s.planes", v) }
func (r *Ref) Align() (uint64, error)      { return getUint64(r, "s.align") }
func (r *Ref) SetAlign(v uint64)           { setUint64(r, "s.align", v) }
