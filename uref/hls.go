package uref

// HLS/M3U playlist attributes.

func (r *Ref) URI() (string, error)             { return getString(r, "m3u.uri") }
func (r *Ref) SetURI(v string)                  { setString(r, "m3u.uri", v) }
func (r *Ref) ByteRangeOffset() (uint64, error) { return getUint64(r, "m3u.byte_range_off") }
func (r *Ref) SetByteRangeOffset(v uint64)      { setUint64(r, "m3u.byte_range_off", v) }
func (r *Ref) ByteRangeLen() (uint64, error)    { return getUint64(r, "m3u.byte_range_len") }
func (r *Ref) SetByteRangeLen(v uint64)         { setUint64(r, "m3u.byte_range_len", v) }
func (r *Ref) SeqDuration() (float64, error)    { return getFloat(r, "m3u.seq_duration") }
func (r *Ref) SetSeqDuration(v float64)         { setFloat(r, "m3u.seq_duration", v) }
func (r *Ref) MediaSequence() (uint64, error)   { return getUint64(r, "m3u.media_sequence") }
func (r *Ref) SetMediaSequence(v uint64)        { setUint64(r, "m3u.media_sequence", v) }
func (r *Ref) KeyMethod() (string, error)       { return getString(r, "m3u.key_method") }
func (r *Ref) SetKeyMethod(v string)            { setString(r, "m3u.key_method", v) }
func (r *Ref) KeyURI() (string, error)          { return getString(r, "m3u.key_uri") }
func (r *Ref) SetKeyURI(v string)               { setString(r, "m3u.key_uri", v) }
func (r *Ref) KeyIV() (string, error)           { return getString(r, "m3u.key_iv") }
func (r *Ref) SetKeyIV(v string)                { setString(r, "m3u.key_iv", v) }
func (r *Ref) Bandwidth() (uint64, error)       { return getUint64(r, "m3u.bandwidth") }
func (r *Ref) SetBandwidth(v uint64)            { setUint64(r, "m3u.bandwidth", v) }
func (r *Ref) Codecs() (string, error)          { return getString(r, "m3u.codecs") }
func (r *Ref) SetCodecs(v string)               { setString(r, "m3u.codecs", v) }
