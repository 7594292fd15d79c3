package uref

// RTP attributes.

func (r *Ref) RTPSeqNum() (uint64, error)    { return getUint64(r, "rtp.seqnum") }
func (r *Ref) SetRTPSeqNum(v uint64)         { setUint64(r, "rtp.seqnum", v) }
func (r *Ref) RTPTimestamp() (uint64, error) { return getUint64(r, "rtp.timestamp") }
func (r *Ref) SetRTPTimestamp(v uint64)      { setUint64(r, "rtp.timestamp", v) }
func (r *Ref) RTPType() (uint64, error)      { return getUint64(r, "rtp.type") }
func (r *Ref) SetRTPType(v uint64)           { setUint64(r, "rtp.type", v) }
