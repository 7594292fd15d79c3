package uref

// Block flow attributes.

func (r *Ref) BlockSize() (uint64, error)      { return getUint64(r, "b.size") }
func (r *Ref) SetBlockSize(v uint64)           { setUint64(r, "b.size", v) }
func (r *Ref) OctetRate() (uint64, error)      { return getUint64(r, "b.octetrate") }
func (r *Ref) SetOctetRate(v uint64)           { setUint64(r, "b.octetrate", v) }
func (r *Ref) MaxOctetRate() (uint64, error)   { return getUint64(r, "b.max_octetrate") }
func (r *Ref) SetMaxOctetRate(v uint64)        { setUint64(r, "b.max_octetrate", v) }
func (r *Ref) BlockAlign() (uint64, error)     { return getUint64(r, "b.align") }
func (r *Ref) SetBlockAlign(v uint64)          { setUint64(r, "b.align", v) }
