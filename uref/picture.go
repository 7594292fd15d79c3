package uref

import "upipe.go.dev/upipe/udict"

// Picture flow attributes.

func (r *Ref) HSize() (uint64, error)        { return getUint64(r, "p.hsize") }
func (r *Ref) SetHSize(v uint64)             { setUint64(r, "p.hsize", v) }
func (r *Ref) VSize() (uint64, error)        { return getUint64(r, "p.vsize") }
func (r *Ref) SetVSize(v uint64)             { setUint64(r, "p.vsize", v) }
func (r *Ref) HSub() (uint64, error)         { return getUint64(r, "p.hsub") }
func (r *Ref) SetHSub(v uint64)              { setUint64(r, "p.hsub", v) }
func (r *Ref) VSub() (uint64, error)         { return getUint64(r, "p.vsub") }
func (r *Ref) SetVSub(v uint64)              { setUint64(r, "p.vsub", v) }
func (r *Ref) Macropixel() (uint64, error)   { return getUint64(r, "p.macropixel") }
func (r *Ref) SetMacropixel(v uint64)        { setUint64(r, "p.macropixel", v) }
func (r *Ref) Planes() (uint64, error)       { return getUint64(r, "p.planes") }
func (r *Ref) SetPlanes(v uint64)            { setUint64(r, "p.planes", v) }
func (r *Ref) SAR() (udict.Rational, error)  { return getRational(r, "p.sar") }
func (r *Ref) SetSAR(v udict.Rational)       { setRational(r, "p.sar", v) }
func (r *Ref) DAR() (udict.Rational, error)  { return getRational(r, "p.dar") }
func (r *Ref) SetDAR(v udict.Rational)       { setRational(r, "p.dar", v) }
func (r *Ref) FPS() (udict.Rational, error)  { return getRational(r, "p.fps") }
func (r *Ref) SetFPS(v udict.Rational)       { setRational(r, "p.fps", v) }
func (r *Ref) Overscan() (bool, error)       { return getBool(r, "p.overscan") }
func (r *Ref) SetOverscan(v bool)            { setBool(r, "p.overscan", v) }
func (r *Ref) FullRange() (bool, error)      { return getBool(r, "p.fullrange") }
func (r *Ref) SetFullRange(v bool)           { setBool(r, "p.fullrange", v) }
func (r *Ref) Colorimetry() (string, error)  { return getString(r, "p.colorimetry") }
func (r *Ref) SetColorimetry(v string)       { setString(r, "p.colorimetry", v) }

// PlaneAdd registers plane index i's chroma name/hsub/vsub/macropixel size
// as nested attributes, mirroring upipe's UREF_PIC_FLOW_ATTR_PLANE family.
func (r *Ref) PlaneAdd(i int, chroma string, hsub, vsub, mpixelSize uint8) {
	plane := udict.New()
	plane.Set("chroma", udict.KindString, chroma)
	plane.Set("hsub", udict.KindSmallInt, hsub)
	plane.Set("vsub", udict.KindSmallInt, vsub)
	plane.Set("mpixel_size", udict.KindSmallInt, mpixelSize)
	r.dict.Set(planeAttrName(i), udict.KindVoid, plane)
}

// Plane returns the chroma/hsub/vsub/macropixel descriptor previously
// stored with PlaneAdd.
func (r *Ref) Plane(i int) (chroma string, hsub, vsub, mpixelSize uint8, err error) {
	v, err := r.dict.Get(planeAttrName(i), udict.KindVoid)
	if err != nil {
		return "", 0, 0, 0, err
	}
	plane := v.(*udict.Dict)
	c, _ := plane.Get("chroma", udict.KindString)
	h, _ := plane.Get("hsub", udict.KindSmallInt)
	vs, _ := plane.Get("vsub", udict.KindSmallInt)
	m, _ := plane.Get("mpixel_size", udict.KindSmallInt)
	return c.(string), h.(uint8), vs.(uint8), m.(uint8), nil
}

func planeAttrName(i int) string {
	const letters = "0123456789abcdefghijklmnopqrstuvwxyz"
	if i < 0 {
		i = 0
	}
	return "p.plane." + string(letters[i%len(letters)])
}
