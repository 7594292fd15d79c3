package ubuf

import (
	"fmt"
	"sync"

	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/umem"
)

// PlaneDesc describes one plane of a picture format: its chroma name (e.g.
// "y8", "u8", "v8", "rgba32"), its subsampling relative to the picture's
// luma/full-resolution plane, and how many bytes one macropixel occupies.
type PlaneDesc struct {
	Chroma      string
	HSub, VSub  uint8
	MacroPixel  uint8 // bytes per macropixel
}

// PictureFormat describes a picture's dimensions and plane layout. HSize/
// VSize are in full-resolution pixels; Macropixel groups horizontally
// adjacent pixels sharing one encoded unit (1 for planar formats, >1 for
// packed formats like V210).
type PictureFormat struct {
	HSize, VSize int
	Macropixel   int
	Planes       []PlaneDesc
}

type planeLayout struct {
	desc   PlaneDesc
	offset int // byte offset into the backing
	stride int // bytes per row
	rows   int
}

// Picture is a multi-plane 2-D buffer.
type Picture struct {
	shared *sharedMem
	format PictureFormat
	layout []planeLayout
	hOff, vOff int // pixel offset of the visible rectangle, for crop/pad resize
	hSize, vSize int
	mgr    *PictureManager
}

// Format returns the picture's format descriptor.
func (p *Picture) Format() PictureFormat {
	f := p.format
	f.HSize = p.hSize
	f.VSize = p.vSize
	return f
}

// PlaneCount returns the number of planes.
func (p *Picture) PlaneCount() int {
	return len(p.layout)
}

// PlaneSize returns the stride (bytes/row), hsub, vsub, and macropixel size
// for plane i.
func (p *Picture) PlaneSize(i int) (stride int, hsub, vsub, mpixel uint8, err error) {
	if i < 0 || i >= len(p.layout) {
		return 0, 0, 0, 0, fmt.Errorf("ubuf: plane %d out of range: %w", i, uerror.ErrInvalid)
	}
	l := p.layout[i]
	return l.stride, l.desc.HSub, l.desc.VSub, l.desc.MacroPixel, nil
}

func (p *Picture) planeRect(i int) (off, stride, rows, rowBytes int, err error) {
	if i < 0 || i >= len(p.layout) {
		return 0, 0, 0, 0, fmt.Errorf("ubuf: plane %d out of range: %w", i, uerror.ErrInvalid)
	}
	l := p.layout[i]
	hsub, vsub := int(l.desc.HSub), int(l.desc.VSub)
	if hsub == 0 {
		hsub = 1
	}
	if vsub == 0 {
		vsub = 1
	}
	planeHOff := p.hOff / hsub
	planeVOff := p.vOff / vsub
	planeRows := p.vSize / vsub
	planeRowBytes := (p.hSize / hsub) * int(l.desc.MacroPixel) / max(1, p.format.Macropixel)
	off = l.offset + planeVOff*l.stride + planeHOff*int(l.desc.MacroPixel)
	return off, l.stride, planeRows, planeRowBytes, nil
}

// ReadPlane maps plane i's visible rectangle for reading.
func (p *Picture) ReadPlane(i int) (*Mapped, error) {
	off, stride, rows, rowBytes, err := p.planeRect(i)
	if err != nil {
		return nil, err
	}
	return mapPlane(p.shared.bytes(), off, stride, rows, rowBytes), nil
}

// WritePlane maps plane i's visible rectangle for writing; fails with
// ErrBusy if the backing is shared or another write mapping is already
// outstanding (the tryLockWrite compare-and-swap closes the same race
// Block.Write guards against).
func (p *Picture) WritePlane(i int) (*Mapped, error) {
	if !p.shared.single() {
		return nil, fmt.Errorf("ubuf: picture backing is shared: %w", uerror.ErrBusy)
	}
	if !p.shared.tryLockWrite() {
		return nil, fmt.Errorf("ubuf: picture backing has a write mapping outstanding: %w", uerror.ErrBusy)
	}
	off, stride, rows, rowBytes, err := p.planeRect(i)
	if err != nil {
		p.shared.unlockWrite()
		return nil, err
	}
	m := mapPlane(p.shared.bytes(), off, stride, rows, rowBytes)
	shared := p.shared
	m.unmap = shared.unlockWrite
	return m, nil
}

// mapPlane returns a Mapped view over one contiguous slice of the
// backing; for the common case where rowBytes == stride (no horizontal
// crop) this is exactly rows*stride bytes.
func mapPlane(backing []byte, off, stride, rows, rowBytes int) *Mapped {
	if rowBytes == stride {
		return &Mapped{bytes: backing[off : off+stride*rows]}
	}
	// Cropped: Mapped exposes a single []byte, so the view runs from the
	// first visible byte to the last one and still contains the
	// stride-rowBytes bytes between rows; callers index rows by stride.
	return &Mapped{bytes: backing[off : off+stride*(rows-1)+rowBytes]}
}

// Resize moves the visible rectangle's origin by hShift/vShift pixels and
// sets its size to newHSize x newVSize. The new rectangle must lie inside
// the allocated picture (the manager allocates no padding beyond the
// format's dimensions); anything outside it returns ErrInvalid rather
// than reallocating.
func (p *Picture) Resize(hShift, vShift, newHSize, newVSize int) error {
	if newHSize < 0 || newVSize < 0 {
		return fmt.Errorf("ubuf: negative picture resize: %w", uerror.ErrInvalid)
	}
	if !p.shared.single() {
		return fmt.Errorf("ubuf: cannot resize a shared picture: %w", uerror.ErrBusy)
	}
	newHOff := p.hOff + hShift
	newVOff := p.vOff + vShift
	if newHOff < 0 || newVOff < 0 || newHOff+newHSize > p.format.HSize || newVOff+newVSize > p.format.VSize {
		return fmt.Errorf("ubuf: picture resize exceeds backing extent: %w", uerror.ErrInvalid)
	}
	p.hOff, p.vOff = newHOff, newVOff
	p.hSize, p.vSize = newHSize, newVSize
	return nil
}

// BlitAlpha controls how Blit treats the alpha channel.
type BlitAlpha struct {
	// Multiplier is applied to the source alpha before compositing
	// (0x00-0xff, with 0xff meaning "use the source alpha unchanged").
	Multiplier uint8
	// Threshold, if non-zero, makes alpha a hard cut: source pixels with
	// alpha below Threshold are skipped entirely instead of blended.
	Threshold uint8
}

// Blit composes src into dst at (h, v), assuming both are 3-plane or
// 1-plane 8-bit-per-component formats with an implicit full alpha (no
// separate alpha plane) unless alpha.Multiplier < 0xff. This implements
// the single-plane / packed-RGBA fast path; planar YUV blends plane by
// plane at matching subsampling.
func Blit(dst, src *Picture, h, v int, alpha BlitAlpha) error {
	if !dst.shared.single() {
		return fmt.Errorf("ubuf: blit destination is shared: %w", uerror.ErrBusy)
	}
	if len(dst.layout) != len(src.layout) {
		return fmt.Errorf("ubuf: blit plane count mismatch: %w", uerror.ErrInvalid)
	}
	for i := range dst.layout {
		if err := blitPlane(dst, src, i, h, v, alpha); err != nil {
			return err
		}
	}
	return nil
}

func blitPlane(dst, src *Picture, i, h, v int, alpha BlitAlpha) error {
	dOff, dStride, _, _, err := dst.planeRect(i)
	if err != nil {
		return err
	}
	sOff, sStride, sRows, sRowBytes, err := src.planeRect(i)
	if err != nil {
		return err
	}
	hsub, vsub := int(dst.layout[i].desc.HSub), int(dst.layout[i].desc.VSub)
	if hsub == 0 {
		hsub = 1
	}
	if vsub == 0 {
		vsub = 1
	}
	mpixel := int(dst.layout[i].desc.MacroPixel)
	dstBacking := dst.shared.bytes()
	srcBacking := src.shared.bytes()

	for row := 0; row < sRows; row++ {
		dstRowOff := dOff + (row+v/vsub)*dStride + (h/hsub)*mpixel
		srcRowOff := sOff + row*sStride
		blendRow(dstBacking[dstRowOff:dstRowOff+sRowBytes], srcBacking[srcRowOff:srcRowOff+sRowBytes], alpha)
	}
	return nil
}

func blendRow(dst, src []byte, alpha BlitAlpha) {
	if alpha.Multiplier == 0xff {
		copy(dst, src)
		return
	}
	a := uint16(alpha.Multiplier)
	for i := range src {
		if alpha.Threshold != 0 && alpha.Multiplier < alpha.Threshold {
			continue
		}
		blended := (uint16(src[i])*a + uint16(dst[i])*(0xff-a)) / 0xff
		dst[i] = byte(blended)
	}
}

// RGBAToYUVA converts a packed 8-bit RGBA picture into a freshly allocated
// packed 8-bit YUVA picture, using BT.601 coefficients. fullrange
// selects between [0,255] (true) and studio-swing [16,235]/[16,240]
// (false) luma/chroma ranges.
func RGBAToYUVA(mgr *PictureManager, src *Picture, fullrange bool) (*Picture, error) {
	r, err := src.ReadPlane(0)
	if err != nil {
		return nil, err
	}
	defer r.Unmap()

	dst, err := mgr.Alloc(PictureFormat{
		HSize: src.hSize, VSize: src.vSize, Macropixel: 1,
		Planes: []PlaneDesc{{Chroma: "yuva32", MacroPixel: 4}},
	})
	if err != nil {
		return nil, err
	}
	w, err := dst.WritePlane(0)
	if err != nil {
		return nil, err
	}
	defer w.Unmap()

	rgba := r.Bytes()
	yuva := w.Bytes()
	for i := 0; i+3 < len(rgba); i += 4 {
		rr, gg, bb, aa := float64(rgba[i]), float64(rgba[i+1]), float64(rgba[i+2]), rgba[i+3]
		y := 0.299*rr + 0.587*gg + 0.114*bb
		u := -0.168736*rr - 0.331264*gg + 0.5*bb + 128
		v := 0.5*rr - 0.418688*gg - 0.081312*bb + 128
		if !fullrange {
			y = y*(235-16)/255 + 16
			u = u*(240-16)/255 + 16
			v = v*(240-16)/255 + 16
		}
		yuva[i] = clamp8(y)
		yuva[i+1] = clamp8(u)
		yuva[i+2] = clamp8(v)
		yuva[i+3] = aa
	}
	return dst, nil
}

func clamp8(f float64) byte {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return byte(f)
}

// PictureManager allocates and pools Picture handles and backings.
type PictureManager struct {
	alloc umem.Allocator

	mu   sync.Mutex
	free []*Picture
}

// NewPictureManager creates a PictureManager backed by alloc (umem.System
// if nil).
func NewPictureManager(alloc umem.Allocator) *PictureManager {
	if alloc == nil {
		alloc = umem.System{}
	}
	return &PictureManager{alloc: alloc}
}

func layoutPlanes(format PictureFormat) ([]planeLayout, int) {
	layout := make([]planeLayout, len(format.Planes))
	offset := 0
	for i, pd := range format.Planes {
		hsub, vsub := int(pd.HSub), int(pd.VSub)
		if hsub == 0 {
			hsub = 1
		}
		if vsub == 0 {
			vsub = 1
		}
		stride := (format.HSize / hsub) * int(pd.MacroPixel) / max(1, format.Macropixel)
		rows := format.VSize / vsub
		layout[i] = planeLayout{desc: pd, offset: offset, stride: stride, rows: rows}
		offset += stride * rows
	}
	return layout, offset
}

// Alloc allocates a Picture of the given format.
func (m *PictureManager) Alloc(format PictureFormat) (*Picture, error) {
	if format.HSize < 0 || format.VSize < 0 {
		return nil, fmt.Errorf("ubuf: negative picture dimensions: %w", uerror.ErrInvalid)
	}
	if format.Macropixel == 0 {
		format.Macropixel = 1
	}
	layout, total := layoutPlanes(format)

	m.mu.Lock()
	var p *Picture
	if n := len(m.free); n > 0 {
		p = m.free[n-1]
		m.free = m.free[:n-1]
	}
	m.mu.Unlock()

	mem, err := m.alloc.Alloc(total)
	if err != nil {
		return nil, fmt.Errorf("ubuf: picture backing alloc: %w", uerror.ErrAlloc)
	}
	if p == nil {
		p = &Picture{mgr: m}
	}
	p.shared = newSharedMem(mem)
	p.format = format
	p.layout = layout
	p.hOff, p.vOff = 0, 0
	p.hSize, p.vSize = format.HSize, format.VSize
	return p, nil
}

// Dup returns a new Picture handle sharing the same backing.
func (p *Picture) Dup() Ubuf {
	cp := *p
	cp.shared = p.shared.retain()
	return &cp
}

// Release drops this handle's reference to the backing memory, then
// returns the *Picture struct to its manager's free-handle pool.
func (p *Picture) Release() {
	p.shared.release()
	if p.mgr != nil {
		p.mgr.mu.Lock()
		p.mgr.free = append(p.mgr.free, p)
		p.mgr.mu.Unlock()
	}
}

// Vacuum empties the free-handle pool and the underlying allocator's pool.
func (m *PictureManager) Vacuum() {
	m.mu.Lock()
	m.free = nil
	m.mu.Unlock()
	m.alloc.Vacuum()
}
