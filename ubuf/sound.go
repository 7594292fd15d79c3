package ubuf

import (
	"fmt"
	"sync"

	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/umem"
)

// SoundFormat describes a PCM buffer: Channels names each plane (for
// planar layouts) or each interleaved slot (for interleaved layouts),
// Samples is the per-channel sample count, and SampleSize is bytes per
// sample (e.g. 2 for s16, 4 for f32).
type SoundFormat struct {
	Channels    []string
	Samples     int
	SampleSize  int
	Interleaved bool
}

// Sound is a planar or interleaved PCM buffer.
type Sound struct {
	shared *sharedMem
	format SoundFormat
	// offset/planeStride apply uniformly whether interleaved or planar;
	// for interleaved audio there is conceptually one "plane" whose
	// stride covers all channels per sample.
	planeStride []int // bytes per plane: one channel's full buffer (planar) or the whole interleaved buffer
	off, length int    // sample offset/length of the current view
	mgr         *SoundManager
}

// Format returns the sound format, with Samples reflecting the current
// view's length (post-Resize).
func (s *Sound) Format() SoundFormat {
	f := s.format
	f.Samples = s.length
	return f
}

// PlaneCount returns 1 for interleaved audio, or len(Channels) for planar.
func (s *Sound) PlaneCount() int {
	if s.format.Interleaved {
		return 1
	}
	return len(s.format.Channels)
}

// planeByteRange returns the byte range for plane i's current view. For
// planar audio each channel owns its own perPlane-sized segment of the
// backing; for interleaved audio there is one logical plane whose stride
// covers every channel's sample per frame.
func (s *Sound) planeByteRange(i int) (off, length int, err error) {
	if i < 0 || i >= len(s.planeStride) {
		return 0, 0, fmt.Errorf("ubuf: sound plane %d out of range: %w", i, uerror.ErrInvalid)
	}
	if s.format.Interleaved {
		frameBytes := s.format.SampleSize * len(s.format.Channels)
		return s.off * frameBytes, s.length * frameBytes, nil
	}
	perPlane := s.format.Samples * s.format.SampleSize
	return i*perPlane + s.off*s.format.SampleSize, s.length * s.format.SampleSize, nil
}

// ReadPlane maps channel plane i (or the single interleaved plane) for
// reading.
func (s *Sound) ReadPlane(i int) (*Mapped, error) {
	off, length, err := s.planeByteRange(i)
	if err != nil {
		return nil, err
	}
	return &Mapped{bytes: s.shared.bytes()[off : off+length]}, nil
}

// WritePlane maps channel plane i for writing; ErrBusy if shared or if
// another write mapping is already outstanding.
func (s *Sound) WritePlane(i int) (*Mapped, error) {
	if !s.shared.single() {
		return nil, fmt.Errorf("ubuf: sound backing is shared: %w", uerror.ErrBusy)
	}
	if !s.shared.tryLockWrite() {
		return nil, fmt.Errorf("ubuf: sound backing has a write mapping outstanding: %w", uerror.ErrBusy)
	}
	off, length, err := s.planeByteRange(i)
	if err != nil {
		s.shared.unlockWrite()
		return nil, err
	}
	shared := s.shared
	return &Mapped{bytes: shared.bytes()[off : off+length], unmap: shared.unlockWrite}, nil
}

// Resize changes the sample-offset/length view. shiftSamples may be
// negative only if headroom allows it (mirrors Block's semantics); since
// PCM buffers are rarely prepended in practice, a shift that would move
// the view outside [0, format.Samples] returns ErrInvalid rather than
// reallocating.
func (s *Sound) Resize(shiftSamples, newLength int) error {
	if newLength < 0 {
		return fmt.Errorf("ubuf: negative sound resize: %w", uerror.ErrInvalid)
	}
	if !s.shared.single() {
		return fmt.Errorf("ubuf: cannot resize a shared sound buffer: %w", uerror.ErrBusy)
	}
	newOff := s.off + shiftSamples
	if newOff < 0 || newOff+newLength > s.format.Samples {
		return fmt.Errorf("ubuf: sound resize exceeds backing extent: %w", uerror.ErrInvalid)
	}
	s.off = newOff
	s.length = newLength
	return nil
}

// Dup returns a new Sound handle sharing the same backing.
func (s *Sound) Dup() Ubuf {
	cp := *s
	cp.shared = s.shared.retain()
	return &cp
}

// Release drops this handle's reference to the backing memory, then
// returns the *Sound struct to its manager's free-handle pool.
func (s *Sound) Release() {
	s.shared.release()
	if s.mgr != nil {
		s.mgr.mu.Lock()
		s.mgr.free = append(s.mgr.free, s)
		s.mgr.mu.Unlock()
	}
}

// SoundManager allocates and pools Sound handles and backings.
type SoundManager struct {
	alloc umem.Allocator

	mu   sync.Mutex
	free []*Sound
}

// NewSoundManager creates a SoundManager backed by alloc (umem.System if
// nil).
func NewSoundManager(alloc umem.Allocator) *SoundManager {
	if alloc == nil {
		alloc = umem.System{}
	}
	return &SoundManager{alloc: alloc}
}

// Alloc allocates a Sound buffer of the given format; Samples in the
// format is the total per-channel sample capacity.
func (m *SoundManager) Alloc(format SoundFormat) (*Sound, error) {
	if format.Samples < 0 || format.SampleSize <= 0 {
		return nil, fmt.Errorf("ubuf: invalid sound format: %w", uerror.ErrInvalid)
	}
	planes := 1
	if !format.Interleaved {
		planes = len(format.Channels)
	}
	perPlane := format.Samples * format.SampleSize
	if format.Interleaved {
		perPlane *= len(format.Channels)
	}
	total := perPlane * planes
	if format.Interleaved {
		total = perPlane
		planes = 1
	}

	m.mu.Lock()
	var s *Sound
	if n := len(m.free); n > 0 {
		s = m.free[n-1]
		m.free = m.free[:n-1]
	}
	m.mu.Unlock()

	mem, err := m.alloc.Alloc(total)
	if err != nil {
		return nil, fmt.Errorf("ubuf: sound backing alloc: %w", uerror.ErrAlloc)
	}
	if s == nil {
		s = &Sound{mgr: m}
	}
	s.shared = newSharedMem(mem)
	s.format = format
	s.planeStride = make([]int, planes)
	for i := range s.planeStride {
		s.planeStride[i] = perPlane
	}
	s.off, s.length = 0, format.Samples
	return s, nil
}

// Vacuum empties the free-handle pool and the underlying allocator's
// pool.
func (m *SoundManager) Vacuum() {
	m.mu.Lock()
	m.free = nil
	m.mu.Unlock()
	m.alloc.Vacuum()
}
