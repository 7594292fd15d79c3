package ubuf

import (
	"bytes"
	"fmt"
	"sync"

	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/umem"
)

// defaultHeadroom is reserved on both sides of a freshly-allocated Block
// backing so that a subsequent Resize that shifts/grows within this
// margin never has to relocate already-mapped data.
const defaultHeadroom = 256

// Block is a chain of byte segments exposed as one logically contiguous
// range. This implementation keeps the common
// case - a single backing with prepend/append headroom - rather than a
// true multi-segment chain; Append still runs in O(1) when the two blocks
// share a backing with contiguous ranges, and falls back to a copy
// otherwise, which satisfies the same observable contract.
type Block struct {
	shared *sharedMem
	off    int
	size   int
	mgr    *BlockManager
}

// Mapped is a bounds-checked view returned by Read/Write, which must be
// released via Unmap before the underlying Block may be freed (invariant
// B1).
type Mapped struct {
	bytes  []byte
	unmap  func()
	unmapped bool
}

// Bytes returns the mapped byte range.
func (m *Mapped) Bytes() []byte { return m.bytes }

// Unmap releases the mapping. Calling Unmap twice is a no-op.
func (m *Mapped) Unmap() {
	if m.unmapped {
		return
	}
	m.unmapped = true
	if m.unmap != nil {
		m.unmap()
	}
}

// Size returns the logical length of the block in bytes.
func (b *Block) Size() int {
	return b.size
}

func (b *Block) checkRange(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > b.size {
		return fmt.Errorf("ubuf: block range [%d:%d] out of bounds (size %d): %w",
			offset, offset+length, b.size, uerror.ErrInvalid)
	}
	return nil
}

// Read maps [offset, offset+length) for reading. The mapping must be
// released with Unmap.
func (b *Block) Read(offset, length int) (*Mapped, error) {
	if err := b.checkRange(offset, length); err != nil {
		return nil, err
	}
	base := b.off + offset
	return &Mapped{bytes: b.shared.bytes()[base : base+length]}, nil
}

// Write maps [offset, offset+length) for writing. This
// only succeeds if the backing is singly-owned; otherwise it returns
// ErrBusy and the caller must Dup-then-copy. The write claim is an
// atomic compare-and-swap, not just the single() refcount check, so two
// goroutines racing Write on the same backing can't both succeed.
func (b *Block) Write(offset, length int) (*Mapped, error) {
	if err := b.checkRange(offset, length); err != nil {
		return nil, err
	}
	if !b.shared.single() {
		return nil, fmt.Errorf("ubuf: block backing is shared: %w", uerror.ErrBusy)
	}
	if !b.shared.tryLockWrite() {
		return nil, fmt.Errorf("ubuf: block backing has a write mapping outstanding: %w", uerror.ErrBusy)
	}
	base := b.off + offset
	shared := b.shared
	return &Mapped{
		bytes: shared.bytes()[base : base+length],
		unmap: shared.unlockWrite,
	}, nil
}

// Peek maps a small bounded read into the caller-supplied fallback buffer
// when the requested range can't be returned as a direct slice (e.g. it
// straddles a segment boundary in a true chained implementation). With a
// nil fallback it returns a slice of the backing directly; with a
// non-nil fallback it copies the range into fallback, returning
// ErrShortBuffer if fallback is shorter than length.
func (b *Block) Peek(offset, length int, fallback []byte) ([]byte, error) {
	if err := b.checkRange(offset, length); err != nil {
		return nil, err
	}
	base := b.off + offset
	src := b.shared.bytes()[base : base+length]
	if fallback == nil {
		return src, nil
	}
	if len(fallback) < length {
		return nil, ErrShortBuffer
	}
	copy(fallback, src)
	return fallback[:length], nil
}

// Extract copies [offset, offset+length) into a freshly allocated slice.
func (b *Block) Extract(offset, length int) ([]byte, error) {
	if err := b.checkRange(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	base := b.off + offset
	copy(out, b.shared.bytes()[base:base+length])
	return out, nil
}

// Scan searches for needle starting at offset, returning the absolute
// offset of the first match, or -1 if not found.
func (b *Block) Scan(offset int, needle []byte) (int, error) {
	if offset < 0 || offset > b.size {
		return -1, fmt.Errorf("ubuf: scan offset %d out of bounds: %w", offset, uerror.ErrInvalid)
	}
	base := b.off + offset
	hay := b.shared.bytes()[base : b.off+b.size]
	i := bytes.Index(hay, needle)
	if i < 0 {
		return -1, nil
	}
	return offset + i, nil
}

// Resize changes the block's extent: shift moves the logical start (a
// negative shift prepends, a positive shift trims from the front),
// newSize sets the total length afterward. If the requested extent still
// fits within the backing's headroom, no data is relocated (invariant
// B3); otherwise a bigger backing is allocated and the live range is
// copied into it.
func (b *Block) Resize(shift, newSize int) error {
	if newSize < 0 {
		return fmt.Errorf("ubuf: negative resize %d: %w", newSize, uerror.ErrInvalid)
	}
	if !b.shared.single() {
		return fmt.Errorf("ubuf: cannot resize a shared block: %w", uerror.ErrBusy)
	}

	newOff := b.off + shift
	backing := b.shared.bytes()
	if newOff >= 0 && newOff+newSize <= cap(backing) {
		b.off = newOff
		b.size = newSize
		return nil
	}

	// Doesn't fit in existing headroom: reallocate with a fresh margin and
	// copy across the overlap between the old range [0, b.size) and the
	// new range [shift, shift+newSize), both expressed in the block's own
	// virtual (backing-independent) coordinates.
	headroom := defaultHeadroom
	newBacking, err := b.mgr.allocBacking(newSize + 2*headroom)
	if err != nil {
		return err
	}

	ov0 := max(0, shift)
	ov1 := min(b.size, shift+newSize)
	if ov1 > ov0 {
		length := ov1 - ov0
		srcOff := b.off + ov0
		dstOff := headroom + (ov0 - shift)
		copy(newBacking.bytes()[dstOff:dstOff+length], backing[srcOff:srcOff+length])
	}

	b.shared.release()
	b.shared = newBacking
	b.off = headroom
	b.size = newSize
	return nil
}

// Dup returns a new Block handle sharing the same backing.
func (b *Block) Dup() Ubuf {
	return &Block{
		shared: b.shared.retain(),
		off:    b.off,
		size:   b.size,
		mgr:    b.mgr,
	}
}

// Split returns two blocks covering [0, at) and [at, Size()), sharing the
// original backing (each Dup's the shared memory once).
func (b *Block) Split(at int) (*Block, *Block, error) {
	if at < 0 || at > b.size {
		return nil, nil, fmt.Errorf("ubuf: split offset %d out of bounds: %w", at, uerror.ErrInvalid)
	}
	left := &Block{shared: b.shared.retain(), off: b.off, size: at, mgr: b.mgr}
	right := &Block{shared: b.shared.retain(), off: b.off + at, size: b.size - at, mgr: b.mgr}
	return left, right, nil
}

// Append joins b and other into a single block. If both share a backing
// and other's range immediately follows b's, this runs in O(1); otherwise
// a new backing is allocated and both ranges are copied into it.
func (b *Block) Append(other *Block) (*Block, error) {
	if b.shared == other.shared && b.off+b.size == other.off {
		return &Block{shared: b.shared.retain(), off: b.off, size: b.size + other.size, mgr: b.mgr}, nil
	}
	total := b.size + other.size
	nb, err := b.mgr.Alloc(total)
	if err != nil {
		return nil, err
	}
	w, err := nb.Write(0, total)
	if err != nil {
		return nil, err
	}
	defer w.Unmap()
	r1, err := b.Read(0, b.size)
	if err != nil {
		return nil, err
	}
	defer r1.Unmap()
	r2, err := other.Read(0, other.size)
	if err != nil {
		return nil, err
	}
	defer r2.Unmap()
	copy(w.Bytes()[:b.size], r1.Bytes())
	copy(w.Bytes()[b.size:], r2.Bytes())
	return nb, nil
}

// Insert splices other into b at offset, returning a new block. It is
// implemented as Split(offset) followed by two Appends; the intermediate
// handles are released before returning.
func (b *Block) Insert(offset int, other *Block) (*Block, error) {
	left, right, err := b.Split(offset)
	if err != nil {
		return nil, err
	}
	defer left.Release()
	defer right.Release()
	mid, err := left.Append(other)
	if err != nil {
		return nil, err
	}
	defer mid.Release()
	return mid.Append(right)
}

// Release drops this handle's reference to the backing memory, then
// returns the now-unused *Block struct to its manager's free-handle
// pool so a later Alloc can reuse it instead of allocating a new one.
func (b *Block) Release() {
	b.shared.release()
	if b.mgr != nil {
		b.mgr.Recycle(b)
	}
}

// BlockManager allocates and pools Block handles and their backings.
type BlockManager struct {
	alloc   umem.Allocator
	headroom int

	mu         sync.Mutex
	freeBlocks []*Block
}

// NewBlockManager creates a BlockManager using the given umem.Allocator
// for backing storage. A nil allocator defaults to umem.System{}.
func NewBlockManager(alloc umem.Allocator) *BlockManager {
	if alloc == nil {
		alloc = umem.System{}
	}
	return &BlockManager{alloc: alloc, headroom: defaultHeadroom}
}

func (m *BlockManager) allocBacking(size int) (*sharedMem, error) {
	mem, err := m.alloc.Alloc(size)
	if err != nil {
		return nil, fmt.Errorf("ubuf: block backing alloc: %w", uerror.ErrAlloc)
	}
	return newSharedMem(mem), nil
}

// Alloc returns a new Block of the given logical size, with headroom
// reserved on both sides so a subsequent Resize is cheap.
func (m *BlockManager) Alloc(size int) (*Block, error) {
	if size < 0 {
		return nil, fmt.Errorf("ubuf: negative block size %d: %w", size, uerror.ErrInvalid)
	}

	m.mu.Lock()
	var b *Block
	if n := len(m.freeBlocks); n > 0 {
		b = m.freeBlocks[n-1]
		m.freeBlocks = m.freeBlocks[:n-1]
	}
	m.mu.Unlock()

	shared, err := m.allocBacking(size + 2*m.headroom)
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = &Block{mgr: m}
	}
	b.shared = shared
	b.off = m.headroom
	b.size = size
	return b, nil
}

// Copy performs a deep copy of [offset, offset+length) of src into a fresh
// Block.
func (m *BlockManager) Copy(src *Block, offset, length int) (*Block, error) {
	data, err := src.Extract(offset, length)
	if err != nil {
		return nil, err
	}
	nb, err := m.Alloc(length)
	if err != nil {
		return nil, err
	}
	w, err := nb.Write(0, length)
	if err != nil {
		return nil, err
	}
	defer w.Unmap()
	copy(w.Bytes(), data)
	return nb, nil
}

// Recycle returns a Block handle to the free-handle pool; Release calls
// this automatically once a handle's backing reference has been
// dropped, so a subsequent Alloc can reuse the struct instead of
// allocating a new one. b's fields are overwritten by the next Alloc
// that pops it, so no reset is needed here.
func (m *BlockManager) Recycle(b *Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.freeBlocks = append(m.freeBlocks, b)
}

// Vacuum empties the free-handle pool.
func (m *BlockManager) Vacuum() {
	m.mu.Lock()
	m.freeBlocks = nil
	m.mu.Unlock()
	m.alloc.Vacuum()
}
