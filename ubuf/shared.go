package ubuf

import (
	"sync/atomic"

	"upipe.go.dev/upipe/internal/refcount"
	"upipe.go.dev/upipe/umem"
)

// sharedMem is the backing store every ubuf variant's handle points at
// (upipe's ubuf_mem_shared): an umem.Mem plus its own atomic refcount.
// Multiple ubuf handles (created via Dup) may point at the same sharedMem;
// a write mapping is only granted to the sole owner, so a
// writer that finds Count() > 1 must duplicate the backing before writing.
//
// single() alone is advisory: two goroutines can both observe Count()==1
// and race into Write. writeLocked closes that window with a real
// compare-and-swap claim, checked in addition to single() by every
// Write/WritePlane path.
type sharedMem struct {
	mem         umem.Mem
	rc          *refcount.Counter
	writeLocked atomic.Bool
}

func newSharedMem(mem umem.Mem) *sharedMem {
	s := &sharedMem{mem: mem}
	s.rc = refcount.New(func() {
		mem.Release()
	})
	return s
}

// tryLockWrite atomically claims exclusive write access, failing if
// another writer already holds the claim.
func (s *sharedMem) tryLockWrite() bool {
	return s.writeLocked.CompareAndSwap(false, true)
}

// unlockWrite releases a claim taken by tryLockWrite.
func (s *sharedMem) unlockWrite() {
	s.writeLocked.Store(false)
}

// retain increments the shared refcount and returns the same backing,
// used by Dup.
func (s *sharedMem) retain() *sharedMem {
	s.rc.Retain()
	return s
}

// release drops a reference; once the count hits zero the backing umem.Mem
// is released back to its allocator.
func (s *sharedMem) release() {
	s.rc.Release()
}

// single reports whether this handle is the only owner of the backing,
// i.e. whether a write mapping may be granted without copy-on-write.
func (s *sharedMem) single() bool {
	return s.rc.Single()
}

// bytes returns the full backing array, including any prepend/append
// headroom outside the logical view any one handle currently exposes.
func (s *sharedMem) bytes() []byte {
	return s.mem.Bytes()
}
