// Package ubuf implements the three shared-buffer variants described in
// block (a contiguous byte range), picture (multi-plane
// 2-D), and sound (planar or interleaved PCM). All three share the copy-on-
// write, pool-recycled backing model in shared.go.
package ubuf

import "fmt"

// Ubuf is the common capability every variant exposes: a handle that can
// be duplicated (sharing the backing, bumping its refcount) and released.
type Ubuf interface {
	// Dup returns a new handle sharing the same backing memory. Invariant
	// B2: after Dup, a Write on either handle fails with ErrBusy until the
	// other handle is Released.
	Dup() Ubuf

	// Release drops this handle's reference to the backing memory.
	Release()
}

// Manager is the common factory/pool-owner interface for a family of ubuf
// variants. Concrete managers (BlockManager, PictureManager, SoundManager)
// add variant-specific Alloc signatures; Manager only captures the part
// that is generic across all three.
type Manager interface {
	// Vacuum empties every pool the manager owns (free handles and free
	// backings). Safe to call from any goroutine at any time.
	Vacuum()
}

// ErrShortBuffer is returned by Block.Peek when the supplied fallback
// buffer is smaller than the requested range.
var ErrShortBuffer = fmt.Errorf("ubuf: short buffer")
