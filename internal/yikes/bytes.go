// Package yikes holds the unsafe pointer/slice conversions the rest of the
// runtime needs at its FFI boundary: libav-style external frame buffers
// arrive as a bare pointer and length, and the block/picture/sound ubuf
// variants need a []byte view over that memory without a copy.
//
// As the name suggests, everything in this package is wildly unsafe and
// must be used only at well-understood buffer-ownership boundaries.
package yikes

import "unsafe"

// GoBytes returns a []byte view over size bytes starting at base, without
// copying. The caller is responsible for ensuring the underlying memory
// outlives the returned slice and isn't freed out from under it - this is
// normally paired with a umem.Mem whose Release() is only called once every
// ubuf referencing the slice has been released.
func GoBytes(base uintptr, size int) []byte {
	var b = struct {
		base uintptr
		len  int
		cap  int
	}{base, size, size}
	return *(*[]byte)(unsafe.Pointer(&b))
}

// BytesBase returns the address of the first byte of a non-empty slice, for
// code that needs to hand a raw pointer back across an FFI boundary (e.g.
// an AVBufferRef-backed ubuf).
func BytesBase(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
