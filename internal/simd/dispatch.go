package simd

import "github.com/klauspost/cpuid/v2"

// Backends lists the acceleration backends this build ended up with,
// appending a name like "avx2" the same way after a successful CPUID
// probe.
var Backends []string

// Enabled reports whether the vectorized V210 pack/unpack path is
// active. It is computed once at init time from a klauspost/cpuid/v2
// feature probe rather than hand-written CPUID asm stubs, since cpuid
// already ships the same AVX2 detection as a portable Go call.
var Enabled bool

func init() {
	if cpuid.CPU.Supports(cpuid.AVX2) {
		Enabled = true
		Backends = append(Backends, "avx2")
	} else {
		Backends = append(Backends, "scalar")
	}
}
