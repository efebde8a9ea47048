// Package randutil constructs the seeded random sources used for shuffling.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New builds a *rand.Rand from a single int64 seed. rand/v2's PCG wants two
// 64-bit seeds, so both are mixed from the one input; equal seeds always
// produce equal shuffle orders, which is what deterministic deck tests rely
// on.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
