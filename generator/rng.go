package generator

import "math/rand"

// rngFor derives a per-worker RNG stream from one logical seed (spec §5,
// option (a)): deterministic for a given (seed, workerIdx) pair, and
// decorrelated across workers via a splitmix64-style mix rather than a
// plain offset.
func rngFor(seed int64, workerIdx int) *rand.Rand {
	z := uint64(seed) + uint64(workerIdx)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return rand.New(rand.NewSource(int64(z)))
}
