// SPDX-License-Identifier: MIT

package synth

import "math/rand"

// DefaultSeed is used when callers pass seed == 0.
const DefaultSeed int64 = 1

// NewRand returns a deterministic *rand.Rand.
// seed == 0 ⇒ DefaultSeed; otherwise the seed is used verbatim.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// golden is the SplitMix64 state increment, 2^64 / φ.
const golden = 0x9e3779b97f4a7c15

// DeriveSeed returns the seed of sub-stream stream under parent: the
// SplitMix64 output at step stream+1 of the sequence seeded with parent.
// Distinct streams give unrelated seeds.
func DeriveSeed(parent int64, stream uint64) int64 {
	return int64(mix64(uint64(parent) + (stream+1)*golden))
}

// mix64 is the SplitMix64 output function.
func mix64(z uint64) uint64 {
	z = (z ^ z>>30) * 0xbf58476d1ce4e5b9
	z = (z ^ z>>27) * 0x94d049bb133111eb

	return z ^ z>>31
}
