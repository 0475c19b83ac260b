package engine

import (
	"hash/fnv"
	"math/rand"
)

// countingSource counts draws from the underlying source so a stream can be
// replayed to an exact position regardless of how many draws a call used.
type countingSource struct {
	src rand.Source
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.n = 0
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts raw draws, enabling save/restore.
type RNG struct {
	seed int64
	src  *countingSource
	rnd  *rand.Rand
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	src := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		src:  src,
		rnd:  rand.New(src),
	}
}

// NextInt returns a uniform integer in [0, bound). Bounds below one yield 0.
func (r *RNG) NextInt(bound int) int {
	if bound <= 1 {
		return 0
	}
	return r.rnd.Intn(bound)
}

// Seed returns the seed the stream started from.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of raw draws made since creation.
func (r *RNG) Position() int64 {
	return r.src.n
}

// Split derives an independent stream for id. The same seed and id always
// give the same stream, whatever the parent's position.
func (r *RNG) Split(id string) *RNG {
	h := fnv.New64a()
	h.Write([]byte(id))
	return NewRNG(r.seed ^ int64(h.Sum64()))
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	return rng
}
