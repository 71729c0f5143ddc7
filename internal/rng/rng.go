// Package rng provides deterministic, per-entity RNG substreams so that a
// reimplementation of these engines can reproduce the original's random draw
// order (and, eventually, parallelize per-particle/per-walker work) without
// disturbing reproducibility. One Stream is drawn per particle (packing) or
// per walker (diffusion) per Design Notes' "RNG and reproducibility" section.
package rng

import (
	"hash/fnv"
	"math/rand"
)

// SeedKey identifies a reproducible engine run. Two runs with the same
// SeedKey and identical configuration must draw identical random sequences.
type SeedKey int64

// NewSeedKey builds a SeedKey from a master seed.
func NewSeedKey(seed int64) SeedKey { return SeedKey(seed) }

// Partitioned hands out one *rand.Rand per named subsystem, each derived
// deterministically from the master seed so that a given subsystem name
// always reproduces the same sequence regardless of call order elsewhere.
//
// Thread-safety: NOT thread-safe; each subsystem's *rand.Rand must be used
// from a single goroutine.
type Partitioned struct {
	key        SeedKey
	subsystems map[string]*rand.Rand
}

// NewPartitioned creates a Partitioned RNG set from a SeedKey.
func NewPartitioned(key SeedKey) *Partitioned {
	return &Partitioned{key: key, subsystems: make(map[string]*rand.Rand)}
}

// Stream returns the deterministically-seeded *rand.Rand for name, creating
// and caching it on first use. Never returns nil.
func (p *Partitioned) Stream(name string) *rand.Rand {
	if r, ok := p.subsystems[name]; ok {
		return r
	}
	seed := int64(p.key) ^ fnv1a64(name)
	r := rand.New(rand.NewSource(seed))
	p.subsystems[name] = r
	return r
}

// ForParticle returns the substream for packing particle id.
func (p *Partitioned) ForParticle(id int) *rand.Rand {
	return p.Stream(particleSubsystem(id))
}

// ForWalker returns the substream for diffusion walker id.
func (p *Partitioned) ForWalker(id int) *rand.Rand {
	return p.Stream(walkerSubsystem(id))
}

func particleSubsystem(id int) string { return subsystemName("particle", id) }
func walkerSubsystem(id int) string   { return subsystemName("walker", id) }

func subsystemName(kind string, id int) string {
	b := make([]byte, 0, len(kind)+12)
	b = append(b, kind...)
	b = append(b, '_')
	b = appendInt(b, id)
	return string(b)
}

func appendInt(b []byte, v int) []byte {
	if v == 0 {
		return append(b, '0')
	}
	neg := v < 0
	if neg {
		v = -v
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	if neg {
		b = append(b, '-')
	}
	// reverse the digits just appended
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
