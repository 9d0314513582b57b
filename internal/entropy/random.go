// Package entropy resolves the simulation seed and hands out independent
// random streams, one per subsystem, so that a seed reproduces a whole run.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand"
)

// Stream offsets added to the base seed. Each subsystem draws from its own
// stream so that changing one does not perturb the others.
const (
	StreamTerrain   int64 = 0
	StreamPlacement int64 = 200
	StreamSpawn     int64 = 300
	StreamTick      int64 = 400
)

// Source derives seeded streams from one base seed.
type Source struct {
	seed int64
}

// New creates a source. A zero seed is replaced by one from crypto/rand.
func New(seed int64) *Source {
	if seed == 0 {
		seed = cryptoSeed()
		slog.Debug("seed drawn from crypto/rand", "seed", seed)
	}
	return &Source{seed: seed}
}

// Seed returns the resolved base seed.
func (s *Source) Seed() int64 {
	return s.seed
}

// Stream returns a new generator for the given offset.
func (s *Source) Stream(offset int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(s.seed + offset))
}

// cryptoSeed returns a non-zero seed from crypto/rand.
func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to the global generator.
		return mrand.Int63() | 1
	}
	v := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if v == 0 {
		v = 1
	}
	return v
}
