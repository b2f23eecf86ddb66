package utils

import (
	"encoding/binary"
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// NewRand returns a generator seeded with seed. Every random draw in a run
// goes through a generator created here; nothing uses the global source.
func NewRand(seed int64) *rand.Rand {
	//nolint:gosec
	return rand.New(rand.NewSource(seed))
}

// SubSeed deterministically derives an independent seed for the index-th unit
// of work (e.g. one anchor) from a run seed.
func SubSeed(seed int64, index int) int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(index))
	return int64(xxhash.Sum64(buf[:]))
}
