package populator

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand"
	"time"
)

// RandomSeed draws a non-negative seed from crypto/rand.
func RandomSeed() int64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return time.Now().UnixNano() & math.MaxInt64
	}
	return int64(binary.LittleEndian.Uint64(b[:]) & math.MaxInt64)
}

// newRand returns the source for a single populate call. Every call gets its
// own *rand.Rand, which is what makes a shared populator safe for concurrent
// use.
func (p *TypePopulator) newRand() *rand.Rand {
	seed := RandomSeed()
	if p.seed != nil {
		seed = *p.seed
	}
	return rand.New(rand.NewSource(seed))
}
