package generators

import (
	"math/rand"

	"github.com/google/uuid"
)

// UUID4Generator derives a version 4 UUID from rng instead of crypto/rand so
// seeded runs stay reproducible.
type UUID4Generator struct{}

func (g *UUID4Generator) Generate(rng *rand.Rand) (interface{}, error) {
	uuidBytes := make([]byte, 16)
	rng.Read(uuidBytes)
	uuidBytes[6] = (uuidBytes[6] & 0x0f) | 0x40
	uuidBytes[8] = (uuidBytes[8] & 0x3f) | 0x80
	u, err := uuid.FromBytes(uuidBytes)
	if err != nil {
		return nil, err
	}
	return u, nil
}
