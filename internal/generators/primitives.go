package generators

import (
	"math/rand"
)

const (
	primitiveUpperBound = 100
	alphaStringLength   = 5
	alphabet            = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// IntGenerator yields ints in [0,100).
type IntGenerator struct{}

func (g *IntGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return rng.Intn(primitiveUpperBound), nil
}

// FloatGenerator yields float64 values in [0,100).
type FloatGenerator struct{}

func (g *FloatGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return rng.Float64() * primitiveUpperBound, nil
}

type BoolGenerator struct{}

func (g *BoolGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return rng.Intn(2) == 1, nil
}

// AlphaStringGenerator yields ASCII letter strings of a fixed length, five by
// default.
type AlphaStringGenerator struct {
	Length int
}

func (g *AlphaStringGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	n := g.Length
	if n <= 0 {
		n = alphaStringLength
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b), nil
}
