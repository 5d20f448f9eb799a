package generators

import (
	"math/rand"
)

// Generator produces one random value per call. Implementations draw all
// randomness from rng so a seeded source reproduces the same values.
type Generator interface {
	Generate(rng *rand.Rand) (interface{}, error)
}

// Factory binds a parameterized generator kind to its params. It validates the
// params and fails instead of returning a generator that cannot produce.
type Factory func(params map[string]interface{}) (Generator, error)

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(rng *rand.Rand) (interface{}, error)

func (f GeneratorFunc) Generate(rng *rand.Rand) (interface{}, error) {
	return f(rng)
}
