package generators

import (
	"errors"
	"fmt"
	"math/rand"
)

type ChoiceGenerator struct {
	values      []interface{}
	weights     []float64
	totalWeight float64
}

func NewChoiceGenerator(params map[string]interface{}) (Generator, error) {
	if params == nil {
		return nil, errors.New("choice requires 'values' param")
	}
	valuesRaw, ok := params["values"]
	if !ok {
		return nil, errors.New("choice requires 'values' param")
	}

	values, ok := valuesRaw.([]interface{})
	if !ok {
		return nil, errors.New("'values' must be a list")
	}

	if len(values) == 0 {
		return nil, errors.New("'values' cannot be empty")
	}

	g := &ChoiceGenerator{values: values}

	weightsRaw, hasWeights := params["weights"]
	if !hasWeights {
		return g, nil
	}

	weights, ok := weightsRaw.([]interface{})
	if !ok {
		return nil, errors.New("'weights' must be a list")
	}
	if len(weights) != len(values) {
		return nil, errors.New("'weights' and 'values' must have the same length")
	}

	g.weights = make([]float64, len(weights))
	for i, w := range weights {
		weight, ok := toFloat64(w)
		if !ok {
			return nil, fmt.Errorf("weight is not a number: %v", w)
		}
		if weight < 0 {
			return nil, fmt.Errorf("negative weight: %v", w)
		}
		g.weights[i] = weight
		g.totalWeight += weight
	}

	if g.totalWeight == 0 {
		return nil, errors.New("total weight is zero")
	}

	return g, nil
}

func (g *ChoiceGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	if g.weights == nil {
		return g.values[rng.Intn(len(g.values))], nil
	}

	r := rng.Float64() * g.totalWeight
	cumWeight := 0.0
	for i, w := range g.weights {
		cumWeight += w
		if r < cumWeight {
			return g.values[i], nil
		}
	}

	return g.values[len(g.values)-1], nil
}
