package generators

import (
	"errors"
	"fmt"
	"math/rand"
)

type NormalGenerator struct {
	mean float64
	std  float64
}

func NewNormalGenerator(params map[string]interface{}) (Generator, error) {
	if params == nil {
		return nil, errors.New("normal requires 'mean' and 'std' params")
	}
	meanVal, hasMean := params["mean"]
	stdVal, hasStd := params["std"]
	if !hasMean || !hasStd {
		return nil, errors.New("normal requires 'mean' and 'std' params")
	}

	mean, ok := toFloat64(meanVal)
	if !ok {
		return nil, fmt.Errorf("'mean' is not a number: %v", meanVal)
	}
	std, ok := toFloat64(stdVal)
	if !ok {
		return nil, fmt.Errorf("'std' is not a number: %v", stdVal)
	}
	if !isFinite(mean) || !isFinite(std) {
		return nil, fmt.Errorf("'mean' and 'std' must be finite, got %g and %g", mean, std)
	}
	if std < 0 {
		return nil, fmt.Errorf("'std' must not be negative: %g", std)
	}

	return &NormalGenerator{mean: mean, std: std}, nil
}

func (g *NormalGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return rng.NormFloat64()*g.std + g.mean, nil
}
