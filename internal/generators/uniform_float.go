package generators

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

type UniformFloatGenerator struct {
	min float64
	max float64
}

func NewUniformFloatGenerator(params map[string]interface{}) (Generator, error) {
	if params == nil {
		return nil, errors.New("uniform_float requires 'min' and 'max' params")
	}
	minVal, hasMin := params["min"]
	maxVal, hasMax := params["max"]
	if !hasMin || !hasMax {
		return nil, errors.New("uniform_float requires 'min' and 'max' params")
	}

	min, ok := toFloat64(minVal)
	if !ok {
		return nil, fmt.Errorf("'min' is not a number: %v", minVal)
	}
	max, ok := toFloat64(maxVal)
	if !ok {
		return nil, fmt.Errorf("'max' is not a number: %v", maxVal)
	}
	if !isFinite(min) || !isFinite(max) {
		return nil, fmt.Errorf("min and max must be finite, got %g and %g", min, max)
	}
	if max < min {
		return nil, fmt.Errorf("max (%g) must not be less than min (%g)", max, min)
	}
	if !isFinite(max - min) {
		return nil, fmt.Errorf("range [%g,%g) is wider than a float64 can hold", min, max)
	}

	return &UniformFloatGenerator{min: min, max: max}, nil
}

func (g *UniformFloatGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return g.min + rng.Float64()*(g.max-g.min), nil
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}
