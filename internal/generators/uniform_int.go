package generators

import (
	"errors"
	"fmt"
	"math/rand"
)

// UniformIntGenerator yields int values in [min,max).
type UniformIntGenerator struct {
	min int64
	max int64
}

func NewUniformIntGenerator(params map[string]interface{}) (Generator, error) {
	if params == nil {
		return nil, errors.New("uniform_int requires 'min' and 'max' params")
	}
	minVal, hasMin := params["min"]
	maxVal, hasMax := params["max"]
	if !hasMin || !hasMax {
		return nil, errors.New("uniform_int requires 'min' and 'max' params")
	}

	min, ok := toInt64(minVal)
	if !ok {
		return nil, fmt.Errorf("'min' is not an integer: %v", minVal)
	}
	max, ok := toInt64(maxVal)
	if !ok {
		return nil, fmt.Errorf("'max' is not an integer: %v", maxVal)
	}

	if max <= min {
		return nil, fmt.Errorf("max (%d) must be greater than min (%d)", max, min)
	}
	if max-min <= 0 {
		return nil, fmt.Errorf("range [%d,%d) is wider than an int64 can hold", min, max)
	}

	return &UniformIntGenerator{min: min, max: max}, nil
}

func (g *UniformIntGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return int(g.min + rng.Int63n(g.max-g.min)), nil
}

func toInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case float64:
		if val != float64(int64(val)) {
			return 0, false
		}
		return int64(val), true
	default:
		return 0, false
	}
}
