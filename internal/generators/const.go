package generators

import (
	"errors"
	"math/rand"
)

type ConstGenerator struct {
	value interface{}
}

func NewConstGenerator(params map[string]interface{}) (Generator, error) {
	if params == nil {
		return nil, errors.New("const generator requires 'value' param")
	}
	value, ok := params["value"]
	if !ok {
		return nil, errors.New("const generator requires 'value' param")
	}
	return &ConstGenerator{value: value}, nil
}

func (g *ConstGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return g.value, nil
}
