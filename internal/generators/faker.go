package generators

import (
	"math/rand"

	"github.com/go-faker/faker/v4"
)

// The faker-backed producers use faker's own random source, so their output
// is not reproduced by a seeded rng.

type FakerNameGenerator struct{}

func (g *FakerNameGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return faker.Name(), nil
}

type FakerWordGenerator struct{}

func (g *FakerWordGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return faker.Word(), nil
}

type FakerEmailGenerator struct{}

func (g *FakerEmailGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	return faker.Email(), nil
}

type CityGenerator struct{}

func (g *CityGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	cities := []string{
		"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
		"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose",
		"Austin", "Jacksonville", "Fort Worth", "Columbus", "Charlotte",
		"San Francisco", "Indianapolis", "Seattle", "Denver", "Washington",
		"Boston", "Nashville", "Detroit", "Portland", "Las Vegas",
		"London", "Paris", "Tokyo", "Berlin", "Madrid",
		"Rome", "Amsterdam", "Vienna", "Prague", "Barcelona",
		"Munich", "Milan", "Stockholm", "Copenhagen", "Oslo",
	}
	return cities[rng.Intn(len(cities))], nil
}
