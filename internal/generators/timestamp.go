package generators

import (
	"errors"
	"math/rand"
	"time"

	"github.com/mmrzaf/mockgen/internal/timeutil"
)

// DefaultTimestampWindow is the relative start used when none is configured.
const DefaultTimestampWindow = "-30d"

// TimestampGenerator yields UTC times, truncated to the second, uniformly
// spread over the window: [now+Offset, now) for a "-" window and
// [now, now+Offset) for a "+" window.
type TimestampGenerator struct {
	window timeutil.Window
	now    func() time.Time
}

func NewTimestampGenerator(start string) (*TimestampGenerator, error) {
	w, err := timeutil.ParseWindow(start)
	if err != nil {
		return nil, err
	}
	return &TimestampGenerator{window: w, now: time.Now}, nil
}

func (g *TimestampGenerator) Generate(rng *rand.Rand) (interface{}, error) {
	from, to := g.window.Bounds(g.now())
	span := to.Sub(from)
	if span <= 0 {
		return nil, errors.New("timestamp window is empty")
	}
	offset := time.Duration(rng.Int63n(int64(span)))
	return from.Add(offset).UTC().Truncate(time.Second), nil
}
