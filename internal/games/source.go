package games

import (
	"math/rand/v2"
	"time"

	"github.com/MJE43/hilo-casino-desktop/internal/engine"
)

// CardSource produces uniformly distributed card values. The next card is
// drawn independently of the current one, so repeats are possible.
type CardSource interface {
	Draw() CardValue
}

// RandomSource draws from math/rand.
type RandomSource struct {
	r *rand.Rand
}

// NewRandomSource wraps r. A nil r gets a time-seeded PCG.
func NewRandomSource(r *rand.Rand) *RandomSource {
	if r == nil {
		now := uint64(time.Now().UnixNano())
		r = rand.New(rand.NewPCG(now, now>>17|1))
	}
	return &RandomSource{r: r}
}

func (s *RandomSource) Draw() CardValue {
	return CardValue(s.r.IntN(int(MaxCard))) + MinCard
}

// SeededSource deals a reproducible sequence from the HMAC byte stream.
type SeededSource struct {
	seed string
	gen  *engine.ByteGenerator
}

// NewSeededSource starts a fresh deal for seed.
func NewSeededSource(seed string) *SeededSource {
	return &SeededSource{
		seed: seed,
		gen:  engine.NewByteGenerator(seed, engine.DefaultClientSeed),
	}
}

func (s *SeededSource) Draw() CardValue {
	return CardValue(s.gen.NextInt(int(MinCard), int(MaxCard)))
}

// Seed returns the seed the deal was started from.
func (s *SeededSource) Seed() string { return s.seed }

// SequenceSource replays a fixed list of values, cycling when exhausted.
// Handy for tests and for scripted demos.
type SequenceSource struct {
	values []CardValue
	pos    int
}

func NewSequenceSource(values ...CardValue) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) Draw() CardValue {
	if len(s.values) == 0 {
		return MinCard
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}
