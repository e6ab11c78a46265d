package maze

import (
	"errors"
	"math/rand"
	"time"
)

// ErrSourceExhausted is returned by sources that have no more values to hand out
var ErrSourceExhausted = errors.New("random source exhausted")

// Source supplies the randomness used for neighbor shuffling and braiding.
// Failures abort generation; there is no partial grid.
type Source interface {
	// Intn returns a value in [0, n)
	Intn(n int) (int, error)
	// Float64 returns a value in [0, 1)
	Float64() (float64, error)
}

type randSource struct {
	rng *rand.Rand
}

// NewSource returns a math/rand backed source. Seed 0 seeds from the clock.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return FromRand(rand.New(rand.NewSource(seed)))
}

// FromRand adapts an existing generator
func FromRand(rng *rand.Rand) Source {
	return &randSource{rng: rng}
}

func (s *randSource) Intn(n int) (int, error) { return s.rng.Intn(n), nil }

func (s *randSource) Float64() (float64, error) { return s.rng.Float64(), nil }

// Sequence is a scripted source: Intn and Float64 consume the same value list in order.
// Intn maps a value v to int(v*n). Once the list is used up every call fails with ErrSourceExhausted.
type Sequence struct {
	Values []float64
	pos    int
}

func (s *Sequence) next() (float64, error) {
	if s.pos >= len(s.Values) {
		return 0, ErrSourceExhausted
	}
	v := s.Values[s.pos]
	s.pos++
	return v, nil
}

func (s *Sequence) Intn(n int) (int, error) {
	v, err := s.next()
	if err != nil {
		return 0, err
	}
	i := int(v * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i, nil
}

func (s *Sequence) Float64() (float64, error) { return s.next() }

// Consumed returns how many values have been drawn
func (s *Sequence) Consumed() int { return s.pos }
