// Package entropy provides the random sources behind price draws and travel events.
package entropy

import (
	"math/rand"
	"sync"
	"time"
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

// Rand is a goroutine-safe Source backed by math/rand.
type Rand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand creates a seeded source. A zero seed uses the current time.
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{rng: rand.New(rand.NewSource(seed))}
}

// Float64 implements Source.
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Intn returns a uniform int in [0, n).
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Sequence replays a fixed list of values, cycling when exhausted.
// It exists so tests can pin every draw.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence creates a Sequence. With no values it always returns 0.5.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 implements Source.
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() { s.next++ }()
	if len(s.values) == 0 {
		return 0.5
	}
	return s.values[s.next%len(s.values)]
}

// Draws returns how many values have been consumed.
func (s *Sequence) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Constant always returns the same value.
type Constant float64

// Float64 implements Source.
func (c Constant) Float64() float64 {
	return float64(c)
}
