// Package algorithm holds generic helpers shared by the result iterators.
package algorithm

import (
	"math/rand/v2"
	"time"
)

// maxPrealloc bounds the up-front reservation; larger reservoirs grow on
// demand.
const maxPrealloc = 1024

// ReservoirSampling keeps a uniform random sample of at most k items from a
// stream of unknown length.
type ReservoirSampling[T any] struct {
	samples []T
	num     int
	cnt     int
	rnd     *rand.Rand
}

// NewReservoirSampling creates a sampler with capacity num. A nil rnd uses a
// time-seeded source.
func NewReservoirSampling[T any](num int, rnd *rand.Rand) *ReservoirSampling[T] {
	if num < 0 {
		num = 0
	}
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &ReservoirSampling[T]{
		samples: make([]T, 0, min(num, maxPrealloc)),
		num:     num,
		rnd:     rnd,
	}
}

// Sampling offers one item. The first num items are always kept; the n-th
// item after that replaces slot r for a uniform r in [0, n) when r < num.
// It returns true if the item was retained.
func (s *ReservoirSampling[T]) Sampling(item T) bool {
	if s.cnt < s.num {
		s.samples = append(s.samples, item)
		s.cnt++
		return true
	}
	s.cnt++
	if s.num == 0 {
		return false
	}
	r := s.rnd.IntN(s.cnt)
	if r < s.num {
		s.samples[r] = item
		return true
	}
	return false
}

// Samples drains the reservoir and resets the sampler for reuse.
func (s *ReservoirSampling[T]) Samples() []T {
	out := s.samples
	s.samples = make([]T, 0, min(s.num, maxPrealloc))
	s.cnt = 0
	return out
}

// Offered returns how many items were offered since the last drain.
func (s *ReservoirSampling[T]) Offered() int { return s.cnt }
