package calculator

import (
	"math/rand/v2"
	"sync"

	"currency-calculator/internal/domain/model"
)

// DefaultSampleSize is how many currencies a fresh session tracks.
const DefaultSampleSize = 5

// Sampler picks the initial tracked currencies. It is safe for concurrent
// use so one sampler can serve every session.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler uses src as its random source. Tests pass a seeded source.
func NewSampler(src rand.Source) *Sampler {
	return &Sampler{rng: rand.New(src)}
}

// DefaultSampler is seeded from the runtime's random state.
func DefaultSampler() *Sampler {
	return NewSampler(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Sample returns min(count, distinct codes) distinct codes in random order.
// The input slice is not modified.
func (s *Sampler) Sample(codes []model.Currency, count int) []model.Currency {
	pool := distinct(codes)
	if count <= 0 || len(pool) == 0 {
		return []model.Currency{}
	}
	n := min(count, len(pool))

	s.mu.Lock()
	defer s.mu.Unlock()

	// partial Fisher-Yates: the first n slots end up uniformly sampled
	for i := 0; i < n; i++ {
		j := i + s.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

func distinct(codes []model.Currency) []model.Currency {
	seen := make(map[model.Currency]struct{}, len(codes))
	out := make([]model.Currency, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
