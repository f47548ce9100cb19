package noise

import (
	"math/rand/v2"
	"sync"

	domsvc "AgriCast/internal/domain/service"

	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform draws perturbations uniformly from [-amplitude, amplitude).
// Values are not reproducible unless a seed is given.
type Uniform struct {
	dist distuv.Uniform
	zero bool
}

// NewUniform creates a Uniform source. Seed 0 uses the runtime's global
// generator, which is randomly seeded per process and safe for concurrent
// use; any other seed gives a reproducible sequence.
func NewUniform(amplitude float64, seed uint64) *Uniform {
	if amplitude < 0 {
		amplitude = -amplitude
	}
	u := &Uniform{
		dist: distuv.Uniform{Min: -amplitude, Max: amplitude},
		zero: amplitude == 0,
	}
	if seed != 0 {
		u.dist.Src = &lockedSource{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	}
	return u
}

// Sample returns the next perturbation.
func (u *Uniform) Sample() float64 {
	if u.zero {
		return 0
	}
	return u.dist.Rand()
}

// lockedSource serializes access to a non-thread-safe source.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

var _ domsvc.NoiseSource = (*Uniform)(nil)
