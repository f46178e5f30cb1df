// Package selector draws one exercise per level.
//
// Draws are uniform and carry no memory: each call to Choose is independent
// of every earlier call, within a run and across runs. The random source is
// injected so tests (and --seed) can make draws reproducible.
package selector

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"sort"

	"github.com/kingrea/examforge/internal/library"
)

// ErrNoCandidates is returned when Choose is called with an empty set.
var ErrNoCandidates = errors.New("selector: no candidates to choose from")

// Selector performs uniform random draws.
type Selector struct {
	rng *rand.Rand
}

// New creates a selector over the given source.
func New(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// NewSeeded creates a deterministic selector.
func NewSeeded(seed uint64) *Selector {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewFromEntropy seeds a ChaCha8 source from the system entropy pool.
func NewFromEntropy() *Selector {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand only fails when the platform has no entropy source.
		binary.LittleEndian.PutUint64(seed[:], rand.Uint64())
	}
	return New(rand.NewChaCha8(seed))
}

// Choose returns one candidate picked uniformly at random.
func (s *Selector) Choose(candidates []library.Exercise) (library.Exercise, error) {
	if len(candidates) == 0 {
		return library.Exercise{}, ErrNoCandidates
	}
	return candidates[s.rng.IntN(len(candidates))], nil
}

// Plan maps output level ordinals to the exercise drawn for them.
type Plan struct {
	picks map[int]library.Exercise
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{picks: make(map[int]library.Exercise)}
}

// Set records the exercise drawn for a level.
func (p *Plan) Set(ordinal int, ex library.Exercise) {
	p.picks[ordinal] = ex
}

// Get returns the exercise drawn for a level.
func (p *Plan) Get(ordinal int) (library.Exercise, bool) {
	if p == nil {
		return library.Exercise{}, false
	}
	ex, ok := p.picks[ordinal]
	return ex, ok
}

// Ordinals lists the planned levels in ascending order.
func (p *Plan) Ordinals() []int {
	if p == nil {
		return nil
	}
	out := make([]int, 0, len(p.picks))
	for ordinal := range p.picks {
		out = append(out, ordinal)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of planned levels.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.picks)
}
