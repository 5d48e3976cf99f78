package gmab

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
)

// ─── Bounds ─────────────────────────────────────────────────────────────────

// Bound is the inclusive integer interval for one position of the action
// vector.
type Bound struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// span returns the number of lattice points covered by the bound.
func (b Bound) span() int { return b.High - b.Low + 1 }

// latticeHolds reports whether the integer lattice described by bounds
// contains at least n points. The product of spans can overflow for wide
// bounds, so multiplication stops as soon as n is reached.
func latticeHolds(bounds []Bound, n int) bool {
	size := 1
	for _, b := range bounds {
		s := b.span()
		if s >= (n+size-1)/size {
			return true
		}
		size *= s
	}
	return size >= n
}

// ─── Population ─────────────────────────────────────────────────────────────

// population is a fixed-size ordered collection of arms. The index map
// enforces genome uniqueness and gives O(1) lookup-by-genome; it never
// drives iteration order, which keeps runs deterministic.
type population struct {
	members []*Arm
	index   map[string]int
	bounds  []Bound
}

// newPopulation draws n distinct genomes uniformly at random from the
// lattice. Duplicates are rejected and resampled; if the lattice holds
// fewer than n points it returns ErrConfig without sampling.
func newPopulation(bounds []Bound, n int, rng *rand.Rand) (*population, error) {
	if !latticeHolds(bounds, n) {
		return nil, fmt.Errorf("%w: bounds admit fewer than %d distinct action vectors (population_size)", ErrConfig, n)
	}
	p := &population{
		members: make([]*Arm, 0, n),
		index:   make(map[string]int, n),
		bounds:  bounds,
	}
	for len(p.members) < n {
		g := randomGenome(bounds, rng)
		key := genomeKey(g)
		if _, dup := p.index[key]; dup {
			continue
		}
		p.index[key] = len(p.members)
		p.members = append(p.members, NewArm(g))
	}
	return p, nil
}

// randomGenome samples each locus uniformly within its bound.
func randomGenome(bounds []Bound, rng *rand.Rand) []int {
	g := make([]int, len(bounds))
	for i, b := range bounds {
		g[i] = b.Low + rng.Intn(b.span())
	}
	return g
}

func (p *population) len() int { return len(p.members) }

func (p *population) arm(i int) *Arm { return p.members[i] }

// contains reports whether a genome with the given key is a member.
func (p *population) contains(key string) bool {
	_, ok := p.index[key]
	return ok
}

// replaceWorst swaps the k last-ranked members for fresh arms built from
// children. Call after sortByMean, so the tail really is the worst slice
// of the ranking. A child colliding with a surviving genome is an
// invariant violation: the genetic layer guarantees uniqueness.
func (p *population) replaceWorst(children [][]int) error {
	k := len(children)
	n := len(p.members)
	if k > n {
		return fmt.Errorf("%w: %d children for a population of %d", ErrInternal, k, n)
	}
	for i := n - k; i < n; i++ {
		delete(p.index, genomeKey(p.members[i].action))
	}
	for i, g := range children {
		key := genomeKey(g)
		if _, dup := p.index[key]; dup {
			return fmt.Errorf("%w: duplicate genome %q entering population", ErrInternal, key)
		}
		pos := n - k + i
		p.index[key] = pos
		p.members[pos] = NewArm(g)
	}
	return nil
}

// sortByMean stably reorders members so that better arms come first,
// where better means lower direction-adjusted mean. Unsampled arms have
// no meaningful mean and always rank last. The genome index is rebuilt
// afterwards.
func (p *population) sortByMean(direction int) {
	d := float64(direction)
	sort.SliceStable(p.members, func(i, j int) bool {
		a, b := p.members[i], p.members[j]
		switch {
		case a.numPulls == 0:
			return false
		case b.numPulls == 0:
			return true
		}
		return d*a.MeanReward() < d*b.MeanReward()
	})
	for i, m := range p.members {
		p.index[genomeKey(m.action)] = i
	}
}
