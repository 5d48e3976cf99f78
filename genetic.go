package gmab

import (
	"math"

	"golang.org/x/exp/rand"
)

// ─── Genetic Operator Layer ─────────────────────────────────────────────────

// geneticOperator rewrites part of the population between bandit rounds.
// The operator itself is stateless; all randomness comes from the rng it
// is handed.
type geneticOperator struct {
	mutationRate  float64
	crossoverRate float64
	mutationSpan  float64
}

// childCount returns the number of children produced per genetic round:
// max(2, N/2), rounded up to even, clamped to N. The same number of
// worst-ranked arms is replaced.
func childCount(n int) int {
	k := n / 2
	if k < 2 {
		k = 2
	}
	if k%2 == 1 {
		k++
	}
	if k > n {
		k = n
	}
	return k
}

// evolve runs one genetic round: rank, select parents from the top half,
// cross over, mutate, enforce genome uniqueness, and replace the worst
// arms with the children. New arms start with zero statistics; nothing is
// inherited from parents.
func (g *geneticOperator) evolve(pop *population, rng *rand.Rand, direction int) error {
	n := pop.len()
	k := childCount(n)

	pop.sortByMean(direction)

	half := n / 2
	if half < 1 {
		half = 1
	}

	// Children must not collide with surviving arms or with each other.
	// Arms about to be replaced are fair targets, so they are excluded
	// from the collision set.
	seen := make(map[string]struct{}, n)
	for i := 0; i < n-k; i++ {
		seen[genomeKey(pop.arm(i).action)] = struct{}{}
	}

	children := make([][]int, 0, k)
	for len(children) < k {
		a := pop.arm(rng.Intn(half)).Action()
		b := pop.arm(rng.Intn(half)).Action()
		if rng.Float64() < g.crossoverRate {
			uniformCrossover(a, b, rng)
		}
		g.mutate(a, pop.bounds, rng)
		g.mutate(b, pop.bounds, rng)
		for _, child := range [][]int{a, b} {
			if len(children) == k {
				break
			}
			g.makeUnique(child, seen, pop.bounds, rng)
			seen[genomeKey(child)] = struct{}{}
			children = append(children, child)
		}
	}

	return pop.replaceWorst(children)
}

// uniformCrossover swaps each locus between the two children with
// probability 0.5. Child a keeps parent a's gene where no swap happens;
// child b always takes the complement.
func uniformCrossover(a, b []int, rng *rand.Rand) {
	for i := range a {
		if rng.Intn(2) == 0 {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// mutate perturbs each locus independently with probability mutationRate.
func (g *geneticOperator) mutate(c []int, bounds []Bound, rng *rand.Rand) {
	for i := range c {
		if rng.Float64() < g.mutationRate {
			c[i] = g.perturb(c[i], bounds[i], rng)
		}
	}
}

// perturb shifts a gene by a nonzero integer drawn uniformly from
// [-s, +s] excluding 0, where s = max(1, round(span * (high-low))), then
// clamps to the bound.
func (g *geneticOperator) perturb(v int, b Bound, rng *rand.Rand) int {
	s := int(math.Round(g.mutationSpan * float64(b.High-b.Low)))
	if s < 1 {
		s = 1
	}
	d := rng.Intn(2*s) - s
	if d >= 0 {
		d++
	}
	v += d
	if v < b.Low {
		v = b.Low
	}
	if v > b.High {
		v = b.High
	}
	return v
}

// makeUnique resamples child loci until its genome collides with nothing
// in seen. The first len(child) attempts remutate a random locus; after
// that a random locus is redrawn uniformly from its bound range.
// Both paths consume the rng stream deterministically.
func (g *geneticOperator) makeUnique(child []int, seen map[string]struct{}, bounds []Bound, rng *rand.Rand) {
	for attempt := 0; ; attempt++ {
		if _, dup := seen[genomeKey(child)]; !dup {
			return
		}
		i := rng.Intn(len(child))
		if attempt < len(child) {
			child[i] = g.perturb(child[i], bounds[i], rng)
		} else {
			child[i] = bounds[i].Low + rng.Intn(bounds[i].span())
		}
	}
}
