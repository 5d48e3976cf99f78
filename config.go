package gmab

import "fmt"

// ─── Configuration ──────────────────────────────────────────────────────────

// Config holds the tunable parameters of the optimizer. A Config is
// immutable once handed to New; cloned engines share it by value.
type Config struct {
	// PopulationSize is the number of arms kept alive at any time.
	PopulationSize int

	// MutationRate is the per-locus probability that a child's gene is
	// perturbed during a genetic round.
	MutationRate float64

	// CrossoverRate is the probability that a selected parent pair is
	// recombined by uniform crossover. With the complementary probability
	// the children are plain copies of the parents.
	CrossoverRate float64

	// MutationSpan scales the magnitude of a single-locus perturbation
	// relative to the width of that locus's bound. The spread for locus i
	// is max(1, round(MutationSpan * (high_i - low_i))).
	MutationSpan float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 20,
		MutationRate:   0.1,
		CrossoverRate:  0.9,
		MutationSpan:   1.0,
	}
}

// validate checks the parameters that do not depend on a particular
// Optimize call. Bounds, budget and top_k are checked per call.
func (c Config) validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population size must be positive, got %d", ErrConfig, c.PopulationSize)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate must be in [0, 1], got %g", ErrConfig, c.MutationRate)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("%w: crossover rate must be in [0, 1], got %g", ErrConfig, c.CrossoverRate)
	}
	if c.MutationSpan < 0 {
		return fmt.Errorf("%w: mutation span must be non-negative, got %g", ErrConfig, c.MutationSpan)
	}
	return nil
}
