package gmab

import (
	"fmt"
	"math"
)

// ─── Engine ─────────────────────────────────────────────────────────────────

// Objective evaluates one integer action vector and returns its reward.
// The engine calls it synchronously and blocks until it returns. Wrappers
// that seed evaluations bind the per-call seed into the closure before
// handing it to the engine; the engine itself injects nothing.
type Objective func(action []int) (float64, error)

// ArmResult is one entry of the optimization result, stable for
// serialization.
type ArmResult struct {
	ActionVector []int   `json:"action_vector"`
	MeanReward   float64 `json:"mean_reward"`
	NumPulls     int     `json:"num_pulls"`
}

// Engine is the GMAB optimizer. An Engine carries only its configuration;
// every Optimize call creates fresh run state, so the engine is reusable
// and Clone is cheap.
type Engine struct {
	cfg Config
}

// New creates an engine, validating the call-independent configuration
// eagerly.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Clone returns an independent engine with the same configuration and no
// run state.
func (e *Engine) Clone() *Engine { return &Engine{cfg: e.cfg} }

// Optimize searches the integer lattice described by bounds under a
// fixed evaluation budget and returns the topK best arms by empirical
// mean reward. The engine minimizes; to maximize, negate the objective.
//
// A non-nil seed fixes the RNG stream, making the returned list
// bit-identical across runs with identical inputs. All validation
// happens before the first objective call. Any objective error or
// non-finite reward aborts the run with no partial results.
func (e *Engine) Optimize(objective Objective, bounds []Bound, budget, topK int, seed *uint64) ([]ArmResult, error) {
	if err := e.validateCall(objective, bounds, budget, topK); err != nil {
		return nil, err
	}

	const direction = 1 // the engine always minimizes

	rng := newRNG(seed)
	pop, err := newPopulation(bounds, e.cfg.PopulationSize, rng)
	if err != nil {
		return nil, err
	}
	sel := newUCBSelector(pop.len())
	ops := &geneticOperator{
		mutationRate:  e.cfg.MutationRate,
		crossoverRate: e.cfg.CrossoverRate,
		mutationSpan:  e.cfg.MutationSpan,
	}

	remaining := budget
	for remaining > 0 {
		// Bandit round: one pass of up to PopulationSize evaluations,
		// truncated so the budget is never exceeded.
		pulls := pop.len()
		if remaining < pulls {
			pulls = remaining
		}
		sel.reset()
		for j := 0; j < pulls; j++ {
			i := sel.selectArm(pop, direction)
			arm := pop.arm(i)
			reward, err := objective(arm.Action())
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrObjective, err)
			}
			if math.IsNaN(reward) || math.IsInf(reward, 0) {
				return nil, fmt.Errorf("%w: non-finite reward %v", ErrObjective, reward)
			}
			if err := arm.Update(reward); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInternal, err)
			}
			sel.observe(i)
			remaining--
		}
		if remaining == 0 {
			break
		}

		// Genetic round: partially rewrite the population.
		if err := ops.evolve(pop, rng, direction); err != nil {
			return nil, err
		}
	}

	pop.sortByMean(direction)
	results := make([]ArmResult, topK)
	for i := range results {
		arm := pop.arm(i)
		results[i] = ArmResult{
			ActionVector: arm.Action(),
			MeanReward:   arm.MeanReward(),
			NumPulls:     arm.NumPulls(),
		}
	}
	return results, nil
}

// validateCall checks the per-call arguments. Every violation is
// reported before any objective evaluation happens.
func (e *Engine) validateCall(objective Objective, bounds []Bound, budget, topK int) error {
	if objective == nil {
		return fmt.Errorf("%w: objective must not be nil", ErrConfig)
	}
	if len(bounds) == 0 {
		return fmt.Errorf("%w: bounds must not be empty", ErrConfig)
	}
	for i, b := range bounds {
		if b.Low > b.High {
			return fmt.Errorf("%w: bound %d has low %d > high %d", ErrConfig, i, b.Low, b.High)
		}
	}
	if topK < 1 || topK > e.cfg.PopulationSize {
		return fmt.Errorf("%w: top_k must be in [1, %d], got %d", ErrConfig, e.cfg.PopulationSize, topK)
	}
	if budget < e.cfg.PopulationSize {
		return fmt.Errorf("%w: budget %d cannot cover one evaluation per arm (population_size %d)", ErrConfig, budget, e.cfg.PopulationSize)
	}
	if !latticeHolds(bounds, e.cfg.PopulationSize) {
		return fmt.Errorf("%w: bounds admit fewer than %d distinct action vectors (population_size)", ErrConfig, e.cfg.PopulationSize)
	}
	return nil
}
