package gmab

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
)

// rosenbrock2 is the 2-D Rosenbrock function; global minimum 0 at (1, 1).
func rosenbrock2(x []int) float64 {
	a, b := float64(x[0]), float64(x[1])
	return 100*(b-a*a)*(b-a*a) + (1-a)*(1-a)
}

func seedPtr(s uint64) *uint64 { return &s }

func mustEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero_population", func(c *Config) { c.PopulationSize = 0 }, false},
		{"negative_mutation_rate", func(c *Config) { c.MutationRate = -0.1 }, false},
		{"mutation_rate_above_one", func(c *Config) { c.MutationRate = 1.1 }, false},
		{"crossover_rate_above_one", func(c *Config) { c.CrossoverRate = 1.1 }, false},
		{"negative_crossover_rate", func(c *Config) { c.CrossoverRate = -0.1 }, false},
		{"negative_mutation_span", func(c *Config) { c.MutationSpan = -0.1 }, false},
		{"zero_rates_are_legal", func(c *Config) { c.MutationRate = 0; c.CrossoverRate = 0; c.MutationSpan = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			_, err := New(cfg)
			if tt.ok && err != nil {
				t.Errorf("New = %v, want success", err)
			}
			if !tt.ok && !errors.Is(err, ErrConfig) {
				t.Errorf("New = %v, want ErrConfig", err)
			}
		})
	}
}

func TestOptimize_CallValidation(t *testing.T) {
	wide := []Bound{{-5, 10}, {-5, 10}}

	tests := []struct {
		name   string
		cfg    Config
		bounds []Bound
		budget int
		topK   int
	}{
		{"budget_below_population", DefaultConfig(), wide, 1, 1},
		{"top_k_zero", DefaultConfig(), wide, 100, 0},
		{"top_k_above_population", DefaultConfig(), wide, 100, 21},
		{"lattice_too_small", DefaultConfig(), []Bound{{0, 1}, {0, 1}}, 100, 1},
		{"empty_bounds", DefaultConfig(), nil, 100, 1},
		{"inverted_bound", DefaultConfig(), []Bound{{10, -5}}, 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			counting := func(x []int) (float64, error) { calls++; return 0, nil }
			e := mustEngine(t, tt.cfg)
			_, err := e.Optimize(counting, tt.bounds, tt.budget, tt.topK, seedPtr(1))
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("err = %v, want ErrConfig", err)
			}
			if calls != 0 {
				t.Errorf("objective called %d times before validation failure", calls)
			}
		})
	}
}

func TestOptimize_BudgetDiscipline(t *testing.T) {
	for _, budget := range []int{20, 21, 99, 100, 1000} {
		t.Run(fmt.Sprint(budget), func(t *testing.T) {
			calls := 0
			objective := func(x []int) (float64, error) {
				calls++
				return rosenbrock2(x), nil
			}
			e := mustEngine(t, DefaultConfig())
			_, err := e.Optimize(objective, []Bound{{-5, 10}, {-5, 10}}, budget, 1, seedPtr(7))
			if err != nil {
				t.Fatalf("Optimize: %v", err)
			}
			if calls != budget {
				t.Errorf("objective calls = %d, want exactly %d", calls, budget)
			}
		})
	}
}

func TestOptimize_BoundsDiscipline(t *testing.T) {
	bounds := []Bound{{-5, 10}, {0, 3}, {-2, 2}}
	objective := func(x []int) (float64, error) {
		if len(x) != len(bounds) {
			t.Fatalf("action length %d, want %d", len(x), len(bounds))
		}
		for i, v := range x {
			if v < bounds[i].Low || v > bounds[i].High {
				t.Fatalf("action %v violates bound %d", x, i)
			}
		}
		var sum float64
		for _, v := range x {
			sum += float64(v) * float64(v)
		}
		return sum, nil
	}
	e := mustEngine(t, DefaultConfig())
	results, err := e.Optimize(objective, bounds, 500, 5, seedPtr(3))
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	for _, r := range results {
		for i, v := range r.ActionVector {
			if v < bounds[i].Low || v > bounds[i].High {
				t.Errorf("result %v violates bound %d", r.ActionVector, i)
			}
		}
	}
}

func TestOptimize_Deterministic(t *testing.T) {
	run := func(seed uint64) []ArmResult {
		e := mustEngine(t, DefaultConfig())
		results, err := e.Optimize(
			func(x []int) (float64, error) { return rosenbrock2(x), nil },
			[]Bound{{-5, 10}, {-5, 10}}, 2000, 3, seedPtr(seed),
		)
		if err != nil {
			t.Fatalf("Optimize: %v", err)
		}
		return results
	}

	first := run(42)
	second := run(42)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different results:\n%v\n%v", first, second)
	}

	other := run(43)
	for _, r := range other {
		for i, v := range r.ActionVector {
			if v < -5 || v > 10 {
				t.Errorf("seed 43 result %v violates bound %d", r.ActionVector, i)
			}
		}
	}
}

func TestOptimize_RankingOrder(t *testing.T) {
	e := mustEngine(t, DefaultConfig())
	results, err := e.Optimize(
		func(x []int) (float64, error) { return rosenbrock2(x), nil },
		[]Bound{{-5, 10}, {-5, 10}}, 2000, 5, seedPtr(11),
	)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("len = %d, want 5", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].NumPulls > 0 && results[i].NumPulls > 0 &&
			results[i-1].MeanReward > results[i].MeanReward {
			t.Errorf("results not in non-decreasing order at %d: %g > %g",
				i, results[i-1].MeanReward, results[i].MeanReward)
		}
	}
}

func TestOptimize_Rosenbrock(t *testing.T) {
	e := mustEngine(t, DefaultConfig())
	results, err := e.Optimize(
		func(x []int) (float64, error) { return rosenbrock2(x), nil },
		[]Bound{{-5, 10}, {-5, 10}}, 10000, 1, seedPtr(42),
	)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	best := results[0]
	if best.ActionVector[0] != 1 || best.ActionVector[1] != 1 {
		t.Errorf("best action = %v, want [1 1]", best.ActionVector)
	}
	if best.MeanReward != 0.0 {
		t.Errorf("best mean = %g, want 0.0", best.MeanReward)
	}
	if best.NumPulls == 0 {
		t.Error("best arm was never pulled")
	}
}

func TestOptimize_RosenbrockManySeeds(t *testing.T) {
	if testing.Short() {
		t.Skip("long convergence check")
	}
	var sum float64
	const seeds = 30
	for s := uint64(0); s < seeds; s++ {
		e := mustEngine(t, DefaultConfig())
		results, err := e.Optimize(
			func(x []int) (float64, error) { return rosenbrock2(x), nil },
			[]Bound{{-5, 10}, {-5, 10}}, 10000, 1, seedPtr(s),
		)
		if err != nil {
			t.Fatalf("seed %d: %v", s, err)
		}
		sum += results[0].MeanReward
	}
	if avg := sum / seeds; avg > 1.0 {
		t.Errorf("mean best value over %d seeds = %g, want <= 1.0", seeds, avg)
	}
}

func TestOptimize_ObjectiveErrorPropagation(t *testing.T) {
	cause := errors.New("simulation backend unavailable")
	const failAt = 7
	calls := 0
	objective := func(x []int) (float64, error) {
		calls++
		if calls == failAt {
			return 0, cause
		}
		return 1.0, nil
	}
	cfg := DefaultConfig()
	cfg.PopulationSize = 5
	e := mustEngine(t, cfg)
	_, err := e.Optimize(objective, []Bound{{-5, 10}, {-5, 10}}, 100, 1, seedPtr(1))
	if !errors.Is(err, ErrObjective) {
		t.Fatalf("err = %v, want ErrObjective", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapped cause", err)
	}
	if calls != failAt {
		t.Errorf("objective calls = %d, want exactly %d", calls, failAt)
	}
}

func TestOptimize_NonFiniteReward(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		objective := func(x []int) (float64, error) { return bad, nil }
		e := mustEngine(t, DefaultConfig())
		_, err := e.Optimize(objective, []Bound{{-5, 10}, {-5, 10}}, 100, 1, seedPtr(1))
		if !errors.Is(err, ErrObjective) {
			t.Errorf("reward %v: err = %v, want ErrObjective", bad, err)
		}
	}
}

func TestEngine_Clone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 7
	e := mustEngine(t, cfg)
	c := e.Clone()
	if c == e {
		t.Fatal("Clone returned the same engine")
	}
	if c.Config() != e.Config() {
		t.Errorf("clone config = %+v, want %+v", c.Config(), e.Config())
	}

	// A clone runs independently and reproduces the original's results
	// under the same seed.
	objective := func(x []int) (float64, error) { return rosenbrock2(x), nil }
	bounds := []Bound{{-5, 10}, {-5, 10}}
	r1, err := e.Optimize(objective, bounds, 200, 1, seedPtr(9))
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	r2, err := c.Optimize(objective, bounds, 200, 1, seedPtr(9))
	if err != nil {
		t.Fatalf("clone Optimize: %v", err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("clone diverged: %v vs %v", r1, r2)
	}
}

func TestOptimize_EngineReusable(t *testing.T) {
	e := mustEngine(t, DefaultConfig())
	objective := func(x []int) (float64, error) { return rosenbrock2(x), nil }
	bounds := []Bound{{-5, 10}, {-5, 10}}

	r1, err := e.Optimize(objective, bounds, 300, 2, seedPtr(5))
	if err != nil {
		t.Fatalf("first Optimize: %v", err)
	}
	r2, err := e.Optimize(objective, bounds, 300, 2, seedPtr(5))
	if err != nil {
		t.Fatalf("second Optimize: %v", err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("engine kept residual state between runs: %v vs %v", r1, r2)
	}
}
