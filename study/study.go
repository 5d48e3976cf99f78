// Package study provides the user-facing wrapper around the GMAB core.
// A Study decodes heterogeneous parameter definitions into the flat
// integer bounds the engine consumes, runs one or more independent
// optimizations, decodes the winning action vectors back into parameter
// values, and ranks results across runs with a UCB score.
package study

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/evobandits/gmab"
	"github.com/evobandits/gmab/params"
)

// ─── Objectives ─────────────────────────────────────────────────────────────

// Objective is a user objective evaluated on decoded parameter values.
type Objective interface {
	Evaluate(values map[string]any) (float64, error)
}

// SeededObjective is an objective that also accepts a per-evaluation
// seed, for noisy objectives that want reproducible noise. The study
// only drives the seeded path when it was itself constructed with a
// seed; otherwise Evaluate is used.
type SeededObjective interface {
	Objective
	EvaluateSeeded(values map[string]any, seed uint64) (float64, error)
}

// ObjectiveFunc adapts a plain function to Objective.
type ObjectiveFunc func(values map[string]any) (float64, error)

func (f ObjectiveFunc) Evaluate(values map[string]any) (float64, error) { return f(values) }

// SeededObjectiveFunc adapts a seeded function to SeededObjective. The
// unseeded path evaluates with seed 0.
type SeededObjectiveFunc func(values map[string]any, seed uint64) (float64, error)

func (f SeededObjectiveFunc) Evaluate(values map[string]any) (float64, error) { return f(values, 0) }

func (f SeededObjectiveFunc) EvaluateSeeded(values map[string]any, seed uint64) (float64, error) {
	return f(values, seed)
}

// ─── Results ────────────────────────────────────────────────────────────────

// Result is one ranked arm from one optimization run.
type Result struct {
	Params         map[string]any `json:"params"`
	ActionVector   []int          `json:"action_vector"`
	Value          float64        `json:"value"`
	NumEvaluations int            `json:"n_evaluations"`
	UCBRank        int            `json:"ucb_rank"`
}

var ErrNoResults = errors.New("study has no results; run Optimize first")

// ─── Study ──────────────────────────────────────────────────────────────────

// Options configures one Optimize call.
type Options struct {
	// Maximize flips the optimization direction. The engine always
	// minimizes internally; the study negates rewards on the way in and
	// values on the way out.
	Maximize bool

	// NBest is the number of arms returned per run. Default 1.
	NBest int

	// NRuns repeats the optimization with fresh per-run seeds drawn from
	// the study RNG. Runs are sequential and independent. Default 1.
	NRuns int
}

func (o Options) withDefaults() Options {
	if o.NBest == 0 {
		o.NBest = 1
	}
	if o.NRuns == 0 {
		o.NRuns = 1
	}
	return o
}

// Study represents one optimization task.
type Study struct {
	// Engine is the algorithm template; each run clones it. Defaults to
	// an engine with gmab.DefaultConfig().
	Engine *gmab.Engine

	log       *zap.Logger
	seed      *uint64
	rng       *rand.Rand
	direction float64
	results   []Result
}

// New creates a study. A nil seed means results will not be reproducible,
// which is logged as a warning. A nil logger disables logging.
func New(seed *uint64, logger *zap.Logger) *Study {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine, err := gmab.New(gmab.DefaultConfig())
	if err != nil {
		// DefaultConfig always validates.
		panic(err)
	}
	var src rand.Source
	if seed != nil {
		src = rand.NewSource(*seed)
	} else {
		logger.Warn("no seed provided; results will not be reproducible")
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &Study{
		Engine:    engine,
		log:       logger,
		seed:      seed,
		rng:       rand.New(src),
		direction: 1,
	}
}

// paramNames returns the parameter names in the deterministic order used
// for the flat search space: sorted lexicographically. Map iteration
// order must never leak into genome layout.
func paramNames(parameters map[string]params.Param) []string {
	names := make([]string, 0, len(parameters))
	for name := range parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// collectBounds flattens all parameter bounds in name order.
func collectBounds(parameters map[string]params.Param, names []string) []gmab.Bound {
	var bounds []gmab.Bound
	for _, name := range names {
		bounds = append(bounds, parameters[name].Bounds()...)
	}
	return bounds
}

// decode splits a flat action vector back into named parameter values.
func decode(parameters map[string]params.Param, names []string, action []int) map[string]any {
	values := make(map[string]any, len(names))
	idx := 0
	for _, name := range names {
		p := parameters[name]
		values[name] = p.Decode(action[idx : idx+p.Size()])
		idx += p.Size()
	}
	return values
}

// Optimize runs the study and stores its results. nTrials is the
// evaluation budget per run.
func (s *Study) Optimize(objective Objective, parameters map[string]params.Param, nTrials int, opts Options) error {
	if objective == nil {
		return fmt.Errorf("%w: objective must not be nil", gmab.ErrConfig)
	}
	if len(parameters) == 0 {
		return fmt.Errorf("%w: at least one parameter is required", gmab.ErrConfig)
	}
	opts = opts.withDefaults()
	if opts.NRuns < 1 {
		return fmt.Errorf("%w: n_runs must be positive, got %d", gmab.ErrConfig, opts.NRuns)
	}

	s.direction = 1
	if opts.Maximize {
		s.direction = -1
	}

	names := paramNames(parameters)
	bounds := collectBounds(parameters, names)

	seeded, _ := objective.(SeededObjective)
	useSeeded := s.seed != nil && seeded != nil

	evaluate := func(action []int) (float64, error) {
		values := decode(parameters, names, action)
		var v float64
		var err error
		if useSeeded {
			v, err = seeded.EvaluateSeeded(values, s.rng.Uint64())
		} else {
			v, err = objective.Evaluate(values)
		}
		if err != nil {
			return 0, err
		}
		return s.direction * v, nil
	}

	results := make([]Result, 0, opts.NRuns*opts.NBest)
	for run := 0; run < opts.NRuns; run++ {
		runSeed := s.rng.Uint64()
		engine := s.Engine.Clone()

		arms, err := engine.Optimize(evaluate, bounds, nTrials, opts.NBest, &runSeed)
		if err != nil {
			return err
		}
		for _, arm := range arms {
			results = append(results, Result{
				Params:         decode(parameters, names, arm.ActionVector),
				ActionVector:   arm.ActionVector,
				Value:          s.direction * arm.MeanReward,
				NumEvaluations: arm.NumPulls,
			})
		}
		s.log.Info("run finished",
			zap.Int("run", run+1),
			zap.Int("n_runs", opts.NRuns),
			zap.Int("n_trials", nTrials),
			zap.Float64("best_value", s.direction*arms[0].MeanReward),
		)
	}

	s.results = results
	return nil
}

// Results returns all results found during optimization, UCB-ranked
// across runs.
func (s *Study) Results() ([]Result, error) {
	if len(s.results) == 0 {
		return nil, ErrNoResults
	}
	return ucbRanking(s.results, int(s.direction)), nil
}

// BestResult returns the rank-1 result.
func (s *Study) BestResult() (Result, error) {
	ranked, err := s.Results()
	if err != nil {
		return Result{}, err
	}
	return ranked[0], nil
}

// BestValue returns the value of the rank-1 result.
func (s *Study) BestValue() (float64, error) {
	best, err := s.BestResult()
	if err != nil {
		return 0, err
	}
	return best.Value, nil
}

// BestParams returns the parameter values of the rank-1 result.
func (s *Study) BestParams() (map[string]any, error) {
	best, err := s.BestResult()
	if err != nil {
		return nil, err
	}
	return best.Params, nil
}

// MeanValue returns the mean value over all results.
func (s *Study) MeanValue() (float64, error) {
	ranked, err := s.Results()
	if err != nil {
		return 0, err
	}
	values := make([]float64, len(ranked))
	for i, r := range ranked {
		values[i] = r.Value
	}
	return stat.Mean(values, nil), nil
}
