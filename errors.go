package gmab

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Every failure the engine can signal wraps one of these, so callers can
// classify with errors.Is without parsing messages.

var (
	// ErrConfig marks an invalid parameter: rates out of range, zero
	// population, bad bounds, top_k out of range, insufficient budget, or
	// a lattice too small to hold the population.
	ErrConfig = errors.New("invalid configuration")

	// ErrObjective marks a failed evaluation: the user objective returned
	// an error, or produced a NaN or infinite reward. The engine does not
	// retry; the current optimization is aborted.
	ErrObjective = errors.New("objective evaluation failed")

	// ErrInternal marks an invariant violation, such as a duplicate genome
	// leaking into the population. These are programming errors.
	ErrInternal = errors.New("internal invariant violated")

	// ErrNaNReward is returned by Arm.Update when handed a NaN reward.
	ErrNaNReward = errors.New("reward is NaN")
)
