// Package gmab implements a Genetic Multi-Armed Bandit (GMAB) optimizer
// for noisy black-box objective functions over bounded integer vectors.
//
// The optimizer maintains a population of candidate solutions ("arms").
// It alternates between two phases until an evaluation budget is spent:
//
//   - Bandit rounds: arms in the current population are evaluated one at
//     a time, chosen by a UCB-1 score that balances exploiting arms with
//     good empirical mean reward against exploring arms with few pulls.
//     Because the objective may be noisy, repeated pulls of the same arm
//     sharpen its mean estimate.
//
//   - Genetic rounds: the population is partially rewritten. Parents are
//     drawn from the better-ranked half, recombined by uniform crossover,
//     perturbed by per-locus mutation, and the resulting children replace
//     the worst-ranked arms.
//
// The engine always minimizes. Callers that want maximization negate the
// objective and negate the reported means back; the study wrapper in
// package study does this automatically.
//
// All randomness flows through a single seedable source, so a fixed seed
// makes a whole optimization bit-reproducible.
package gmab
