package study

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ucbRanking orders results from multiple independent runs by an upper
// confidence bound over their reported values:
//
//	ucb = normalized_value + direction * sqrt(2 * ln(total) / n)
//
// where total sums n_evaluations over all results. Values are min-max
// normalized; a degenerate spread uses a 1e-9 denominator. Results are
// sorted ascending by direction*ucb and numbered from rank 1. The input
// slice is not modified.
func ucbRanking(results []Result, direction int) []Result {
	ranked := make([]Result, len(results))
	copy(ranked, results)

	values := make([]float64, len(ranked))
	total := 0
	for i, r := range ranked {
		values[i] = r.Value
		total += r.NumEvaluations
	}

	lo, hi := floats.Min(values), floats.Max(values)
	denom := hi - lo
	if denom == 0 {
		denom = 1e-9
	}

	d := float64(direction)
	scores := make([]float64, len(ranked))
	for i, r := range ranked {
		penalty := math.Sqrt(2 * math.Log(float64(total)) / float64(r.NumEvaluations))
		scores[i] = (values[i]-lo)/denom + d*penalty
	}

	order := make([]int, len(ranked))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return d*scores[order[a]] < d*scores[order[b]]
	})

	out := make([]Result, len(ranked))
	for rank, idx := range order {
		out[rank] = ranked[idx]
		out[rank].UCBRank = rank + 1
	}
	return out
}
