// Package bench provides the built-in benchmark objectives used by the
// CLI, the HTTP API, and the test suite.
package bench

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

// Function is a deterministic benchmark objective over an integer
// action vector.
type Function struct {
	Name        string
	Description string
	Eval        func(action []int) float64
}

// Rosenbrock is the multidimensional Rosenbrock function. The global
// minimum 0 lies at (1, ..., 1).
func Rosenbrock(x []int) float64 {
	var sum float64
	for i := 0; i+1 < len(x); i++ {
		a := float64(x[i])
		b := float64(x[i+1])
		sum += 100*(b-a*a)*(b-a*a) + (1-a)*(1-a)
	}
	return sum
}

// Sphere is the sum of squares; minimum 0 at the origin.
func Sphere(x []int) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return sum
}

// Ackley is the Ackley function evaluated at integer points; minimum 0
// at the origin.
func Ackley(x []int) float64 {
	n := float64(len(x))
	var sumSq, sumCos float64
	for _, v := range x {
		f := float64(v)
		sumSq += f * f
		sumCos += math.Cos(2 * math.Pi * f)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sumSq/n)) - math.Exp(sumCos/n) + 20 + math.E
}

// NoisySphere is a sphere centered at (3, -2, 3, -2, ...) plus standard
// normal noise drawn from a per-call seed, so callers that fix the seed
// stream get reproducible noise.
func NoisySphere(x []int, seed uint64) float64 {
	rng := rand.New(rand.NewSource(seed))
	var sum float64
	for i, v := range x {
		center := 3.0
		if i%2 == 1 {
			center = -2.0
		}
		d := float64(v) - center
		sum += d * d
	}
	return sum + rng.NormFloat64()
}

var registry = map[string]Function{
	"rosenbrock": {
		Name:        "rosenbrock",
		Description: "multidimensional Rosenbrock; minimum 0 at (1, ..., 1)",
		Eval:        Rosenbrock,
	},
	"sphere": {
		Name:        "sphere",
		Description: "sum of squares; minimum 0 at the origin",
		Eval:        Sphere,
	},
	"ackley": {
		Name:        "ackley",
		Description: "Ackley function; minimum 0 at the origin",
		Eval:        Ackley,
	},
}

// Lookup returns the named deterministic benchmark.
func Lookup(name string) (Function, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names lists the registered deterministic benchmarks in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
