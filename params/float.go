package params

import (
	"math"

	"github.com/evobandits/gmab"
)

// Float is a real-valued parameter sampled on a grid of Steps+1 points
// between Low and High, optionally log-spaced. Internally the optimizer
// sees the grid index on [0, Steps].
type Float struct {
	low   float64
	high  float64
	size  int
	steps int
	log   bool
}

// DefaultFloatSteps is the grid resolution used when the caller passes
// steps <= 0 to NewFloat.
const DefaultFloatSteps = 100

// NewFloat creates a float parameter. Log-spacing shifts the range by
// 1 - low before the transform so the domain stays positive.
func NewFloat(low, high float64, size, steps int, log bool) (*Float, error) {
	if high <= low {
		return nil, errHighNotAboveLow
	}
	if size < 1 {
		return nil, errSizeNotPositive
	}
	if steps <= 0 {
		steps = DefaultFloatSteps
	}
	return &Float{low: low, high: high, size: size, steps: steps, log: log}, nil
}

func (p *Float) Size() int { return p.size }

func (p *Float) Bounds() []gmab.Bound {
	out := make([]gmab.Bound, p.size)
	for i := range out {
		out[i] = gmab.Bound{Low: 0, High: p.steps}
	}
	return out
}

// offset keeps the log transform's domain positive.
func (p *Float) offset() float64 { return 1 - p.low }

func (p *Float) lowTrans() float64 {
	if p.log {
		return math.Log(p.low + p.offset())
	}
	return p.low
}

func (p *Float) stepWidth() float64 {
	highTrans := p.high
	if p.log {
		highTrans = math.Log(p.high + p.offset())
	}
	return (highTrans - p.lowTrans()) / float64(p.steps)
}

func (p *Float) Decode(actions []int) any {
	lowTrans, step := p.lowTrans(), p.stepWidth()
	values := make([]float64, len(actions))
	for i, x := range actions {
		v := lowTrans + step*float64(x)
		if p.log {
			v = math.Exp(v) - p.offset()
		}
		values[i] = v
	}
	if p.size == 1 {
		return values[0]
	}
	return values
}
