package params

import "github.com/evobandits/gmab"

// Int is an integer parameter on [Low, High], optionally quantized to a
// step size and optionally repeated Size times (a block of integers
// sharing one bound).
type Int struct {
	low  int
	high int
	size int
	step int
}

// NewInt creates an integer parameter. With step > 1 the internal bound
// is compressed to [0, ceil((high-low)/step)] and decoding expands actions back
// to low + step*x, capped at high.
func NewInt(low, high, size, step int) (*Int, error) {
	if high <= low {
		return nil, errHighNotAboveLow
	}
	if size < 1 {
		return nil, errSizeNotPositive
	}
	if step < 1 {
		return nil, errStepNotPositive
	}
	if step > 1 && (high-low)/step < 1 {
		return nil, errStepTooLarge
	}
	return &Int{low: low, high: high, size: size, step: step}, nil
}

func (p *Int) Size() int { return p.size }

func (p *Int) Bounds() []gmab.Bound {
	b := gmab.Bound{Low: p.low, High: p.high}
	if p.step > 1 {
		nSteps := (p.high - p.low) / p.step
		if (p.high-p.low)%p.step != 0 {
			nSteps++
		}
		b = gmab.Bound{Low: 0, High: nSteps}
	}
	out := make([]gmab.Bound, p.size)
	for i := range out {
		out[i] = b
	}
	return out
}

func (p *Int) Decode(actions []int) any {
	values := make([]int, len(actions))
	for i, x := range actions {
		v := x
		if p.step > 1 {
			v = p.low + x*p.step
			if v > p.high {
				v = p.high
			}
		}
		values[i] = v
	}
	if p.size == 1 {
		return values[0]
	}
	return values
}
