package params

import "github.com/evobandits/gmab"

// Categorical is a choice among a fixed list of values. Internally the
// optimizer sees the choice index on [0, len(choices)-1].
type Categorical struct {
	choices []any
}

// NewCategorical creates a categorical parameter over the given choices.
func NewCategorical(choices []any) (*Categorical, error) {
	if len(choices) == 0 {
		return nil, errNoChoices
	}
	c := make([]any, len(choices))
	copy(c, choices)
	return &Categorical{choices: c}, nil
}

func (p *Categorical) Size() int { return 1 }

func (p *Categorical) Bounds() []gmab.Bound {
	return []gmab.Bound{{Low: 0, High: len(p.choices) - 1}}
}

func (p *Categorical) Decode(actions []int) any {
	return p.choices[actions[0]]
}
