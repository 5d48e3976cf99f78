// Package params defines the decode layer between heterogeneous
// user-facing parameters and the flat integer action vectors the
// optimizer core operates on. Each parameter contributes one or more
// integer bounds to the search space and knows how to decode the
// corresponding slice of an action vector back into its external value.
package params

import (
	"errors"

	"github.com/evobandits/gmab"
)

// Param is one named dimension (or block of dimensions) of the decision
// space.
type Param interface {
	// Bounds returns the internal integer bounds this parameter
	// contributes to the flat search space, one per position.
	Bounds() []gmab.Bound

	// Size returns the number of positions the parameter occupies.
	Size() int

	// Decode maps the parameter's slice of an action vector to its
	// external value. len(actions) equals Size. Parameters of size 1
	// return a scalar; larger sizes return a slice.
	Decode(actions []int) any
}

var (
	errHighNotAboveLow = errors.New("high must be larger than low")
	errSizeNotPositive = errors.New("size must be positive")
	errStepNotPositive = errors.New("step must be positive")
	errStepTooLarge    = errors.New("step must not exceed the difference between low and high")
	errNoChoices       = errors.New("choices must not be empty")
)
