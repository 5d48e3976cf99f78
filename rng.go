package gmab

import (
	"time"

	"golang.org/x/exp/rand"
)

// newRNG returns the engine's random source. A non-nil seed fixes the
// stream; given the same seed and the same sequence of draws the source
// produces the same values. A nil seed falls back to wall-clock entropy,
// taken once at construction.
func newRNG(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
}
