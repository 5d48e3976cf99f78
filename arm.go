package gmab

import (
	"math"
	"strconv"
)

// ─── Arm ────────────────────────────────────────────────────────────────────

// Arm is a single candidate solution: an integer action vector together
// with its running reward statistics. The action vector never changes
// after creation; statistics are append-only.
type Arm struct {
	action    []int
	sumReward float64
	numPulls  int
}

// NewArm creates an unsampled arm owning a copy of action.
func NewArm(action []int) *Arm {
	a := make([]int, len(action))
	copy(a, action)
	return &Arm{action: a}
}

// Update records one observed reward. NaN rewards are rejected; the
// engine screens non-finite rewards before calling Update, so hitting
// this is a programming error upstream.
func (a *Arm) Update(reward float64) error {
	if math.IsNaN(reward) {
		return ErrNaNReward
	}
	a.numPulls++
	a.sumReward += reward
	return nil
}

// MeanReward returns the empirical mean reward, or 0.0 for an arm that
// has never been pulled. Unsampled arms rank last; the zero here is a
// placeholder, not a meaningful estimate.
func (a *Arm) MeanReward() float64 {
	if a.numPulls == 0 {
		return 0.0
	}
	return a.sumReward / float64(a.numPulls)
}

// NumPulls returns how many times the arm has been evaluated.
func (a *Arm) NumPulls() int { return a.numPulls }

// Action returns a copy of the arm's action vector.
func (a *Arm) Action() []int {
	out := make([]int, len(a.action))
	copy(out, a.action)
	return out
}

// genomeKey encodes an action vector as a map key for O(1) uniqueness
// checks. The encoding is injective: values are comma-separated decimals.
func genomeKey(action []int) string {
	b := make([]byte, 0, 4*len(action))
	for i, v := range action {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(b)
}
