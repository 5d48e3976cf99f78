package gmab

import (
	"math"
	"testing"
)

// mkPopulation builds a population from explicit single-locus genomes.
func mkPopulation(t *testing.T, genomes ...int) *population {
	t.Helper()
	pop := &population{
		index:  make(map[string]int),
		bounds: []Bound{{-1000, 1000}},
	}
	for _, g := range genomes {
		arm := NewArm([]int{g})
		pop.index[genomeKey(arm.action)] = len(pop.members)
		pop.members = append(pop.members, arm)
	}
	return pop
}

func TestUCBSelector_UnsampledFirst(t *testing.T) {
	pop := mkPopulation(t, 1, 2, 3)
	sel := newUCBSelector(pop.len())

	// Arm 0 has lifetime statistics but no round pulls; arms 1 and 2 are
	// fresh. All score +Inf, so the lowest index wins.
	pop.arm(0).Update(0.5)
	if got := sel.selectArm(pop, 1); got != 0 {
		t.Fatalf("selectArm = %d, want 0 (tie breaks to lower index)", got)
	}

	// After observing arm 0 this round, the remaining unsampled arms
	// take priority.
	sel.observe(0)
	if got := sel.selectArm(pop, 1); got != 1 {
		t.Fatalf("selectArm = %d, want 1", got)
	}
}

func TestUCBSelector_ExploitsLowMeanWhenMinimizing(t *testing.T) {
	pop := mkPopulation(t, 1, 2)
	sel := newUCBSelector(pop.len())

	// Both arms pulled once this round; arm 1 has the lower mean, so
	// with direction=+1 its score -mean is higher.
	pop.arm(0).Update(10)
	sel.observe(0)
	pop.arm(1).Update(2)
	sel.observe(1)

	if got := sel.selectArm(pop, 1); got != 1 {
		t.Fatalf("selectArm = %d, want 1 (lower mean under minimization)", got)
	}
}

func TestUCBSelector_ExplorationBonus(t *testing.T) {
	pop := mkPopulation(t, 1, 2)
	sel := newUCBSelector(pop.len())

	// Equal means; arm 1 pulled far less this round, so its exploration
	// bonus dominates.
	for i := 0; i < 9; i++ {
		pop.arm(0).Update(1)
		sel.observe(0)
	}
	pop.arm(1).Update(1)
	sel.observe(1)

	if got := sel.selectArm(pop, 1); got != 1 {
		t.Fatalf("selectArm = %d, want 1 (under-explored arm)", got)
	}
}

func TestUCBSelector_ScoreFormula(t *testing.T) {
	pop := mkPopulation(t, 1, 2)
	sel := newUCBSelector(pop.len())

	pop.arm(0).Update(3)
	sel.observe(0)
	pop.arm(0).Update(5)
	sel.observe(0)
	pop.arm(1).Update(1)
	sel.observe(1)

	// T = 3. Arm 0: -4 + sqrt2*sqrt(ln3/2). Arm 1: -1 + sqrt2*sqrt(ln3).
	score0 := -4 + math.Sqrt2*math.Sqrt(math.Log(3)/2)
	score1 := -1 + math.Sqrt2*math.Sqrt(math.Log(3))
	want := 0
	if score1 > score0 {
		want = 1
	}
	if got := sel.selectArm(pop, 1); got != want {
		t.Fatalf("selectArm = %d, want %d", got, want)
	}
}

func TestUCBSelector_ResetStartsNewWindow(t *testing.T) {
	pop := mkPopulation(t, 1, 2)
	sel := newUCBSelector(pop.len())

	pop.arm(0).Update(1)
	sel.observe(0)
	pop.arm(1).Update(2)
	sel.observe(1)

	sel.reset()
	// New window: every arm is round-unsampled again; index 0 wins the
	// +Inf tie even though both carry lifetime statistics.
	if got := sel.selectArm(pop, 1); got != 0 {
		t.Fatalf("selectArm after reset = %d, want 0", got)
	}
	if sel.roundTotal != 0 {
		t.Errorf("roundTotal = %d after reset", sel.roundTotal)
	}
}
