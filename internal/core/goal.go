package core

import (
	"fmt"
	"math"
)

// IncreaseProgress adds an unsigned amount to the goal's progress.
// Progress is clamped to the target; amount above the target is discarded
// rather than rejected. When the clamped value lands within Tolerance of
// the target the goal transitions to completed; a previously completed
// goal that falls short of the target reverts to active.
func (g *Goal) IncreaseProgress(amount float64) {
	target := Round(g.TargetValue)
	next := Add(g.CurrentValue, amount)

	if target <= 0 {
		g.CurrentValue = math.Max(next, 0)
		if g.Status == GoalCompleted && g.CurrentValue+Tolerance < target {
			g.Status = GoalActive
		}
		return
	}

	if next > target {
		next = target
	}
	if AmountsEqual(next, target) {
		g.CurrentValue = target
		g.Status = GoalCompleted
		return
	}
	g.CurrentValue = next
	if g.Status == GoalCompleted && next+Tolerance < target {
		g.Status = GoalActive
	}
}

// DecreaseProgress subtracts an unsigned amount from the goal's progress,
// failing with ErrNegativeGoalProgress if the result would drop below
// zero. Used when an expense draws from a goal.
func (g *Goal) DecreaseProgress(amount float64) error {
	next := Round(Round(g.CurrentValue) - Round(amount))
	if next < 0 {
		return fmt.Errorf("%w: %.2f - %.2f", ErrNegativeGoalProgress, g.CurrentValue, amount)
	}
	g.CurrentValue = next
	if g.Status == GoalCompleted && next < Round(g.TargetValue) {
		g.Status = GoalActive
	}
	return nil
}

// RevertProgress backs an amount out of the goal's progress, clamping at
// zero instead of failing. Reversal paths use this: a clamped increase can
// leave recorded progress smaller than the sum of the bound incomes, so a
// strict decrease would wrongly make such transactions unremovable.
func (g *Goal) RevertProgress(amount float64) {
	next := Round(Round(g.CurrentValue) - Round(amount))
	if next < 0 {
		next = 0
	}
	g.CurrentValue = next
	if g.Status == GoalCompleted && next < Round(g.TargetValue) {
		g.Status = GoalActive
	}
}
