package engine

// DefaultMaxActionsPerTick bounds how many actions one mutation phase applies.
const DefaultMaxActionsPerTick = 256

// actionBudget counts actions applied in the current mutation phase.
//
// A burst of dispatched actions must not stall a tick indefinitely. Once the
// budget is spent the rest of the queue stays queued and runs first in the
// next tick, so arrival order is preserved across the split.
type actionBudget struct {
	limit int // <= 0 means unlimited
	used  int
}

func newActionBudget(limit int) *actionBudget {
	return &actionBudget{limit: limit}
}

// Take consumes one unit, reporting false once the budget is spent.
func (b *actionBudget) Take() bool {
	if b.limit > 0 && b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

// Used returns how many units were taken.
func (b *actionBudget) Used() int {
	return b.used
}
