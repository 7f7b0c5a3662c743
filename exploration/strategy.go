package exploration

import "github.com/skysweep/frontier/grid"

// A GoalStrategy picks which frontier cell to pursue next. The frontier
// slice is in detection order and may be empty; ok is false when no goal
// can be chosen. Swapping in a cost-based strategy (nearest by travel
// distance, information gain) only requires implementing this interface.
type GoalStrategy interface {
	ChooseGoal(current grid.Index, frontier []grid.Index) (goal grid.Index, ok bool)
}

// FirstFrontier takes the first frontier cell in detection order. It is the
// default policy: deliberately naive, kept so exploration behavior is a pure
// function of the fixed neighbor ordering.
type FirstFrontier struct{}

// ChooseGoal returns the first element of frontier, if any.
func (FirstFrontier) ChooseGoal(_ grid.Index, frontier []grid.Index) (grid.Index, bool) {
	if len(frontier) == 0 {
		return grid.Index{}, false
	}
	return frontier[0], true
}

// NearestFrontier picks the frontier cell closest to the current index by
// Euclidean distance, breaking ties in detection order.
type NearestFrontier struct{}

// ChooseGoal returns the closest element of frontier, if any.
func (NearestFrontier) ChooseGoal(current grid.Index, frontier []grid.Index) (grid.Index, bool) {
	if len(frontier) == 0 {
		return grid.Index{}, false
	}
	best := frontier[0]
	bestDist := distSq(current, best)
	for _, candidate := range frontier[1:] {
		if d := distSq(current, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best, true
}

func distSq(a, b grid.Index) int {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	return dr*dr + dc*dc
}
