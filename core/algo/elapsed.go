// Package algo holds the pure timing, ranking and scoring algorithms of the engine.
// Nothing here touches the store; callers hand in plain values.
package algo

import (
	"slices"
	"time"
)

// BunchGap is the largest gap that still keeps two riders in the same group.
// Gaps must be strictly smaller than this to chain.
const BunchGap = time.Second

// Finisher is a rider's start and finish in a stage.
type Finisher struct {
	RiderID int
	Start   time.Time
	Finish  time.Time
	Elapsed time.Duration // Finish minus Start
}

// NewFinisher builds a finisher and its raw elapsed time.
func NewFinisher(riderID int, start, finish time.Time) Finisher {
	return Finisher{RiderID: riderID, Start: start, Finish: finish, Elapsed: finish.Sub(start)}
}

// AdjustElapsed applies the peloton rule to the finishers of a stage.
//
// Riders are ordered by the moment they cross the finish line, and every rider
// less than BunchGap behind the previous one joins that rider's group. Groups
// chain transitively, so a long line of close finishers all share the finish of
// the group's first rider. Each rider's adjusted time runs from their own start
// to that shared finish.
func AdjustElapsed(finishers []Finisher) map[int]time.Duration {
	adjusted := make(map[int]time.Duration, len(finishers))
	if len(finishers) == 0 {
		return adjusted
	}
	ordered := slices.Clone(finishers)
	slices.SortStableFunc(ordered, func(a, b Finisher) int { return a.Finish.Compare(b.Finish) })

	groupFinish := ordered[0].Finish
	for i, f := range ordered {
		if i > 0 && f.Finish.Sub(ordered[i-1].Finish) >= BunchGap {
			groupFinish = f.Finish
		}
		adjusted[f.RiderID] = groupFinish.Sub(f.Start)
	}
	return adjusted
}

func compareElapsed(a, b Finisher) int {
	switch {
	case a.Elapsed < b.Elapsed:
		return -1
	case a.Elapsed > b.Elapsed:
		return 1
	default:
		return 0
	}
}
