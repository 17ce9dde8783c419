package algo

import (
	"slices"
	"time"
)

// Standing is a rider's accumulated time in a race.
type Standing struct {
	RiderID int
	Total   time.Duration
}

// TimeTally accumulates adjusted elapsed times per rider across the stages of a race.
// Riders are remembered in order of first appearance.
type TimeTally struct {
	order  []int
	totals map[int]time.Duration
}

// NewTimeTally returns an empty tally.
func NewTimeTally() *TimeTally {
	return &TimeTally{totals: make(map[int]time.Duration)}
}

// Add adds a stage time to the rider's total.
func (t *TimeTally) Add(riderID int, d time.Duration) {
	if _, seen := t.totals[riderID]; !seen {
		t.order = append(t.order, riderID)
	}
	t.totals[riderID] += d
}

// Standings returns the riders by ascending total. Ties keep first-appearance order.
func (t *TimeTally) Standings() []Standing {
	standings := make([]Standing, 0, len(t.order))
	for _, id := range t.order {
		standings = append(standings, Standing{RiderID: id, Total: t.totals[id]})
	}
	slices.SortStableFunc(standings, func(a, b Standing) int {
		switch {
		case a.Total < b.Total:
			return -1
		case a.Total > b.Total:
			return 1
		default:
			return 0
		}
	})
	return standings
}

// PointsTally accumulates points per rider.
type PointsTally map[int]int

// AddStage adds a stage's points, index-aligned with riders.
func (p PointsTally) AddStage(riders, points []int) {
	for i, id := range riders {
		if i < len(points) {
			p[id] += points[i]
		}
	}
}

// Align returns the totals in the given rider order. Riders without points score zero.
func (p PointsTally) Align(order []int) []int {
	out := make([]int, len(order))
	for i, id := range order {
		out[i] = p[id]
	}
	return out
}

// Rank orders riders by descending totals. Ties keep the given order.
func (p PointsTally) Rank(order []int) []int {
	ranked := slices.Clone(order)
	slices.SortStableFunc(ranked, func(a, b int) int { return p[b] - p[a] })
	return ranked
}
