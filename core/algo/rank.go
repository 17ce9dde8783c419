package algo

import "slices"

// RankFinishers sorts finishers by ascending elapsed time.
// Equal times keep their input order, which callers set to registration order.
// The input slice is not modified.
func RankFinishers(finishers []Finisher) []Finisher {
	ranked := slices.Clone(finishers)
	slices.SortStableFunc(ranked, compareElapsed)
	return ranked
}

// Limit returns the first 'limit' items. If limit is not positive or greater
// than the number of items, all items are returned.
func Limit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
