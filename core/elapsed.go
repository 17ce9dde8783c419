package core

import "time"

// RawElapsed returns the finish minus start time of the rider in the stage.
// The boolean is false when the rider has no result there.
func (e *Engine) RawElapsed(stageID, riderID int) (time.Duration, bool, error) {
	r, ok, err := e.portal.Result(stageID, riderID)
	if err != nil || !ok {
		return 0, false, err
	}
	return r.Elapsed(), true, nil
}

// AdjustedElapsed returns the elapsed time of the rider after applying the peloton rule.
// The boolean is false when the rider has no result in the stage.
func (e *Engine) AdjustedElapsed(stageID, riderID int) (time.Duration, bool, error) {
	if _, ok, err := e.portal.Result(stageID, riderID); err != nil || !ok {
		return 0, false, err
	}
	f, err := e.field(stageID)
	if err != nil {
		return 0, false, err
	}
	d, ok := f.adjusted()[riderID]
	return d, ok, nil
}

// RankedAdjustedElapsed returns adjusted elapsed times aligned with RankRiders.
func (e *Engine) RankedAdjustedElapsed(stageID int) ([]time.Duration, error) {
	f, err := e.field(stageID)
	if err != nil {
		return nil, err
	}
	adjusted := f.adjusted()
	out := make([]time.Duration, len(f.ranked))
	for i, fin := range f.ranked {
		out[i] = adjusted[fin.RiderID]
	}
	return out, nil
}

// RiderResults returns the registered timestamps of the rider in the stage,
// or an empty slice when there is no result.
func (e *Engine) RiderResults(stageID, riderID int) ([]time.Time, error) {
	r, ok, err := e.portal.Result(stageID, riderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []time.Time{}, nil
	}
	return r.Times, nil
}
