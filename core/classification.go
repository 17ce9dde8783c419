package core

import (
	"time"

	"github.com/huangsam/peloton/core/algo"
)

// raceTally is the accumulated state of a race across all its stages.
type raceTally struct {
	standings []algo.Standing
	sprint    algo.PointsTally
	mountain  algo.PointsTally
}

// order returns the general classification rider order.
func (t raceTally) order() []int {
	ids := make([]int, len(t.standings))
	for i, s := range t.standings {
		ids[i] = s.RiderID
	}
	return ids
}

// tally scans every stage of the race, keyed by rider id.
func (e *Engine) tally(raceID int) (raceTally, error) {
	race, err := e.portal.Race(raceID)
	if err != nil {
		return raceTally{}, err
	}
	times := algo.NewTimeTally()
	out := raceTally{sprint: algo.PointsTally{}, mountain: algo.PointsTally{}}
	for _, stageID := range race.StageIDs {
		f, err := e.field(stageID)
		if err != nil {
			return raceTally{}, err
		}
		adjusted := f.adjusted()
		for _, fin := range f.ranked {
			times.Add(fin.RiderID, adjusted[fin.RiderID])
		}
		mountain, err := e.mountainPoints(f)
		if err != nil {
			return raceTally{}, err
		}
		riders := f.riders()
		out.sprint.AddStage(riders, algo.SprintPoints(f.stage.Type, len(riders)))
		out.mountain.AddStage(riders, mountain)
	}
	out.standings = times.Standings()
	return out, nil
}

// GeneralClassification returns the riders of the race by ascending total adjusted time.
// Riders without any result in the race are left out.
func (e *Engine) GeneralClassification(raceID int) ([]int, error) {
	t, err := e.tally(raceID)
	if err != nil {
		return nil, err
	}
	return t.order(), nil
}

// GeneralClassificationTimes returns the total adjusted times aligned with GeneralClassification.
func (e *Engine) GeneralClassificationTimes(raceID int) ([]time.Duration, error) {
	t, err := e.tally(raceID)
	if err != nil {
		return nil, err
	}
	out := make([]time.Duration, len(t.standings))
	for i, s := range t.standings {
		out[i] = s.Total
	}
	return out, nil
}

// PointsClassification returns the summed sprint points aligned with GeneralClassification.
func (e *Engine) PointsClassification(raceID int) ([]int, error) {
	t, err := e.tally(raceID)
	if err != nil {
		return nil, err
	}
	return t.sprint.Align(t.order()), nil
}

// MountainPointsClassification returns the summed mountain points aligned with GeneralClassification.
func (e *Engine) MountainPointsClassification(raceID int) ([]int, error) {
	t, err := e.tally(raceID)
	if err != nil {
		return nil, err
	}
	return t.mountain.Align(t.order()), nil
}

// PointsClassificationRank returns rider ids by descending sprint points.
// Ties keep general classification order.
func (e *Engine) PointsClassificationRank(raceID int) ([]int, error) {
	t, err := e.tally(raceID)
	if err != nil {
		return nil, err
	}
	return t.sprint.Rank(t.order()), nil
}

// MountainClassificationRank returns rider ids by descending mountain points.
// Ties keep general classification order.
func (e *Engine) MountainClassificationRank(raceID int) ([]int, error) {
	t, err := e.tally(raceID)
	if err != nil {
		return nil, err
	}
	return t.mountain.Rank(t.order()), nil
}
