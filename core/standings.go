package core

import (
	"fmt"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// identity returns the display names of a rider and their team.
func (e *Engine) identity(riderID int) (rider, team string, err error) {
	r, err := e.portal.Rider(riderID)
	if err != nil {
		return "", "", err
	}
	t, err := e.portal.Team(r.TeamID)
	if err != nil {
		return "", "", err
	}
	return r.Name, t.Name, nil
}

// StageStandings returns the full ranking table of a stage.
func (e *Engine) StageStandings(stageID int) ([]schema.StageStanding, error) {
	f, err := e.field(stageID)
	if err != nil {
		return nil, err
	}
	points, err := e.stagePoints(f)
	if err != nil {
		return nil, err
	}
	adjusted := f.adjusted()
	rows := make([]schema.StageStanding, 0, len(f.ranked))
	for i, fin := range f.ranked {
		rider, team, err := e.identity(fin.RiderID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, schema.StageStanding{
			Rank:     i + 1,
			RiderID:  fin.RiderID,
			Rider:    rider,
			Team:     team,
			Elapsed:  fin.Elapsed,
			Adjusted: adjusted[fin.RiderID],
			Sprint:   points.Entries[i].Sprint,
			Mountain: points.Entries[i].Mountain,
		})
	}
	return rows, nil
}

// RaceStandings returns the race table ordered by the given classification.
// Gaps are always measured against the general classification leader.
func (e *Engine) RaceStandings(raceID int, c schema.Classification) ([]schema.RaceStanding, error) {
	t, err := e.tally(raceID)
	if err != nil {
		return nil, err
	}
	gc := t.order()

	var order []int
	switch c {
	case schema.GeneralClassification, "":
		order = gc
	case schema.PointsClassification:
		order = t.sprint.Rank(gc)
	case schema.MountainClassification:
		order = t.mountain.Rank(gc)
	default:
		return nil, fmt.Errorf("%w: unknown classification %q", contract.ErrInvalidArgument, c)
	}

	gcRank := make(map[int]int, len(t.standings))
	for i, s := range t.standings {
		gcRank[s.RiderID] = i
	}
	rows := make([]schema.RaceStanding, 0, len(order))
	for i, id := range order {
		rider, team, err := e.identity(id)
		if err != nil {
			return nil, err
		}
		s := t.standings[gcRank[id]]
		rows = append(rows, schema.RaceStanding{
			Rank:     i + 1,
			GCRank:   gcRank[id] + 1,
			RiderID:  id,
			Rider:    rider,
			Team:     team,
			Total:    s.Total,
			Gap:      s.Total - t.standings[0].Total,
			Points:   t.sprint[id],
			Mountain: t.mountain[id],
		})
	}
	return rows, nil
}
