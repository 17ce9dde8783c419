package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/store"
	"github.com/huangsam/peloton/schema"
)

// demoCheckpoint is a checkpoint of a demo stage.
type demoCheckpoint struct {
	location float64
	kind     schema.CheckpointType
	gradient float64
	length   float64
}

// demoStage is a demo stage with the finishing gap of every demo rider.
type demoStage struct {
	name        string
	kind        schema.StageType
	length      float64
	day         int
	base        time.Duration
	checkpoints []demoCheckpoint
	gaps        []time.Duration // Indexed like demoRiders
}

var demoTeams = []string{"Azure Wheels", "Granite Climbers"}

var demoRiders = []struct {
	team int
	name string
	year int
}{
	{0, "Lena Vogt", 1996},
	{0, "Marco Ferri", 1999},
	{0, "Jonas Berg", 1993},
	{1, "Ana Duarte", 1997},
	{1, "Tom Keller", 2001},
	{1, "Ilse Maas", 1995},
}

var demoStages = []demoStage{
	{
		name: "Coastal Run", kind: schema.FlatStage, length: 182.5, day: 0, base: 4*time.Hour + 12*time.Minute,
		checkpoints: []demoCheckpoint{{location: 95, kind: schema.SprintCheckpoint}},
		gaps:        []time.Duration{0, 400 * time.Millisecond, 900 * time.Millisecond, 12 * time.Second, 12500 * time.Millisecond, 40 * time.Second},
	},
	{
		name: "Granite Pass", kind: schema.HighMountainStage, length: 165, day: 1, base: 4*time.Hour + 48*time.Minute,
		checkpoints: []demoCheckpoint{
			{location: 60, kind: schema.C2Climb, gradient: 5.4, length: 7.2},
			{location: 110, kind: schema.SprintCheckpoint},
			{location: 158, kind: schema.HCClimb, gradient: 8.1, length: 13.8},
		},
		gaps: []time.Duration{95 * time.Second, 0, 30 * time.Second, 200 * time.Second, 30500 * time.Millisecond, 400 * time.Second},
	},
	{
		name: "Harbour Chrono", kind: schema.TimeTrialStage, length: 32, day: 2, base: 38 * time.Minute,
		gaps: []time.Duration{20 * time.Second, 35 * time.Second, 0, 60 * time.Second, 45 * time.Second, 10400 * time.Millisecond},
	},
}

// BuildDemo fills s with a three-stage race with results for every rider.
// The first stage starts at noon UTC on day.
func BuildDemo(s *store.Store, day time.Time) (int, error) {
	raceID, err := s.CreateRace("Tour de Demo", "Three stages, two teams")
	if err != nil {
		return 0, err
	}
	teamIDs := make([]int, len(demoTeams))
	for i, name := range demoTeams {
		if teamIDs[i], err = s.CreateTeam(name, ""); err != nil {
			return 0, err
		}
	}
	riderIDs := make([]int, len(demoRiders))
	for i, r := range demoRiders {
		if riderIDs[i], err = s.CreateRider(teamIDs[r.team], r.name, r.year); err != nil {
			return 0, err
		}
	}

	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
	for _, ds := range demoStages {
		start := noon.AddDate(0, 0, ds.day)
		stageID, err := s.AddStage(raceID, ds.name, "", ds.length, start, ds.kind)
		if err != nil {
			return 0, err
		}
		for _, cp := range ds.checkpoints {
			if cp.kind == schema.SprintCheckpoint {
				_, err = s.AddSprint(stageID, cp.location)
			} else {
				gradient, length := cp.gradient, cp.length
				_, err = s.AddClimb(stageID, cp.location, cp.kind, &gradient, &length)
			}
			if err != nil {
				return 0, err
			}
		}
		if err := s.ConcludeStagePreparation(stageID); err != nil {
			return 0, err
		}
		for i, riderID := range riderIDs {
			elapsed := ds.base + ds.gaps[i]
			times := []time.Time{start}
			for _, cp := range ds.checkpoints {
				at := time.Duration(float64(elapsed) * cp.location / ds.length)
				times = append(times, start.Add(at))
			}
			times = append(times, start.Add(elapsed))
			if err := s.RegisterResult(stageID, riderID, times); err != nil {
				return 0, fmt.Errorf("demo result for %s: %w", demoRiders[i].name, err)
			}
		}
	}
	return raceID, nil
}

// ExecuteDemo builds the demo race into s and prints every stage and the three classifications.
func ExecuteDemo(ctx context.Context, cfg *contract.Config, s *store.Store) error {
	raceID, err := BuildDemo(s, time.Now())
	if err != nil {
		return err
	}
	race, err := s.Race(raceID)
	if err != nil {
		return err
	}
	for _, stageID := range race.StageIDs {
		if err := ExecuteStageRanking(ctx, cfg, s, stageID); err != nil {
			return err
		}
	}
	for _, c := range []schema.Classification{schema.GeneralClassification, schema.PointsClassification, schema.MountainClassification} {
		classCfg := cfg.Clone()
		classCfg.Classification = c
		if err := ExecuteRaceClassification(ctx, classCfg, s, raceID); err != nil {
			return err
		}
	}
	return nil
}
