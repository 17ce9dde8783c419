package store

import (
	"fmt"
	"slices"

	"github.com/huangsam/peloton/schema"
)

// Snapshot copies the whole graph into its serialisable form.
func (s *Store) Snapshot() *schema.Snapshot {
	snap := &schema.Snapshot{
		Version:     schema.SnapshotVersion,
		Counters:    s.ids.Counters(),
		Races:       make([]schema.Race, 0, len(s.races)),
		Stages:      make([]schema.Stage, 0, len(s.stages)),
		Checkpoints: make([]schema.Checkpoint, 0, len(s.checkpoints)),
		Teams:       make([]schema.Team, 0, len(s.teams)),
		Riders:      make([]schema.Rider, 0, len(s.riders)),
		Results:     make([]schema.Result, 0, len(s.results)),
		Points:      s.PointsSnapshots(0),
	}
	for _, id := range sortedKeys(s.races) {
		r, _ := s.Race(id)
		snap.Races = append(snap.Races, r)
	}
	for _, id := range sortedKeys(s.stages) {
		st, _ := s.Stage(id)
		snap.Stages = append(snap.Stages, st)
	}
	for _, id := range sortedKeys(s.checkpoints) {
		snap.Checkpoints = append(snap.Checkpoints, *s.checkpoints[id])
	}
	for _, id := range sortedKeys(s.teams) {
		t, _ := s.Team(id)
		snap.Teams = append(snap.Teams, t)
	}
	for _, id := range sortedKeys(s.riders) {
		snap.Riders = append(snap.Riders, *s.riders[id])
	}
	for _, id := range sortedKeys(s.results) {
		snap.Results = append(snap.Results, copyResult(s.results[id]))
	}
	return snap
}

// Restore replaces the whole graph with snap. The snapshot is checked for broken
// references first; on error the store is left untouched.
func (s *Store) Restore(snap *schema.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if snap.Version != schema.SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d (want %d)", snap.Version, schema.SnapshotVersion)
	}

	next := &Store{ids: &IDGenerator{}}
	next.reset()
	if err := next.ids.restore(snap.Counters); err != nil {
		return err
	}
	if err := next.load(snap); err != nil {
		return err
	}

	s.ids.next = next.ids.next
	s.races, s.stages, s.checkpoints = next.races, next.stages, next.checkpoints
	s.teams, s.riders, s.results = next.teams, next.riders, next.results
	s.resultIndex, s.stageResults, s.points = next.resultIndex, next.stageResults, next.points
	return nil
}

// load fills an empty store from snap, checking every reference.
func (s *Store) load(snap *schema.Snapshot) error {
	checkID := func(kind string, id int) error {
		if id <= 0 || id >= s.ids.Peek(kind) {
			return fmt.Errorf("%s id %d outside issued range 1-%d", kind, id, s.ids.Peek(kind)-1)
		}
		return nil
	}

	for _, r := range snap.Races {
		if err := checkID(schema.RaceKind, r.ID); err != nil {
			return err
		}
		if _, dup := s.races[r.ID]; dup {
			return fmt.Errorf("duplicate race id %d", r.ID)
		}
		r.StageIDs = slices.Clone(r.StageIDs)
		s.races[r.ID] = &r
	}
	for _, st := range snap.Stages {
		if err := checkID(schema.StageKind, st.ID); err != nil {
			return err
		}
		if _, dup := s.stages[st.ID]; dup {
			return fmt.Errorf("duplicate stage id %d", st.ID)
		}
		race, ok := s.races[st.RaceID]
		if !ok || !slices.Contains(race.StageIDs, st.ID) {
			return fmt.Errorf("stage %d is not listed by race %d", st.ID, st.RaceID)
		}
		st.CheckpointIDs = slices.Clone(st.CheckpointIDs)
		s.stages[st.ID] = &st
	}
	for _, cp := range snap.Checkpoints {
		if err := checkID(schema.CheckpointKind, cp.ID); err != nil {
			return err
		}
		if _, dup := s.checkpoints[cp.ID]; dup {
			return fmt.Errorf("duplicate checkpoint id %d", cp.ID)
		}
		st, ok := s.stages[cp.StageID]
		if !ok || !slices.Contains(st.CheckpointIDs, cp.ID) {
			return fmt.Errorf("checkpoint %d is not listed by stage %d", cp.ID, cp.StageID)
		}
		s.checkpoints[cp.ID] = &cp
	}
	for _, t := range snap.Teams {
		if err := checkID(schema.TeamKind, t.ID); err != nil {
			return err
		}
		if _, dup := s.teams[t.ID]; dup {
			return fmt.Errorf("duplicate team id %d", t.ID)
		}
		t.RiderIDs = slices.Clone(t.RiderIDs)
		s.teams[t.ID] = &t
	}
	for _, r := range snap.Riders {
		if err := checkID(schema.RiderKind, r.ID); err != nil {
			return err
		}
		if _, dup := s.riders[r.ID]; dup {
			return fmt.Errorf("duplicate rider id %d", r.ID)
		}
		team, ok := s.teams[r.TeamID]
		if !ok || !slices.Contains(team.RiderIDs, r.ID) {
			return fmt.Errorf("rider %d is not listed by team %d", r.ID, r.TeamID)
		}
		s.riders[r.ID] = &r
	}

	// Every listed child must exist.
	for _, r := range s.races {
		for _, id := range r.StageIDs {
			st, ok := s.stages[id]
			if !ok {
				return fmt.Errorf("race %d lists missing stage %d", r.ID, id)
			}
			if st.RaceID != r.ID {
				return fmt.Errorf("race %d lists stage %d owned by race %d", r.ID, id, st.RaceID)
			}
		}
	}
	for _, st := range s.stages {
		for _, id := range st.CheckpointIDs {
			if _, ok := s.checkpoints[id]; !ok {
				return fmt.Errorf("stage %d lists missing checkpoint %d", st.ID, id)
			}
		}
	}
	for _, t := range s.teams {
		for _, id := range t.RiderIDs {
			if _, ok := s.riders[id]; !ok {
				return fmt.Errorf("team %d lists missing rider %d", t.ID, id)
			}
		}
	}

	results := slices.Clone(snap.Results)
	slices.SortStableFunc(results, func(a, b schema.Result) int { return a.ID - b.ID })
	for _, r := range results {
		if err := checkID(schema.ResultKind, r.ID); err != nil {
			return err
		}
		if _, dup := s.results[r.ID]; dup {
			return fmt.Errorf("duplicate result id %d", r.ID)
		}
		st, ok := s.stages[r.StageID]
		if !ok {
			return fmt.Errorf("result %d refers to missing stage %d", r.ID, r.StageID)
		}
		if _, ok := s.riders[r.RiderID]; !ok {
			return fmt.Errorf("result %d refers to missing rider %d", r.ID, r.RiderID)
		}
		if st.Status != schema.WaitingForResultsStatus {
			return fmt.Errorf("result %d is attached to stage %d which is still %s", r.ID, st.ID, st.Status)
		}
		if len(r.Times) != len(st.CheckpointIDs)+2 {
			return fmt.Errorf("result %d has %d timestamps, stage %d needs %d", r.ID, len(r.Times), st.ID, len(st.CheckpointIDs)+2)
		}
		key := resultKey{stageID: r.StageID, riderID: r.RiderID}
		if _, dup := s.resultIndex[key]; dup {
			return fmt.Errorf("rider %d has two results in stage %d", r.RiderID, r.StageID)
		}
		r.Times = slices.Clone(r.Times)
		s.results[r.ID] = &r
		s.resultIndex[key] = r.ID
		s.stageResults[r.StageID] = append(s.stageResults[r.StageID], r.ID)
	}

	for _, p := range snap.Points {
		if _, ok := s.stages[p.StageID]; !ok {
			return fmt.Errorf("points snapshot %s refers to missing stage %d", p.ID, p.StageID)
		}
		p.Entries = slices.Clone(p.Entries)
		s.points = append(s.points, p)
	}
	return nil
}
