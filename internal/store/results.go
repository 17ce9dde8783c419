package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// RegisterResult stores the checkpoint timestamps of a rider in a stage.
//
// times holds the start, one entry per checkpoint, then the finish. The stage must be
// waiting for results and the rider must not already have a result in it.
// Nothing is stored when an error is returned.
func (s *Store) RegisterResult(stageID, riderID int, times []time.Time) error {
	st, ok := s.stages[stageID]
	if !ok {
		return notFound(schema.StageKind, stageID)
	}
	if _, ok := s.riders[riderID]; !ok {
		return notFound(schema.RiderKind, riderID)
	}
	if st.Status != schema.WaitingForResultsStatus {
		return fmt.Errorf("%w: stage %d is %s", contract.ErrInvalidState, stageID, st.Status)
	}
	if want := len(st.CheckpointIDs) + 2; len(times) != want {
		return fmt.Errorf("%w: stage %d needs %d timestamps, got %d", contract.ErrChecklistMismatch, stageID, want, len(times))
	}
	key := resultKey{stageID: stageID, riderID: riderID}
	if _, ok := s.resultIndex[key]; ok {
		return fmt.Errorf("%w: rider %d already has a result in stage %d", contract.ErrDuplicateResult, riderID, stageID)
	}
	if err := validateTimes(times); err != nil {
		return err
	}

	id := s.ids.Next(schema.ResultKind)
	s.results[id] = &schema.Result{ID: id, StageID: stageID, RiderID: riderID, Times: slices.Clone(times)}
	s.resultIndex[key] = id
	s.stageResults[stageID] = append(s.stageResults[stageID], id)
	return nil
}

// Result returns a copy of the rider's result in the stage, or false when there is none.
func (s *Store) Result(stageID, riderID int) (schema.Result, bool, error) {
	if _, ok := s.stages[stageID]; !ok {
		return schema.Result{}, false, notFound(schema.StageKind, stageID)
	}
	if _, ok := s.riders[riderID]; !ok {
		return schema.Result{}, false, notFound(schema.RiderKind, riderID)
	}
	id, ok := s.resultIndex[resultKey{stageID: stageID, riderID: riderID}]
	if !ok {
		return schema.Result{}, false, nil
	}
	return copyResult(s.results[id]), true, nil
}

// StageResults returns copies of the stage's results in registration order.
func (s *Store) StageResults(stageID int) ([]schema.Result, error) {
	if _, ok := s.stages[stageID]; !ok {
		return nil, notFound(schema.StageKind, stageID)
	}
	ids := s.stageResults[stageID]
	results := make([]schema.Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, copyResult(s.results[id]))
	}
	return results, nil
}

// DeleteResult removes the rider's result in the stage. It is a no-op when there is none.
func (s *Store) DeleteResult(stageID, riderID int) error {
	if _, ok := s.stages[stageID]; !ok {
		return notFound(schema.StageKind, stageID)
	}
	if _, ok := s.riders[riderID]; !ok {
		return notFound(schema.RiderKind, riderID)
	}
	if id, ok := s.resultIndex[resultKey{stageID: stageID, riderID: riderID}]; ok {
		s.dropResults([]int{id})
	}
	return nil
}

// RecordPoints appends an explicitly computed points snapshot.
func (s *Store) RecordPoints(snapshot schema.PointsSnapshot) error {
	if _, ok := s.stages[snapshot.StageID]; !ok {
		return notFound(schema.StageKind, snapshot.StageID)
	}
	if snapshot.ID == "" {
		return fmt.Errorf("%w: points snapshot needs an id", contract.ErrInvalidArgument)
	}
	snapshot.Entries = slices.Clone(snapshot.Entries)
	s.points = append(s.points, snapshot)
	return nil
}

// PointsSnapshots returns the recorded points of a stage, oldest first.
// A stageID of zero returns the snapshots of every stage.
func (s *Store) PointsSnapshots(stageID int) []schema.PointsSnapshot {
	var out []schema.PointsSnapshot
	for _, p := range s.points {
		if stageID == 0 || p.StageID == stageID {
			p.Entries = slices.Clone(p.Entries)
			out = append(out, p)
		}
	}
	return out
}

// dropResults deletes results and their index entries.
func (s *Store) dropResults(ids []int) {
	for _, id := range ids {
		r, ok := s.results[id]
		if !ok {
			continue
		}
		delete(s.resultIndex, resultKey{stageID: r.StageID, riderID: r.RiderID})
		s.stageResults[r.StageID] = removeID(s.stageResults[r.StageID], id)
		delete(s.results, id)
	}
}

func copyResult(r *schema.Result) schema.Result {
	out := *r
	out.Times = slices.Clone(r.Times)
	return out
}
