package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// AddStage appends a stage to a race and returns its id. The stage starts in preparation.
// Stage names are unique within their race.
func (s *Store) AddStage(raceID int, name, description string, length float64, start time.Time, stageType schema.StageType) (int, error) {
	name, err := validateName(schema.StageKind, name)
	if err != nil {
		return 0, err
	}
	if length <= schema.MinStageLength {
		return 0, fmt.Errorf("%w: stage length %.2fkm must exceed %.0fkm", contract.ErrInvalidArgument, length, schema.MinStageLength)
	}
	if _, ok := schema.ValidStageTypes[stageType]; !ok {
		return 0, fmt.Errorf("%w: stage type %q", contract.ErrInvalidArgument, stageType)
	}
	race, ok := s.races[raceID]
	if !ok {
		return 0, notFound(schema.RaceKind, raceID)
	}
	for _, stageID := range race.StageIDs {
		if s.stages[stageID].Name == name {
			return 0, fmt.Errorf("%w: stage %q in race %d", contract.ErrNameConflict, name, raceID)
		}
	}

	id := s.ids.Next(schema.StageKind)
	s.stages[id] = &schema.Stage{
		ID:          id,
		RaceID:      raceID,
		Name:        name,
		Description: description,
		Length:      length,
		StartTime:   start,
		Type:        stageType,
		Status:      schema.PreparingStatus,
	}
	race.StageIDs = append(race.StageIDs, id)
	return id, nil
}

// Stage returns a copy of the stage.
func (s *Store) Stage(id int) (schema.Stage, error) {
	st, ok := s.stages[id]
	if !ok {
		return schema.Stage{}, notFound(schema.StageKind, id)
	}
	stage := *st
	stage.CheckpointIDs = slices.Clone(st.CheckpointIDs)
	return stage, nil
}

// StageLength returns the stage length in kilometres.
func (s *Store) StageLength(id int) (float64, error) {
	st, ok := s.stages[id]
	if !ok {
		return 0, notFound(schema.StageKind, id)
	}
	return st.Length, nil
}

// StageCheckpoints returns the checkpoint ids of the stage in creation order.
func (s *Store) StageCheckpoints(id int) ([]int, error) {
	st, ok := s.stages[id]
	if !ok {
		return nil, notFound(schema.StageKind, id)
	}
	return slices.Clone(st.CheckpointIDs), nil
}

// ConcludeStagePreparation freezes the checkpoints of a stage and opens it for results.
func (s *Store) ConcludeStagePreparation(id int) error {
	st, ok := s.stages[id]
	if !ok {
		return notFound(schema.StageKind, id)
	}
	if st.Status != schema.PreparingStatus {
		return fmt.Errorf("%w: stage %d is already %s", contract.ErrInvalidState, id, st.Status)
	}
	st.Status = schema.WaitingForResultsStatus
	return nil
}

// RemoveStage removes the stage with its checkpoints, results and recorded points.
func (s *Store) RemoveStage(id int) error {
	st, ok := s.stages[id]
	if !ok {
		return notFound(schema.StageKind, id)
	}
	race := s.races[st.RaceID]
	race.StageIDs = removeID(race.StageIDs, id)
	s.dropStages([]int{id})
	return nil
}

// dropStages deletes stages and everything that hangs off them.
// Dependent ids are collected first, then removed.
func (s *Store) dropStages(ids []int) {
	gone := make(map[int]struct{}, len(ids))
	var checkpointIDs, resultIDs []int
	for _, id := range ids {
		gone[id] = struct{}{}
		checkpointIDs = append(checkpointIDs, s.stages[id].CheckpointIDs...)
		resultIDs = append(resultIDs, s.stageResults[id]...)
	}

	for _, id := range checkpointIDs {
		delete(s.checkpoints, id)
	}
	s.dropResults(resultIDs)
	s.points = slices.DeleteFunc(s.points, func(p schema.PointsSnapshot) bool {
		_, ok := gone[p.StageID]
		return ok
	})
	for id := range gone {
		delete(s.stageResults, id)
		delete(s.stages, id)
	}
}
