package store

import (
	"fmt"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// AddSprint adds an intermediate sprint to a stage in preparation.
func (s *Store) AddSprint(stageID int, location float64) (int, error) {
	return s.addCheckpoint(stageID, location, schema.SprintCheckpoint, nil, nil)
}

// AddClimb adds a categorised climb to a stage in preparation.
// averageGradient and length are optional.
func (s *Store) AddClimb(stageID int, location float64, category schema.CheckpointType, averageGradient, length *float64) (int, error) {
	if !category.IsClimb() {
		return 0, fmt.Errorf("%w: %q is not a climb category", contract.ErrInvalidArgument, category)
	}
	if err := optionalNonNegative("climb length", length); err != nil {
		return 0, err
	}
	return s.addCheckpoint(stageID, location, category, averageGradient, length)
}

func (s *Store) addCheckpoint(stageID int, location float64, kind schema.CheckpointType, averageGradient, length *float64) (int, error) {
	st, ok := s.stages[stageID]
	if !ok {
		return 0, notFound(schema.StageKind, stageID)
	}
	if st.Type == schema.TimeTrialStage {
		return 0, fmt.Errorf("%w: time-trial stage %d cannot hold checkpoints", contract.ErrInvalidStageType, stageID)
	}
	if err := validateLocation(st, location); err != nil {
		return 0, err
	}
	if st.Status != schema.PreparingStatus {
		return 0, fmt.Errorf("%w: stage %d is %s", contract.ErrInvalidState, stageID, st.Status)
	}

	id := s.ids.Next(schema.CheckpointKind)
	cp := &schema.Checkpoint{ID: id, StageID: stageID, Location: location, Type: kind}
	if averageGradient != nil {
		v := *averageGradient
		cp.AverageGradient = &v
	}
	if length != nil {
		v := *length
		cp.Length = &v
	}
	s.checkpoints[id] = cp
	st.CheckpointIDs = append(st.CheckpointIDs, id)
	return id, nil
}

// Checkpoint returns a copy of the checkpoint.
func (s *Store) Checkpoint(id int) (schema.Checkpoint, error) {
	cp, ok := s.checkpoints[id]
	if !ok {
		return schema.Checkpoint{}, notFound(schema.CheckpointKind, id)
	}
	return *cp, nil
}

// RemoveCheckpoint removes a checkpoint from a stage in preparation.
func (s *Store) RemoveCheckpoint(id int) error {
	cp, ok := s.checkpoints[id]
	if !ok {
		return notFound(schema.CheckpointKind, id)
	}
	st := s.stages[cp.StageID]
	if st.Status != schema.PreparingStatus {
		return fmt.Errorf("%w: stage %d is %s", contract.ErrInvalidState, st.ID, st.Status)
	}
	st.CheckpointIDs = removeID(st.CheckpointIDs, id)
	delete(s.checkpoints, id)
	return nil
}
