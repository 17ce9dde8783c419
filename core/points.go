package core

import (
	"github.com/huangsam/peloton/core/algo"
	"github.com/huangsam/peloton/schema"
)

// SprintPoints returns the stage points of each rider, aligned with RankRiders.
func (e *Engine) SprintPoints(stageID int) ([]int, error) {
	f, err := e.field(stageID)
	if err != nil {
		return nil, err
	}
	return algo.SprintPoints(f.stage.Type, len(f.ranked)), nil
}

// MountainPoints returns the climb points of each rider, aligned with RankRiders.
func (e *Engine) MountainPoints(stageID int) ([]int, error) {
	f, err := e.field(stageID)
	if err != nil {
		return nil, err
	}
	return e.mountainPoints(f)
}

func (e *Engine) mountainPoints(f stageField) ([]int, error) {
	types, err := e.checkpointTypes(f.stage)
	if err != nil {
		return nil, err
	}
	return algo.MountainPoints(types, len(f.ranked)), nil
}

// StagePoints combines sprint and mountain points of the stage in ranking order.
func (e *Engine) StagePoints(stageID int) (schema.StagePoints, error) {
	f, err := e.field(stageID)
	if err != nil {
		return schema.StagePoints{}, err
	}
	return e.stagePoints(f)
}

func (e *Engine) stagePoints(f stageField) (schema.StagePoints, error) {
	mountain, err := e.mountainPoints(f)
	if err != nil {
		return schema.StagePoints{}, err
	}
	sprint := algo.SprintPoints(f.stage.Type, len(f.ranked))
	entries := make([]schema.RiderPoints, len(f.ranked))
	for i, fin := range f.ranked {
		entries[i] = schema.RiderPoints{RiderID: fin.RiderID, Sprint: sprint[i], Mountain: mountain[i]}
	}
	return schema.StagePoints{StageID: f.stage.ID, Entries: entries}, nil
}

// RecordPoints computes the stage points and stores them as a new snapshot.
func (e *Engine) RecordPoints(stageID int) (schema.PointsSnapshot, error) {
	points, err := e.StagePoints(stageID)
	if err != nil {
		return schema.PointsSnapshot{}, err
	}
	snap := schema.PointsSnapshot{
		ID:         e.newID(),
		StageID:    stageID,
		RecordedAt: e.now().UTC(),
		Entries:    points.Entries,
	}
	if err := e.portal.RecordPoints(snap); err != nil {
		return schema.PointsSnapshot{}, err
	}
	return snap, nil
}
