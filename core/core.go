// Package core has the results and classification engine: elapsed times, stage
// rankings, points and race classifications.
package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/peloton/core/algo"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// Engine computes rankings and classifications over a portal.
// Every query is read-only; RecordPoints is the only operation that writes.
type Engine struct {
	portal contract.Portal
	now    func() time.Time
	newID  func() string
}

// NewEngine returns an engine reading from and recording into p.
func NewEngine(p contract.Portal) *Engine {
	return &Engine{portal: p, now: time.Now, newID: uuid.NewString}
}

// stageField bundles what the engine needs about one stage.
type stageField struct {
	stage  schema.Stage
	ranked []algo.Finisher
}

// field loads a stage and ranks its finishers. A preparing stage has no finishers.
func (e *Engine) field(stageID int) (stageField, error) {
	stage, err := e.portal.Stage(stageID)
	if err != nil {
		return stageField{}, err
	}
	if stage.Status != schema.WaitingForResultsStatus {
		return stageField{stage: stage}, nil
	}
	results, err := e.portal.StageResults(stageID)
	if err != nil {
		return stageField{}, err
	}
	finishers := make([]algo.Finisher, 0, len(results))
	for _, r := range results {
		finishers = append(finishers, algo.NewFinisher(r.RiderID, r.Start(), r.Finish()))
	}
	return stageField{stage: stage, ranked: algo.RankFinishers(finishers)}, nil
}

// riders returns the rider ids of the field in ranking order.
func (f stageField) riders() []int {
	ids := make([]int, len(f.ranked))
	for i, fin := range f.ranked {
		ids[i] = fin.RiderID
	}
	return ids
}

// adjusted returns the adjusted elapsed time of every finisher.
// Time trials are ridden alone so nobody is bunched.
func (f stageField) adjusted() map[int]time.Duration {
	if f.stage.Type == schema.TimeTrialStage {
		out := make(map[int]time.Duration, len(f.ranked))
		for _, fin := range f.ranked {
			out[fin.RiderID] = fin.Elapsed
		}
		return out
	}
	return algo.AdjustElapsed(f.ranked)
}

// checkpointTypes returns the types of the stage checkpoints in order.
func (e *Engine) checkpointTypes(stage schema.Stage) ([]schema.CheckpointType, error) {
	types := make([]schema.CheckpointType, 0, len(stage.CheckpointIDs))
	for _, id := range stage.CheckpointIDs {
		cp, err := e.portal.Checkpoint(id)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", stage.ID, err)
		}
		types = append(types, cp.Type)
	}
	return types, nil
}
