package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/peloton/core/algo"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/internal/outwriter"
	"github.com/huangsam/peloton/internal/parquet"
	"github.com/huangsam/peloton/schema"
)

// ExecutorFunc defines the function signature for executing a ranking over an id.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, p contract.Portal, id int) error

// ExecuteStageRanking ranks a stage and prints the standings.
func ExecuteStageRanking(ctx context.Context, cfg *contract.Config, p contract.Portal, stageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	stage, err := p.Stage(stageID)
	if err != nil {
		return err
	}
	rows, err := NewEngine(p).StageStandings(stageID)
	if err != nil {
		return err
	}
	rows = algo.Limit(rows, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteStage(stage, rows, cfg, time.Since(start))
}

// ExecuteRaceClassification classifies a race and prints the standings
// in the order of cfg.Classification.
func ExecuteRaceClassification(ctx context.Context, cfg *contract.Config, p contract.Portal, raceID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	race, err := p.Race(raceID)
	if err != nil {
		return err
	}
	rows, err := NewEngine(p).RaceStandings(raceID, cfg.Classification)
	if err != nil {
		return err
	}
	rows = algo.Limit(rows, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteRace(race, rows, cfg, time.Since(start))
}

// ExecuteRaceList prints a summary of every race in the portal.
func ExecuteRaceList(ctx context.Context, cfg *contract.Config, p contract.Portal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ids := p.RaceIDs()
	races := make([]schema.RaceDetails, 0, len(ids))
	for _, id := range ids {
		d, err := p.RaceDetails(id)
		if err != nil {
			return err
		}
		races = append(races, d)
	}
	return outwriter.NewOutWriter().WriteRaces(races, cfg)
}

// ExportPaths returns the parquet files written for a prefix.
func ExportPaths(prefix string) (stageResults, raceClassifications string) {
	return prefix + ".stage_results.parquet", prefix + ".race_classifications.parquet"
}

// ExecuteExport writes every concluded stage and every race classification to parquet files.
func ExecuteExport(ctx context.Context, p contract.Portal, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: export needs an output prefix", contract.ErrInvalidArgument)
	}
	if dir := filepath.Dir(prefix); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	engine := NewEngine(p)

	var stageRows []parquet.StageResultRow
	var raceRows []parquet.RaceClassificationRow
	for _, raceID := range p.RaceIDs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		race, err := p.Race(raceID)
		if err != nil {
			return err
		}
		for _, stageID := range race.StageIDs {
			stage, err := p.Stage(stageID)
			if err != nil {
				return err
			}
			if stage.Status != schema.WaitingForResultsStatus {
				continue
			}
			standings, err := engine.StageStandings(stageID)
			if err != nil {
				return err
			}
			stageRows = append(stageRows, parquet.ConvertStageStandings(stage, standings)...)
		}
		standings, err := engine.RaceStandings(raceID, schema.GeneralClassification)
		if err != nil {
			return err
		}
		raceRows = append(raceRows, parquet.ConvertRaceStandings(race, standings)...)
	}

	stagePath, racePath := ExportPaths(prefix)
	if err := parquet.WriteStageResultsParquet(stageRows, stagePath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d stage results to %s\n", len(stageRows), stagePath)
	if err := parquet.WriteRaceClassificationsParquet(raceRows, racePath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d race classifications to %s\n", len(raceRows), racePath)
	return nil
}
