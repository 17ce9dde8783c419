// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteStage prints a stage ranking using the configured output format.
func (ow *OutWriter) WriteStage(stage schema.Stage, rows []schema.StageStanding, cfg *contract.Config, duration time.Duration) error {
	return WriteStageStandings(stage, rows, cfg, duration)
}

// WriteRace prints a race classification using the configured output format.
func (ow *OutWriter) WriteRace(race schema.Race, rows []schema.RaceStanding, cfg *contract.Config, duration time.Duration) error {
	return WriteRaceStandings(race, rows, cfg, duration)
}

// WriteRaces prints the race summaries using the configured output format.
func (ow *OutWriter) WriteRaces(races []schema.RaceDetails, cfg *contract.Config) error {
	return WriteRaceDetails(races, cfg)
}
