// Package parquet provides data structures and functions for exporting race
// results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/peloton/schema"
	"github.com/parquet-go/parquet-go"
)

// StageResultRow is one rider's outcome in one stage.
type StageResultRow struct {
	// RaceID references the race the stage belongs to
	RaceID int32 `parquet:"race_id,snappy"`

	// StageID identifies the stage
	StageID int32 `parquet:"stage_id,snappy"`

	// StageName is the display name of the stage
	StageName string `parquet:"stage_name,snappy"`

	// StageType is FLAT, MEDIUM_MOUNTAIN, HIGH_MOUNTAIN or TT
	StageType string `parquet:"stage_type,snappy"`

	// StageStart is the scheduled start of the stage (stored as TIMESTAMP with nanosecond precision)
	StageStart time.Time `parquet:"stage_start,snappy"`

	// Rank is the finishing position, starting at 1
	Rank int32 `parquet:"rank,snappy"`

	RiderID   int32  `parquet:"rider_id,snappy"`
	RiderName string `parquet:"rider_name,snappy"`
	TeamName  string `parquet:"team_name,snappy"`

	// ElapsedMs is the raw finish minus start time in milliseconds
	ElapsedMs int64 `parquet:"elapsed_ms,snappy"`

	// AdjustedMs is the elapsed time after bunching in milliseconds
	AdjustedMs int64 `parquet:"adjusted_ms,snappy"`

	// GapMs is the adjusted gap to the stage winner (nullable, nil for the winner)
	GapMs *int64 `parquet:"gap_ms,optional,snappy"`

	SprintPoints   int32 `parquet:"sprint_points,snappy"`
	MountainPoints int32 `parquet:"mountain_points,snappy"`
}

// RaceClassificationRow is one rider's standing in a race.
type RaceClassificationRow struct {
	// RaceID identifies the race
	RaceID int32 `parquet:"race_id,snappy"`

	// RaceName is the display name of the race
	RaceName string `parquet:"race_name,snappy"`

	// GCRank is the general classification position, starting at 1
	GCRank int32 `parquet:"gc_rank,snappy"`

	RiderID   int32  `parquet:"rider_id,snappy"`
	RiderName string `parquet:"rider_name,snappy"`
	TeamName  string `parquet:"team_name,snappy"`

	// TotalMs is the summed adjusted time in milliseconds
	TotalMs int64 `parquet:"total_ms,snappy"`

	// GapMs is the gap to the race leader (nullable, nil for the leader)
	GapMs *int64 `parquet:"gap_ms,optional,snappy"`

	// Points is the summed sprint points
	Points int32 `parquet:"points,snappy"`

	// MountainPoints is the summed climb points
	MountainPoints int32 `parquet:"mountain_points,snappy"`
}

// writeParquet writes rows to outputPath with a schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteStageResultsParquet writes a slice of StageResultRow structs to a Parquet file.
func WriteStageResultsParquet(data []StageResultRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRaceClassificationsParquet writes a slice of RaceClassificationRow structs to a Parquet file.
func WriteRaceClassificationsParquet(data []RaceClassificationRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// gap returns nil for a zero gap.
func gap(d time.Duration) *int64 {
	if d <= 0 {
		return nil
	}
	ms := d.Milliseconds()
	return &ms
}

// ConvertStageStandings converts the standings of one stage to Parquet rows.
func ConvertStageStandings(stage schema.Stage, rows []schema.StageStanding) []StageResultRow {
	result := make([]StageResultRow, len(rows))
	for i, r := range rows {
		result[i] = StageResultRow{
			RaceID:         int32(stage.RaceID),
			StageID:        int32(stage.ID),
			StageName:      stage.Name,
			StageType:      string(stage.Type),
			StageStart:     stage.StartTime,
			Rank:           int32(r.Rank),
			RiderID:        int32(r.RiderID),
			RiderName:      r.Rider,
			TeamName:       r.Team,
			ElapsedMs:      r.Elapsed.Milliseconds(),
			AdjustedMs:     r.Adjusted.Milliseconds(),
			GapMs:          gap(r.Adjusted - rows[0].Adjusted),
			SprintPoints:   int32(r.Sprint),
			MountainPoints: int32(r.Mountain),
		}
	}
	return result
}

// ConvertRaceStandings converts general classification standings to Parquet rows.
func ConvertRaceStandings(race schema.Race, rows []schema.RaceStanding) []RaceClassificationRow {
	result := make([]RaceClassificationRow, len(rows))
	for i, r := range rows {
		result[i] = RaceClassificationRow{
			RaceID:         int32(race.ID),
			RaceName:       race.Name,
			GCRank:         int32(r.GCRank),
			RiderID:        int32(r.RiderID),
			RiderName:      r.Rider,
			TeamName:       r.Team,
			TotalMs:        r.Total.Milliseconds(),
			GapMs:          gap(r.Gap),
			Points:         int32(r.Points),
			MountainPoints: int32(r.Mountain),
		}
	}
	return result
}
