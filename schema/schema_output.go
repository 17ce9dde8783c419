package schema

import (
	"fmt"
	"time"
)

// RaceDetails is the summary view of a race.
type RaceDetails struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	NumberOfStages int     `json:"number_of_stages"`
	TotalLength    float64 `json:"total_length"`
}

// String renders the details on a single line.
func (d RaceDetails) String() string {
	return fmt.Sprintf("Race[id=%d, name=%s, description=%s, stages=%d, length=%.1fkm]",
		d.ID, d.Name, d.Description, d.NumberOfStages, d.TotalLength)
}

// StageStanding is one row of a stage ranking, enriched for presentation.
type StageStanding struct {
	Rank     int           `json:"rank"`
	RiderID  int           `json:"rider_id"`
	Rider    string        `json:"rider"`
	Team     string        `json:"team"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Adjusted time.Duration `json:"adjusted_ns"`
	Sprint   int           `json:"sprint_points"`
	Mountain int           `json:"mountain_points"`
}

// RaceStanding is one row of a race classification, enriched for presentation.
// Rows are ordered by the requested classification; GCRank always refers to the
// general classification.
type RaceStanding struct {
	Rank     int           `json:"rank"`
	GCRank   int           `json:"gc_rank"`
	RiderID  int           `json:"rider_id"`
	Rider    string        `json:"rider"`
	Team     string        `json:"team"`
	Total    time.Duration `json:"total_ns"`
	Gap      time.Duration `json:"gap_ns"`
	Points   int           `json:"points"`
	Mountain int           `json:"mountain_points"`
}
