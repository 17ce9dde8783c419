package schema

import "time"

// Points by finishing rank for each stage type. Ranks past the end score zero.
var stagePointsTables = map[StageType][]int{
	FlatStage:           {50, 30, 20, 18, 16, 14, 12, 10, 8, 7, 6, 5, 4, 3, 2},
	MediumMountainStage: {30, 25, 22, 19, 17, 15, 13, 11, 9, 7, 6, 5, 4, 3, 2},
	HighMountainStage:   {20, 17, 15, 13, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2},
	TimeTrialStage:      {20, 17, 15, 13, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2},
}

// Points by finishing rank for each climb category.
var climbPointsTables = map[CheckpointType][]int{
	C4Climb: {1},
	C3Climb: {2, 1},
	C2Climb: {5, 3, 2, 1},
	C1Climb: {10, 8, 6, 4, 2, 1},
	HCClimb: {20, 15, 12, 10, 8, 6, 4, 2},
}

// StagePointsTable returns the sprint points table for a stage type.
// The returned slice must not be modified.
func StagePointsTable(t StageType) []int {
	return stagePointsTables[t]
}

// ClimbPointsTable returns the mountain points table for a climb category.
// Sprint checkpoints have no table.
func ClimbPointsTable(t CheckpointType) []int {
	return climbPointsTables[t]
}

// RiderPoints is the score of a single rider in a single stage.
type RiderPoints struct {
	RiderID  int `json:"rider_id"`
	Sprint   int `json:"sprint"`
	Mountain int `json:"mountain"`
}

// StagePoints is the derived points breakdown of a stage,
// ordered like the stage ranking.
type StagePoints struct {
	StageID int           `json:"stage_id"`
	Entries []RiderPoints `json:"entries"`
}

// PointsSnapshot is an explicitly recorded StagePoints computation.
type PointsSnapshot struct {
	ID         string        `json:"id"`
	StageID    int           `json:"stage_id"`
	RecordedAt time.Time     `json:"recorded_at"`
	Entries    []RiderPoints `json:"entries,omitempty"`
}
