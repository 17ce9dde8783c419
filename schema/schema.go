// Package schema has the entities, enumerations and derived records for all parts of peloton.
package schema

import "time"

// Race is a multi-stage event. It owns its stages in creation order.
type Race struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StageIDs    []int  `json:"stage_ids,omitempty"`
}

// Stage is one day of racing within a race.
type Stage struct {
	ID            int         `json:"id"`
	RaceID        int         `json:"race_id"` // Owning race
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Length        float64     `json:"length"` // Kilometres, always above MinStageLength
	StartTime     time.Time   `json:"start_time"`
	Type          StageType   `json:"type"`
	Status        StageStatus `json:"status"`
	CheckpointIDs []int       `json:"checkpoint_ids,omitempty"` // Ordered by creation
}

// Checkpoint is a sprint or categorised climb at a fixed location within a stage.
type Checkpoint struct {
	ID              int            `json:"id"`
	StageID         int            `json:"stage_id"`
	Location        float64        `json:"location"` // Kilometre offset from the stage start
	Type            CheckpointType `json:"type"`
	AverageGradient *float64       `json:"average_gradient,omitempty"` // Climbs only
	Length          *float64       `json:"length,omitempty"`           // Climbs only
}

// Team groups riders.
type Team struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RiderIDs    []int  `json:"rider_ids,omitempty"`
}

// Rider is a team member that can register results.
type Rider struct {
	ID          int    `json:"id"`
	TeamID      int    `json:"team_id"`
	Name        string `json:"name"`
	YearOfBirth int    `json:"year_of_birth"`
}

// Result holds the checkpoint timestamps of one rider in one stage.
// Times has the start first, one entry per checkpoint, then the finish.
type Result struct {
	ID      int         `json:"id"`
	StageID int         `json:"stage_id"`
	RiderID int         `json:"rider_id"`
	Times   []time.Time `json:"times"`
}

// Start returns the registered start time.
func (r Result) Start() time.Time {
	return r.Times[0]
}

// Finish returns the registered finish time.
func (r Result) Finish() time.Time {
	return r.Times[len(r.Times)-1]
}

// Elapsed returns the finish minus the start.
func (r Result) Elapsed() time.Duration {
	return r.Finish().Sub(r.Start())
}

// IsClimb reports whether the checkpoint awards mountain points.
func (c Checkpoint) IsClimb() bool {
	return c.Type.IsClimb()
}
