package schema

// Entity kinds, used as id counter keys and archive table names.
const (
	RaceKind       = "race"
	StageKind      = "stage"
	CheckpointKind = "checkpoint"
	TeamKind       = "team"
	RiderKind      = "rider"
	ResultKind     = "result"
)

// AllKinds lists every entity kind in dependency order.
var AllKinds = []string{RaceKind, StageKind, CheckpointKind, TeamKind, RiderKind, ResultKind}

// SnapshotVersion is bumped whenever the Snapshot layout changes incompatibly.
const SnapshotVersion = 1

// Snapshot is the whole object graph in a serialisable form.
// Entity lists are ordered by id, Points in recording order.
type Snapshot struct {
	Version     int              `json:"version"`
	Counters    map[string]int   `json:"counters"` // Next id per entity kind
	Races       []Race           `json:"races"`
	Stages      []Stage          `json:"stages"`
	Checkpoints []Checkpoint     `json:"checkpoints"`
	Teams       []Team           `json:"teams"`
	Riders      []Rider          `json:"riders"`
	Results     []Result         `json:"results"`
	Points      []PointsSnapshot `json:"points"`
}

// Count returns the number of entities per kind.
func (s *Snapshot) Count() map[string]int {
	return map[string]int{
		RaceKind:       len(s.Races),
		StageKind:      len(s.Stages),
		CheckpointKind: len(s.Checkpoints),
		TeamKind:       len(s.Teams),
		RiderKind:      len(s.Riders),
		ResultKind:     len(s.Results),
		"points":       len(s.Points),
	}
}
