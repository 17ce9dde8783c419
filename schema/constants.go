package schema

// Custom string types for type safety.
type (
	// StageType represents the terrain profile of a stage.
	StageType string

	// StageStatus represents the lifecycle phase of a stage.
	StageStatus string

	// CheckpointType represents a sprint or a climb category.
	CheckpointType string

	// Classification represents a race-level classification.
	Classification string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for archiving.
	DatabaseBackend string
)

// All stage types supported.
const (
	FlatStage           StageType = "FLAT"
	MediumMountainStage StageType = "MEDIUM_MOUNTAIN"
	HighMountainStage   StageType = "HIGH_MOUNTAIN"
	TimeTrialStage      StageType = "TT"
)

// All stage statuses supported. The transition is one way.
const (
	PreparingStatus         StageStatus = "preparing" // initial
	WaitingForResultsStatus StageStatus = "waiting_for_results"
)

// All checkpoint types supported.
const (
	SprintCheckpoint CheckpointType = "SPRINT"
	C4Climb          CheckpointType = "C4"
	C3Climb          CheckpointType = "C3"
	C2Climb          CheckpointType = "C2"
	C1Climb          CheckpointType = "C1"
	HCClimb          CheckpointType = "HC"
)

// All race classifications supported.
const (
	GeneralClassification  Classification = "general" // default
	PointsClassification   Classification = "points"
	MountainClassification Classification = "mountain"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All archive backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Entity limits carried over from the race organiser rules.
const (
	MaxNameLength  = 30
	MinStageLength = 5.0
	MinBirthYear   = 1900
)

// IsClimb reports whether the checkpoint type is a categorised climb.
func (t CheckpointType) IsClimb() bool {
	switch t {
	case C4Climb, C3Climb, C2Climb, C1Climb, HCClimb:
		return true
	default:
		return false
	}
}

// ValidStageTypes lists all valid stage types.
var ValidStageTypes = map[StageType]struct{}{
	FlatStage:           {},
	MediumMountainStage: {},
	HighMountainStage:   {},
	TimeTrialStage:      {},
}

// ValidCheckpointTypes lists all valid checkpoint types.
var ValidCheckpointTypes = map[CheckpointType]struct{}{
	SprintCheckpoint: {},
	C4Climb:          {},
	C3Climb:          {},
	C2Climb:          {},
	C1Climb:          {},
	HCClimb:          {},
}

// ValidClassifications lists all valid race classifications.
var ValidClassifications = map[Classification]struct{}{
	GeneralClassification:  {},
	PointsClassification:   {},
	MountainClassification: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid archive backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
