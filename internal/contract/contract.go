// Package contract provides interfaces and shared utilities for the peloton CLI's internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/peloton/schema"
)

// EntityReader exposes the read side of the entity store.
// The classification engine depends on nothing else.
type EntityReader interface {
	RaceIDs() []int
	Race(id int) (schema.Race, error)
	RaceDetails(id int) (schema.RaceDetails, error)
	Stage(id int) (schema.Stage, error)
	Checkpoint(id int) (schema.Checkpoint, error)
	Team(id int) (schema.Team, error)
	Rider(id int) (schema.Rider, error)
	// Result returns false when the rider has no result in the stage.
	Result(stageID, riderID int) (schema.Result, bool, error)
	// StageResults returns results in registration order.
	StageResults(stageID int) ([]schema.Result, error)
}

// PointsRecorder persists explicitly requested points computations.
type PointsRecorder interface {
	RecordPoints(snapshot schema.PointsSnapshot) error
}

// Portal is the store surface consumed by the engine.
type Portal interface {
	EntityReader
	PointsRecorder
}

// ArchiveManager defines the interface for managing the archive store.
// This allows the archive layer to be mocked for testing.
type ArchiveManager interface {
	GetArchiveStore() ArchiveStore
}

// ArchiveStore keeps a whole-graph copy of the portal in a database.
type ArchiveStore interface {
	// Save replaces the archived graph with snap in one transaction.
	Save(ctx context.Context, snap *schema.Snapshot) error
	// Load returns the archived graph, or an empty snapshot when nothing was saved.
	Load(ctx context.Context) (*schema.Snapshot, error)
	GetStatus() (schema.ArchiveStatus, error)
	Close() error
}
