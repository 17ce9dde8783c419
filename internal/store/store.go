// Package store holds the in-memory entity graph of a cycling portal.
//
// Races own stages, stages own checkpoints; teams own riders. Results and points
// snapshots refer to stages and riders by id. A Store is not safe for concurrent use.
package store

import (
	"fmt"
	"slices"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// resultKey identifies the single result a rider may hold in a stage.
type resultKey struct {
	stageID int
	riderID int
}

// Store is the entity graph plus its id generator.
type Store struct {
	ids *IDGenerator

	races       map[int]*schema.Race
	stages      map[int]*schema.Stage
	checkpoints map[int]*schema.Checkpoint
	teams       map[int]*schema.Team
	riders      map[int]*schema.Rider
	results     map[int]*schema.Result

	resultIndex  map[resultKey]int // (stage, rider) -> result id
	stageResults map[int][]int     // stage id -> result ids in registration order
	points       []schema.PointsSnapshot
}

var _ contract.Portal = &Store{} // Compile-time check

// New returns an empty store with fresh counters.
func New() *Store {
	s := &Store{ids: NewIDGenerator()}
	s.reset()
	return s
}

// reset drops every entity. Counters are left alone.
func (s *Store) reset() {
	s.races = make(map[int]*schema.Race)
	s.stages = make(map[int]*schema.Stage)
	s.checkpoints = make(map[int]*schema.Checkpoint)
	s.teams = make(map[int]*schema.Team)
	s.riders = make(map[int]*schema.Rider)
	s.results = make(map[int]*schema.Result)
	s.resultIndex = make(map[resultKey]int)
	s.stageResults = make(map[int][]int)
	s.points = nil
}

// Erase removes every entity and resets every id counter to its initial value.
func (s *Store) Erase() {
	s.reset()
	s.ids.Reset()
}

// IDs returns the id generator owned by the store.
func (s *Store) IDs() *IDGenerator {
	return s.ids
}

// Len returns the number of entities per kind.
func (s *Store) Len() map[string]int {
	return map[string]int{
		schema.RaceKind:       len(s.races),
		schema.StageKind:      len(s.stages),
		schema.CheckpointKind: len(s.checkpoints),
		schema.TeamKind:       len(s.teams),
		schema.RiderKind:      len(s.riders),
		schema.ResultKind:     len(s.results),
	}
}

// notFound wraps ErrNotFound with the entity kind and id.
func notFound(kind string, id int) error {
	return fmt.Errorf("%w: %s %d", contract.ErrNotFound, kind, id)
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// removeID returns ids without id, preserving order.
func removeID(ids []int, id int) []int {
	return slices.DeleteFunc(ids, func(v int) bool { return v == id })
}
