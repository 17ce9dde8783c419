package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// CreateRace adds a race and returns its id. Race names are unique.
func (s *Store) CreateRace(name, description string) (int, error) {
	name, err := validateName(schema.RaceKind, name)
	if err != nil {
		return 0, err
	}
	for _, r := range s.races {
		if r.Name == name {
			return 0, fmt.Errorf("%w: race %q", contract.ErrNameConflict, name)
		}
	}

	id := s.ids.Next(schema.RaceKind)
	s.races[id] = &schema.Race{ID: id, Name: name, Description: description}
	return id, nil
}

// RaceIDs returns the ids of every race in ascending order.
func (s *Store) RaceIDs() []int {
	return sortedKeys(s.races)
}

// Race returns a copy of the race.
func (s *Store) Race(id int) (schema.Race, error) {
	r, ok := s.races[id]
	if !ok {
		return schema.Race{}, notFound(schema.RaceKind, id)
	}
	race := *r
	race.StageIDs = slices.Clone(r.StageIDs)
	return race, nil
}

// RaceDetails summarises the race with its stage count and total length.
func (s *Store) RaceDetails(id int) (schema.RaceDetails, error) {
	r, ok := s.races[id]
	if !ok {
		return schema.RaceDetails{}, notFound(schema.RaceKind, id)
	}
	details := schema.RaceDetails{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		NumberOfStages: len(r.StageIDs),
	}
	for _, stageID := range r.StageIDs {
		details.TotalLength += s.stages[stageID].Length
	}
	return details, nil
}

// NumberOfStages returns how many stages the race has.
func (s *Store) NumberOfStages(id int) (int, error) {
	r, ok := s.races[id]
	if !ok {
		return 0, notFound(schema.RaceKind, id)
	}
	return len(r.StageIDs), nil
}

// RaceStages returns the stage ids of the race in creation order.
func (s *Store) RaceStages(id int) ([]int, error) {
	r, ok := s.races[id]
	if !ok {
		return nil, notFound(schema.RaceKind, id)
	}
	return slices.Clone(r.StageIDs), nil
}

// RemoveRace removes the race together with its stages, their checkpoints,
// results and recorded points.
func (s *Store) RemoveRace(id int) error {
	r, ok := s.races[id]
	if !ok {
		return notFound(schema.RaceKind, id)
	}
	s.dropStages(r.StageIDs)
	delete(s.races, id)
	return nil
}

// RemoveRaceByName removes the race with the given name, see RemoveRace.
func (s *Store) RemoveRaceByName(name string) error {
	name = strings.TrimSpace(name)
	for _, id := range s.RaceIDs() {
		if s.races[id].Name == name {
			return s.RemoveRace(id)
		}
	}
	return fmt.Errorf("%w: race named %q", contract.ErrNotFound, name)
}
