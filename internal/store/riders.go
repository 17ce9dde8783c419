package store

import (
	"fmt"
	"strings"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// CreateRider adds a rider to a team and returns its id.
func (s *Store) CreateRider(teamID int, name string, yearOfBirth int) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: rider name cannot be blank", contract.ErrInvalidArgument)
	}
	if yearOfBirth < schema.MinBirthYear {
		return 0, fmt.Errorf("%w: year of birth %d is before %d", contract.ErrInvalidArgument, yearOfBirth, schema.MinBirthYear)
	}
	team, ok := s.teams[teamID]
	if !ok {
		return 0, notFound(schema.TeamKind, teamID)
	}

	id := s.ids.Next(schema.RiderKind)
	s.riders[id] = &schema.Rider{ID: id, TeamID: teamID, Name: name, YearOfBirth: yearOfBirth}
	team.RiderIDs = append(team.RiderIDs, id)
	return id, nil
}

// RiderIDs returns the ids of every rider in ascending order.
func (s *Store) RiderIDs() []int {
	return sortedKeys(s.riders)
}

// Rider returns a copy of the rider.
func (s *Store) Rider(id int) (schema.Rider, error) {
	r, ok := s.riders[id]
	if !ok {
		return schema.Rider{}, notFound(schema.RiderKind, id)
	}
	return *r, nil
}

// RemoveRider removes the rider and every result they registered.
func (s *Store) RemoveRider(id int) error {
	r, ok := s.riders[id]
	if !ok {
		return notFound(schema.RiderKind, id)
	}
	team := s.teams[r.TeamID]
	team.RiderIDs = removeID(team.RiderIDs, id)
	s.dropRiders([]int{id})
	return nil
}

// dropRiders deletes riders and their results in one pass over the results.
func (s *Store) dropRiders(ids []int) {
	gone := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	var resultIDs []int
	for _, id := range sortedKeys(s.results) {
		if _, ok := gone[s.results[id].RiderID]; ok {
			resultIDs = append(resultIDs, id)
		}
	}
	s.dropResults(resultIDs)
	for id := range gone {
		delete(s.riders, id)
	}
}
