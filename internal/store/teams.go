package store

import (
	"fmt"
	"slices"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// CreateTeam adds a team and returns its id. Team names are unique.
func (s *Store) CreateTeam(name, description string) (int, error) {
	name, err := validateName(schema.TeamKind, name)
	if err != nil {
		return 0, err
	}
	for _, t := range s.teams {
		if t.Name == name {
			return 0, fmt.Errorf("%w: team %q", contract.ErrNameConflict, name)
		}
	}

	id := s.ids.Next(schema.TeamKind)
	s.teams[id] = &schema.Team{ID: id, Name: name, Description: description}
	return id, nil
}

// TeamIDs returns the ids of every team in ascending order.
func (s *Store) TeamIDs() []int {
	return sortedKeys(s.teams)
}

// Team returns a copy of the team.
func (s *Store) Team(id int) (schema.Team, error) {
	t, ok := s.teams[id]
	if !ok {
		return schema.Team{}, notFound(schema.TeamKind, id)
	}
	team := *t
	team.RiderIDs = slices.Clone(t.RiderIDs)
	return team, nil
}

// TeamRiders returns the rider ids of the team in creation order.
func (s *Store) TeamRiders(id int) ([]int, error) {
	t, ok := s.teams[id]
	if !ok {
		return nil, notFound(schema.TeamKind, id)
	}
	return slices.Clone(t.RiderIDs), nil
}

// RemoveTeam removes the team, its riders and all of their results.
func (s *Store) RemoveTeam(id int) error {
	t, ok := s.teams[id]
	if !ok {
		return notFound(schema.TeamKind, id)
	}
	s.dropRiders(t.RiderIDs)
	delete(s.teams, id)
	return nil
}
