package store

import (
	"fmt"
	"maps"

	"github.com/huangsam/peloton/schema"
)

// firstID is the id handed out first for every entity kind.
const firstID = 1

// IDGenerator assigns monotonically increasing ids per entity kind.
// Ids are never reused, even after the entity is removed.
type IDGenerator struct {
	next map[string]int
}

// NewIDGenerator returns a generator with every counter at its initial value.
func NewIDGenerator() *IDGenerator {
	g := &IDGenerator{}
	g.Reset()
	return g
}

// Next returns the next id for kind and advances its counter.
func (g *IDGenerator) Next(kind string) int {
	id := g.Peek(kind)
	g.next[kind] = id + 1
	return id
}

// Peek returns the id Next would hand out, without advancing.
func (g *IDGenerator) Peek(kind string) int {
	if id, ok := g.next[kind]; ok {
		return id
	}
	return firstID
}

// Reset puts every counter back to its initial value.
func (g *IDGenerator) Reset() {
	g.next = make(map[string]int, len(schema.AllKinds))
	for _, kind := range schema.AllKinds {
		g.next[kind] = firstID
	}
}

// Counters returns a copy of the next id per kind.
func (g *IDGenerator) Counters() map[string]int {
	return maps.Clone(g.next)
}

// restore replaces the counters. Unknown kinds and values below firstID are rejected.
func (g *IDGenerator) restore(counters map[string]int) error {
	next := make(map[string]int, len(schema.AllKinds))
	for _, kind := range schema.AllKinds {
		next[kind] = firstID
	}
	for kind, id := range counters {
		if _, ok := next[kind]; !ok {
			return fmt.Errorf("unknown id counter %q", kind)
		}
		if id < firstID {
			return fmt.Errorf("id counter %q must be at least %d (got %d)", kind, firstID, id)
		}
		next[kind] = id
	}
	g.next = next
	return nil
}
