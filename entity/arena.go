package entity

import "sync/atomic"

// nextID is the process-wide counter allocating identifiers when a caller
// does not supply one (§3). Trials within the same process therefore never
// reuse an id, even across successive Arenas.
var nextID uint32

// NextID allocates and returns the next process-wide entity identifier.
func NextID() uint32 {
	return atomic.AddUint32(&nextID, 1) - 1
}

// Arena owns the entities participating in a trial in a single contiguous
// slice, indexed by registration order, per §9's "replacing manual
// new/delete with arena ownership" note. Entities reference each other only
// via the Entity interface (Pre/Post), never via ownership.
type Arena struct {
	entities []Entity
	byID     map[uint32]Entity
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{byID: make(map[uint32]Entity)}
}

// Add registers e with the arena, in construction order. The scheduler
// iterates entities in this order for both the Latch and Step phases
// (§4.1), so registration order is the graph's evaluation order.
func (a *Arena) Add(e Entity) {
	a.entities = append(a.entities, e)
	a.byID[e.ID()] = e
}

// Entities returns all registered entities, in construction order. The
// returned slice is owned by Arena and must not be mutated by callers.
func (a *Arena) Entities() []Entity {
	return a.entities
}

// Lookup returns the entity with the given id, if registered.
func (a *Arena) Lookup(id uint32) (Entity, bool) {
	e, ok := a.byID[id]
	return e, ok
}

// Len reports the number of registered entities.
func (a *Arena) Len() int {
	return len(a.entities)
}
