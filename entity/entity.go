// Package entity — see doc.go for the overview.
package entity

import "github.com/rtdyn/dynclamp/event"

// Entity is the uniform contract every participant in the tick loop
// satisfies (§3, §4.2). Step and Output are mandatory; Initialise and
// Terminate are optional and discovered via the Initialiser and Terminator
// capability interfaces, per §9's "capability interface for the generic
// tick contract" note.
type Entity interface {
	// ID returns the entity's unique, non-negative identifier.
	ID() uint32
	// Name returns a human-readable name.
	Name() string
	// Units returns the output's physical units as a string.
	Units() string

	// Step advances internal state by one tick, using the latched Inputs.
	// It may emit events but must not block.
	Step()
	// Output produces the current sample. Must be cheap: it may be called
	// once per neighbor, per tick, during the Latch phase.
	Output() float64

	// HandleEvent delivers an event to this entity. The default
	// (Base.HandleEvent) ignores it.
	HandleEvent(e event.Event)

	// Connect appends other to this entity's Post list and this entity to
	// other's Pre list, reserving a new input slot on other. Self-connection
	// is rejected; connecting an already-connected pair is a no-op.
	Connect(other Entity) error

	// Pre returns the ordered list of input entities.
	Pre() []Entity
	// Post returns the ordered list of output (listener) entities.
	Post() []Entity
	// Inputs returns the latched input buffer, one slot per Pre entry, in
	// the same order.
	Inputs() []float64

	// Parameter returns a pointer to the named parameter's value, and
	// whether it exists. The pointer may be mutated by other entities (e.g.
	// a Converter) to reparameterise this entity at runtime.
	Parameter(name string) (*float64, bool)

	// Metadata returns the entity's persisted metadata matrix, if any.
	Metadata() (Metadata, bool)
}

// Initialiser is implemented by entities that need one-time setup at trial
// start. Returning false aborts the trial before the first tick (§4.1).
type Initialiser interface {
	Initialise() bool
}

// Terminator is implemented by entities that need one-time teardown at
// trial end, called exactly once whether the trial completed or was
// cancelled. When initialisation aborts a trial, only the entities that
// initialised before the failing one are terminated; the failing entity and
// the ones after it are not.
type Terminator interface {
	Terminate()
}

// Metadata is a rectangular real-valued matrix with a label, intended to be
// persisted by the recorder (§3) — e.g. a stimulus descriptor or an
// electrode-compensation kernel.
type Metadata struct {
	Label string
	// Rows is the matrix data, one []float64 per row. All rows must have
	// equal length.
	Rows [][]float64
}

// Cols reports the matrix's column count (0 if empty).
func (m Metadata) Cols() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}
