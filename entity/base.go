package entity

import "github.com/rtdyn/dynclamp/event"

// Base implements everything in Entity except Step and Output, which
// concrete entity types must supply themselves. Embed Base, call Init once
// from the concrete type's constructor (passing the concrete value itself,
// so Base can identify its own embedder for self-connect checks and Pre
// propagation), and implement Step/Output (and, optionally,
// HandleEvent/Initialise/Terminate) to get a complete Entity.
type Base struct {
	self  Entity
	id    uint32
	name  string
	units string

	params map[string]*float64

	pre    []Entity
	post   []Entity
	inputs []float64

	metadata Metadata
	hasMeta  bool
}

// NewBase constructs a Base with the given identifier, name, and units. id
// is normally allocated by NextID; entities built outside an Arena (e.g.
// in tests) may pass any value so long as it is unique within the trial.
// Callers must call Init(self) before using Connect.
func NewBase(id uint32, name, units string) Base {
	return Base{
		id:     id,
		name:   name,
		units:  units,
		params: make(map[string]*float64),
	}
}

// Init records the concrete Entity embedding this Base. Must be called
// exactly once, from the concrete constructor, after the value it embeds
// Base in is addressable (i.e. typically on a *T receiver).
func (b *Base) Init(self Entity) {
	b.self = self
}

func (b *Base) ID() uint32    { return b.id }
func (b *Base) Name() string  { return b.name }
func (b *Base) Units() string { return b.units }

// HandleEvent is the default no-op implementation; concrete types that care
// about events define their own HandleEvent method, which shadows this one.
func (b *Base) HandleEvent(event.Event) {}

// SetParameter registers or overwrites a named parameter, returning a
// pointer stable for the entity's lifetime (so Converter-style
// reparameterisation can hold onto it across ticks).
func (b *Base) SetParameter(name string, value float64) *float64 {
	if p, ok := b.params[name]; ok {
		*p = value
		return p
	}
	v := value
	b.params[name] = &v
	return &v
}

// Parameter implements Entity.Parameter.
func (b *Base) Parameter(name string) (*float64, bool) {
	p, ok := b.params[name]
	return p, ok
}

// ParameterNames returns the registered parameter names, order unspecified.
func (b *Base) ParameterNames() []string {
	names := make([]string, 0, len(b.params))
	for k := range b.params {
		names = append(names, k)
	}
	return names
}

// SetMetadata attaches a metadata matrix, overwriting any previous value.
func (b *Base) SetMetadata(m Metadata) {
	b.metadata = m
	b.hasMeta = true
}

// Metadata implements Entity.Metadata.
func (b *Base) Metadata() (Metadata, bool) {
	return b.metadata, b.hasMeta
}

// Pre implements Entity.Pre.
func (b *Base) Pre() []Entity { return b.pre }

// Post implements Entity.Post.
func (b *Base) Post() []Entity { return b.post }

// Inputs implements Entity.Inputs.
func (b *Base) Inputs() []float64 { return b.inputs }

// Connect implements Entity.Connect: it appends other to self's Post list
// and self to other's Pre list, reserving a new input slot on other.
// Self-connection is rejected (§3, tested by §8 invariant 8 via Delay);
// connecting an already-connected pair is a no-op.
func (b *Base) Connect(other Entity) error {
	if other.ID() == b.id {
		return selfConnectError(b.name)
	}
	for _, p := range b.post {
		if p.ID() == other.ID() {
			return nil // idempotent on duplicate edges
		}
	}
	b.post = append(b.post, other)
	if setter, ok := other.(preAppender); ok {
		setter.appendPre(b.self)
	}
	return nil
}

// preAppender lets Connect reach into the callee's private pre/inputs
// slices without a public mutator on the Entity interface.
type preAppender interface {
	appendPre(Entity)
}

func (b *Base) appendPre(other Entity) {
	b.pre = append(b.pre, other)
	b.inputs = append(b.inputs, 0)
}

// Latch copies every Pre entity's Output into the matching Inputs slot. The
// scheduler calls this once per entity per tick, in construction order,
// during the Latch phase (§4.1 step 3b) — this is the sole place Inputs is
// written outside of tests.
func (b *Base) Latch() {
	for i, p := range b.pre {
		b.inputs[i] = p.Output()
	}
}
