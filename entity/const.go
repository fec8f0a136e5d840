package entity

// Const is a zero-input entity whose Output is a fixed value, settable at
// runtime (e.g. by a Converter). It appears throughout the specification's
// end-to-end scenarios (§8 S3, S5) as the simplest possible source entity.
type Const struct {
	Base
	value float64
}

// NewConst constructs a Const entity with the given output value.
func NewConst(id uint32, name string, units string, value float64) *Const {
	c := &Const{Base: NewBase(id, name, units), value: value}
	c.Init(c)
	return c
}

// Set updates the constant's output value, effective from the next Latch
// phase (per the Base.Latch snapshot semantics).
func (c *Const) Set(v float64) {
	c.value = v
}

// Step is a no-op: Const has no internal state to advance.
func (c *Const) Step() {}

// Output returns the current constant value.
func (c *Const) Output() float64 {
	return c.value
}
