package graphutil

import (
	"fmt"

	"github.com/rtdyn/dynclamp/entity"
)

// Converter has exactly one Pre and one Post; when its latched input value
// changes, it writes that value to a named parameter of the Post entity.
// This is the design's pattern for "one entity reconfigures another at
// runtime" (§4.2), exercised by §8 scenario S5.
type Converter struct {
	entity.Base
	target    entity.Entity
	paramName string
	paramPtr  *float64
	last      float64
	haveLast  bool
}

// NewConverter constructs a Converter that, once connected to exactly one
// Pre and bound to target/paramName via Bind, writes its latched input into
// target's named parameter whenever that input changes.
func NewConverter(id uint32, name string) *Converter {
	c := &Converter{Base: entity.NewBase(id, name, "")}
	c.Init(c)
	return c
}

// Bind names the post entity and parameter the Converter writes to. The
// parameter must already exist on target (see entity.Base.SetParameter).
func (c *Converter) Bind(target entity.Entity, paramName string) error {
	p, ok := target.Parameter(paramName)
	if !ok {
		return fmt.Errorf("graphutil: converter %q: target %q has no parameter %q", c.Name(), target.Name(), paramName)
	}
	c.target = target
	c.paramName = paramName
	c.paramPtr = p
	return nil
}

// Step writes the latched input to the bound parameter if it has changed
// since the last tick.
func (c *Converter) Step() {
	if c.paramPtr == nil {
		return
	}
	in := c.Inputs()
	if len(in) == 0 {
		return
	}
	v := in[0]
	if !c.haveLast || v != c.last {
		*c.paramPtr = v
		c.last = v
		c.haveLast = true
	}
}

// Output passes the latched input through unchanged, so a Converter can
// also sit inline in a dataflow chain.
func (c *Converter) Output() float64 {
	in := c.Inputs()
	if len(in) == 0 {
		return 0
	}
	return in[0]
}
