package graphutil

import (
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/ringbuf"
)

// Delay shifts its single latched input through a ring buffer of length
// N+1, so Output returns the sample latched N ticks ago. Initial contents
// are zero (§4.2). A Delay(1) feeding its own output is rejected at
// Connect, inherited from entity.Base (§8 invariant 8) — Delay does not
// special-case that; the generic self-connect check in Base.Connect covers
// it.
type Delay struct {
	entity.Base
	n     int
	ring  *ringbuf.Ring
	value float64
}

// NewDelay constructs a Delay of n samples (n >= 0). n == 0 degenerates to a
// pass-through with one tick of the usual Pre->Post latch lag.
func NewDelay(id uint32, name string, units string, n int) *Delay {
	if n < 0 {
		n = 0
	}
	d := &Delay{
		Base: entity.NewBase(id, name, units),
		n:    n,
		ring: ringbuf.New(n + 1),
	}
	d.Init(d)
	return d
}

// Step shifts the latched input into the ring and recomputes the delayed
// output.
func (d *Delay) Step() {
	in := d.Inputs()
	var v float64
	if len(in) > 0 {
		v = in[0]
	}
	d.ring.Push(v)
	d.value = d.ring.At(d.n)
}

// Output returns the sample latched n ticks ago.
func (d *Delay) Output() float64 {
	return d.value
}
