package graphutil

import (
	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
)

// Trigger emits a TRIGGER event whenever Fire is called during a tick's Step
// phase. It has no inputs of its own; callers (typically another entity's
// Step, or test code) invoke Fire directly.
type Trigger struct {
	entity.Base
	queue   *event.Queue
	clk     *clock.Base
	pending bool
}

// NewTrigger constructs a Trigger that emits onto queue, stamped with clk's
// current simulation time.
func NewTrigger(id uint32, name string, queue *event.Queue, clk *clock.Base) *Trigger {
	t := &Trigger{Base: entity.NewBase(id, name, ""), queue: queue, clk: clk}
	t.Init(t)
	return t
}

// Fire arms the Trigger to emit on its next Step.
func (t *Trigger) Fire() {
	t.pending = true
}

// Step emits a TRIGGER event if Fire was called since the last Step.
func (t *Trigger) Step() {
	if t.pending {
		t.queue.Push(event.New(event.TRIGGER, t, t.clk.T()))
		t.pending = false
	}
}

// Output is always zero; Trigger has no dataflow output.
func (t *Trigger) Output() float64 { return 0 }

// PeriodicTrigger emits TRIGGER events at frequency f, scheduling the next
// emission by adding 1/f to a running absolute time target rather than
// accumulating a per-tick counter, which avoids cumulative drift (§4.2).
type PeriodicTrigger struct {
	entity.Base
	queue  *event.Queue
	clk    *clock.Base
	period float64
	next   float64
}

// NewPeriodicTrigger constructs a PeriodicTrigger firing at freqHz, with its
// first emission scheduled at t=1/freqHz (i.e. after exactly one period has
// elapsed from trial start).
func NewPeriodicTrigger(id uint32, name string, queue *event.Queue, clk *clock.Base, freqHz float64) *PeriodicTrigger {
	period := 1 / freqHz
	p := &PeriodicTrigger{
		Base:   entity.NewBase(id, name, ""),
		queue:  queue,
		clk:    clk,
		period: period,
		next:   period,
	}
	p.Init(p)
	return p
}

// Step fires once per elapsed period, catching up (without compounding
// drift) if more than one period has elapsed since the last Step — this can
// happen only under scheduler overrun, since ticks normally advance by
// exactly Dt.
func (p *PeriodicTrigger) Step() {
	t := p.clk.T()
	for t+1e-12 >= p.next {
		p.queue.Push(event.New(event.TRIGGER, p, p.clk.T()))
		p.next += p.period
	}
}

// Output is always zero; PeriodicTrigger has no dataflow output.
func (p *PeriodicTrigger) Output() float64 { return 0 }
