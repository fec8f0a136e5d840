package graphutil

import (
	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
)

// EventCounter counts events of one chosen Kind; when the count reaches
// MaxCount it emits a chosen Kind (and, if AutoReset, resets its count). A
// RESET event always resets the count regardless of which Kind is being
// counted (§4.2). Exercised by §8 invariant 9 and scenario S2.
type EventCounter struct {
	entity.Base
	queue     *event.Queue
	clk       *clock.Base
	count     event.Kind
	maxCount  int
	send      event.Kind
	autoReset bool
	n         int
}

// NewEventCounter constructs an EventCounter that counts occurrences of
// count, emits send on queue once n reaches maxCount, and resets its
// internal tally afterward iff autoReset.
func NewEventCounter(id uint32, name string, queue *event.Queue, clk *clock.Base, count event.Kind, maxCount int, send event.Kind, autoReset bool) *EventCounter {
	c := &EventCounter{
		Base:      entity.NewBase(id, name, ""),
		queue:     queue,
		clk:       clk,
		count:     count,
		maxCount:  maxCount,
		send:      send,
		autoReset: autoReset,
	}
	c.Init(c)
	return c
}

// HandleEvent increments the tally on a matching event, or zeroes it
// unconditionally on RESET.
func (c *EventCounter) HandleEvent(e event.Event) {
	if e.Kind == event.RESET {
		c.n = 0
		return
	}
	if e.Kind != c.count {
		return
	}
	c.n++
	if c.n >= c.maxCount {
		c.queue.Push(event.New(c.send, c, c.clk.T()))
		if c.autoReset {
			c.n = 0
		}
	}
}

// Step is a no-op: all of EventCounter's behavior is event-driven.
func (c *EventCounter) Step() {}

// Output reports the current tally, mostly useful for diagnostics/tests.
func (c *EventCounter) Output() float64 { return float64(c.n) }

// Count returns the current tally.
func (c *EventCounter) Count() int { return c.n }
