package waveform

import (
	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
	"github.com/rtdyn/dynclamp/stim"
)

// Waveform replays a compiled stimulus. In free-running mode it starts
// immediately and emits RESET once exhausted; in triggered mode it starts
// silent (reporting 0) until a TRIGGER event arrives, replays to
// completion, then goes silent again until the next TRIGGER (§4.2).
type Waveform struct {
	entity.Base
	queue     *event.Queue
	clk       *clock.Base
	samples   []float64
	triggered bool

	pos        int
	resetQueued bool
}

// New constructs a Waveform entity from a compiled stimulus. triggered
// selects the triggered-replay variant; units is the physical unit of the
// replayed samples.
func New(id uint32, name string, units string, queue *event.Queue, clk *clock.Base, compiled stim.Compiled, triggered bool) *Waveform {
	w := &Waveform{
		Base:      entity.NewBase(id, name, units),
		queue:     queue,
		clk:       clk,
		samples:   compiled.Samples,
		triggered: triggered,
	}
	w.SetMetadata(compiled.Metadata)
	if triggered {
		w.pos = len(w.samples) // start silent, waiting for a TRIGGER
	}
	w.Init(w)
	return w
}

// Initialise rewinds the waveform to its starting state (free-running:
// position 0; triggered: silent, waiting for TRIGGER), mirroring the
// original's per-trial reset.
func (w *Waveform) Initialise() bool {
	w.resetQueued = false
	if w.triggered {
		w.pos = len(w.samples)
	} else {
		w.pos = 0
	}
	return true
}

// Len reports the compiled sample count.
func (w *Waveform) Len() int { return len(w.samples) }

// Output returns the sample at the current position, or 0 once exhausted
// (free-running) or while waiting for a trigger (triggered mode).
func (w *Waveform) Output() float64 {
	if w.pos < len(w.samples) {
		return w.samples[w.pos]
	}
	return 0
}

// Step advances position by one sample. Once position reaches the sample
// count, a RESET event is pushed exactly once (until HandleEvent rearms
// replay in triggered mode). The original emits RESET from output() itself
// when position first reaches the end; that's unsafe here because Output
// must be side-effect-free (§4.2: "must be cheap; may be called many times
// per tick"). Emitting from Step instead means RESET is queued during tick
// k's Step phase and delivered at tick k+1's Event phase (§4.1's general
// event-visibility rule), which is exactly how §8 scenario S1 describes
// "exactly 20000 ticks of 3.14, then a RESET event at tick 20001".
func (w *Waveform) Step() {
	if w.pos < len(w.samples) {
		w.pos++
		if w.pos == len(w.samples) && !w.resetQueued {
			w.queue.Push(event.New(event.RESET, w, w.clk.T()))
			w.resetQueued = true
		}
	}
}

// HandleEvent rearms a triggered Waveform on TRIGGER, restarting replay
// from position 0. A TRIGGER that arrives while a replay is still in
// progress is ignored.
func (w *Waveform) HandleEvent(e event.Event) {
	if w.triggered && e.Kind == event.TRIGGER && w.pos >= len(w.samples) {
		w.pos = 0
		w.resetQueued = false
	}
}
