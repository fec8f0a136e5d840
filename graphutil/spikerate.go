package graphutil

import (
	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
)

// SpikeRateEstimator maintains a sliding window of recent SPIKE event
// timestamps and reports their rate in Hz via Output. Recovered from
// original_source/src/probability_estimator.h per SPEC_FULL.md's
// supplemented features — the original estimates a firing probability from
// inter-spike timing; this keeps the same "sliding window over spike
// timestamps" shape but reports the simpler, more broadly useful
// instantaneous rate.
type SpikeRateEstimator struct {
	entity.Base
	clk      *clock.Base
	window   float64 // seconds
	times    []float64
}

// NewSpikeRateEstimator constructs an estimator with a sliding window of
// windowSeconds.
func NewSpikeRateEstimator(id uint32, name string, clk *clock.Base, windowSeconds float64) *SpikeRateEstimator {
	e := &SpikeRateEstimator{Base: entity.NewBase(id, name, "Hz"), clk: clk, window: windowSeconds}
	e.Init(e)
	return e
}

// HandleEvent records SPIKE event timestamps, dropping events with no
// sender needed (only the timestamp matters).
func (e *SpikeRateEstimator) HandleEvent(ev event.Event) {
	if ev.Kind != event.SPIKE {
		return
	}
	e.times = append(e.times, ev.Timestamp)
}

// Step evicts timestamps that have fallen outside the sliding window.
func (e *SpikeRateEstimator) Step() {
	cutoff := e.clk.T() - e.window
	i := 0
	for ; i < len(e.times); i++ {
		if e.times[i] >= cutoff {
			break
		}
	}
	if i > 0 {
		e.times = append(e.times[:0], e.times[i:]...)
	}
}

// Output returns the estimated spike rate in Hz over the configured window.
func (e *SpikeRateEstimator) Output() float64 {
	if e.window <= 0 {
		return 0
	}
	return float64(len(e.times)) / e.window
}
