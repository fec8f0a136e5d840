package graphutil

import (
	"testing"
	"time"

	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
	"github.com/stretchr/testify/require"
)

func TestDelay_RejectsSelfLoop(t *testing.T) {
	d := NewDelay(entity.NextID(), "d", "mV", 1)
	require.Error(t, d.Connect(d))
}

// TestDelay_S3 reproduces §8 scenario S3: Const(5.0) -> Delay(N=3) -> Rec,
// sampled directly after each tick's Step phase (the recorder's sampling
// point, not via an extra Pre/Post latch edge — see recorder package doc
// for why).
func TestDelay_S3(t *testing.T) {
	c := entity.NewConst(entity.NextID(), "c", "mV", 5)
	d := NewDelay(entity.NextID(), "d", "mV", 3)
	require.NoError(t, c.Connect(d))

	var got []float64
	for tick := 0; tick < 10; tick++ {
		d.Latch() // scheduler's Latch phase
		d.Step()  // scheduler's Step phase
		got = append(got, d.Output())
	}

	require.Equal(t, []float64{0, 0, 0, 5, 5, 5, 5, 5, 5, 5}, got)
}

func TestConverter_S5(t *testing.T) {
	c := entity.NewConst(entity.NextID(), "c", "pA", 0)
	target := entity.NewConst(entity.NextID(), "neuron", "mV", 0)
	target.SetParameter("Iext", 0)

	conv := NewConverter(entity.NextID(), "conv")
	require.NoError(t, c.Connect(conv))
	require.NoError(t, conv.Bind(target, "Iext"))

	conv.Latch()
	conv.Step()
	p, ok := target.Parameter("Iext")
	require.True(t, ok)
	require.Zero(t, *p)

	c.Set(200)
	conv.Latch()
	conv.Step()
	require.Equal(t, 200.0, *p)
}

func TestEventCounter_InvariantNine(t *testing.T) {
	// "An EventCounter with maxCount=1 counting SPIKE and sending TRIGGER
	// emits exactly one TRIGGER per SPIKE."
	q := event.NewQueue()
	clk := clock.New(time.Millisecond, 0)
	ec := NewEventCounter(entity.NextID(), "ec", q, clk, event.SPIKE, 1, event.TRIGGER, true)

	const nSpikes = 5
	for i := 0; i < nSpikes; i++ {
		ec.HandleEvent(event.New(event.SPIKE, ec, clk.T()))
	}

	drained := q.DrainInto(nil)
	require.Len(t, drained, nSpikes)
	for _, e := range drained {
		require.Equal(t, event.TRIGGER, e.Kind)
	}
}

func TestEventCounter_ResetAlwaysZeroes(t *testing.T) {
	q := event.NewQueue()
	clk := clock.New(time.Millisecond, 0)
	ec := NewEventCounter(entity.NextID(), "ec", q, clk, event.SPIKE, 3, event.STOPRUN, false)

	ec.HandleEvent(event.New(event.SPIKE, ec, 0))
	ec.HandleEvent(event.New(event.SPIKE, ec, 0))
	require.Equal(t, 2, ec.Count())

	ec.HandleEvent(event.New(event.RESET, ec, 0))
	require.Equal(t, 0, ec.Count())
}

func TestPeriodicTrigger_S2(t *testing.T) {
	// PT(f=10) -> EC(max=3, count=TRIGGER, send=STOPRUN, autoReset=false).
	// At dt=1e-4, the trial should accumulate 3 TRIGGER entries by ~tick 3000.
	const dt = 1e-4
	q := event.NewQueue()
	clk := clock.New(time.Duration(dt*1e9), 0)
	pt := NewPeriodicTrigger(entity.NextID(), "pt", q, clk, 10)
	ec := NewEventCounter(entity.NextID(), "ec", q, clk, event.TRIGGER, 3, event.STOPRUN, false)

	var stopTick int
	for tick := 1; tick <= 4000; tick++ {
		clk.Advance()
		pt.Step()
		for _, e := range q.DrainInto(nil) {
			ec.HandleEvent(e)
		}
		if ec.Count() >= 3 && stopTick == 0 {
			stopTick = tick
		}
	}

	require.InDelta(t, 3000, stopTick, 2)
}

func TestSpikeRateEstimator_SlidingWindow(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	e := NewSpikeRateEstimator(entity.NextID(), "rate", clk, 1.0)

	for i := 0; i < 10; i++ {
		clk.Advance()
		e.HandleEvent(event.New(event.SPIKE, e, clk.T()))
	}
	e.Step()
	require.Equal(t, 10.0, e.Output())

	// advance far past the window: all spikes should age out
	for i := 0; i < 2000; i++ {
		clk.Advance()
	}
	e.Step()
	require.Zero(t, e.Output())
}
