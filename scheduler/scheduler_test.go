package scheduler

import (
	"testing"
	"time"

	"github.com/rtdyn/dynclamp"
	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
	"github.com/rtdyn/dynclamp/graphutil"
	"github.com/rtdyn/dynclamp/lifecycle"
	"github.com/stretchr/testify/require"
)

// fastBackend never actually sleeps, so tests run in microseconds
// regardless of the configured Dt.
type fastBackend struct{ calls int }

func (b *fastBackend) SleepUntil(time.Time) error {
	b.calls++
	return nil
}

func TestSimulate_RunsExpectedTickCount(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	q := event.NewQueue()
	be := &fastBackend{}
	s := New(clk, q, be)
	s.Program = lifecycle.NewFlag(true)

	c := entity.NewConst(entity.NextID(), "c", "mV", 1)
	d := graphutil.NewDelay(entity.NextID(), "d", "mV", 1)
	require.NoError(t, c.Connect(d))

	res := s.Simulate([]entity.Entity{c, d}, 0.01) // ~10 ticks @ 1ms

	require.Equal(t, dynclamp.StatusOK, res.Status)
	require.NoError(t, res.Err)
	require.InDelta(t, 11, res.Stats.Ticks, 1) // t <= tEnd, inclusive boundary tick; FP rounding tolerance
	require.Equal(t, int(res.Stats.Ticks), be.calls)
}

func TestSimulate_ProgramFlagCancels(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	q := event.NewQueue()
	be := &fastBackend{}
	s := New(clk, q, be)
	program := lifecycle.NewFlag(true)
	s.Program = program

	c := entity.NewConst(entity.NextID(), "c", "mV", 1)

	go func() {
		program.Set(false)
	}()

	res := s.Simulate([]entity.Entity{c}, 1000) // would run "forever" without cancellation

	require.Equal(t, dynclamp.StatusCancelled, res.Status)
	require.ErrorIs(t, res.Err, dynclamp.ErrCancelled)
}

func TestSimulate_STOPRUNEventCancels(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	q := event.NewQueue()
	be := &fastBackend{}
	s := New(clk, q, be)
	s.Program = lifecycle.NewFlag(true)

	ec := graphutil.NewEventCounter(entity.NextID(), "ec", q, clk, event.SPIKE, 1, event.STOPRUN, false)
	ec.HandleEvent(event.New(event.SPIKE, ec, 0)) // pre-arms a STOPRUN for tick 1's Event phase

	res := s.Simulate([]entity.Entity{ec}, 1000)

	require.Equal(t, dynclamp.StatusCancelled, res.Status)
	require.LessOrEqual(t, res.Stats.Ticks, uint64(2))
}

func TestSimulate_InitialiseFailureAborts(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	q := event.NewQueue()
	be := &fastBackend{}
	s := New(clk, q, be)
	s.Program = lifecycle.NewFlag(true)

	ok := &trackingEntity{Base: entity.NewBase(entity.NextID(), "ok", "")}
	ok.Init(ok)
	fail := &failingInit{Base: entity.NewBase(entity.NextID(), "fail", "")}
	fail.Init(fail)

	res := s.Simulate([]entity.Entity{ok, fail}, 1)

	require.Equal(t, dynclamp.StatusIOError, res.Status)
	require.ErrorIs(t, res.Err, dynclamp.ErrInitialiseFailed)
	require.EqualValues(t, 0, res.Stats.Ticks)
	require.True(t, ok.terminated)    // already-initialised entities still get terminated
	require.False(t, fail.terminated) // never finished Initialise, so never Terminate'd
}

type trackingEntity struct {
	entity.Base
	terminated bool
}

func (*trackingEntity) Step()            {}
func (*trackingEntity) Output() float64  { return 0 }
func (*trackingEntity) Initialise() bool { return true }
func (t *trackingEntity) Terminate()     { t.terminated = true }

type failingInit struct {
	entity.Base
	terminated bool
}

func (*failingInit) Step()           {}
func (*failingInit) Output() float64 { return 0 }
func (*failingInit) Initialise() bool {
	return false
}
func (f *failingInit) Terminate() { f.terminated = true }
