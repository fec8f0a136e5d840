package analogio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
)

// fakePort is an in-memory Port double: Read returns a scripted sequence of
// (value, error) pairs, Write records every value it's given.
type fakePort struct {
	reads     []float64
	readErrs  []error
	readIdx   int
	written   []float64
	writeErr  error
	closed    bool
}

func (p *fakePort) Read() (float64, error) {
	var err error
	if p.readIdx < len(p.readErrs) {
		err = p.readErrs[p.readIdx]
	}
	var v float64
	if p.readIdx < len(p.reads) {
		v = p.reads[p.readIdx]
	}
	p.readIdx++
	return v, err
}

func (p *fakePort) Write(v float64) error {
	p.written = append(p.written, v)
	return p.writeErr
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestAnalogInput_AppliesConversionAndGroundReference(t *testing.T) {
	q := event.NewQueue()
	clk := clock.New(time.Millisecond, 0)
	port := &fakePort{reads: []float64{1.0, 2.0}}
	in := NewAnalogInput(entity.NextID(), "ai", "mV", port, 10, 0.5, q, clk, 0)

	in.Step()
	assert.InDelta(t, 9.5, in.Output(), 1e-9) // 1.0*10 - 0.5

	in.Step()
	assert.InDelta(t, 19.5, in.Output(), 1e-9)
}

func TestAnalogInput_HoldsLastSampleOnFailure(t *testing.T) {
	q := event.NewQueue()
	clk := clock.New(time.Millisecond, 0)
	port := &fakePort{reads: []float64{5, 0}, readErrs: []error{nil, assertErr}}
	in := NewAnalogInput(entity.NextID(), "ai", "mV", port, 1, 0, q, clk, 0)

	in.Step()
	assert.Equal(t, 5.0, in.Output())
	in.Step() // errors; should hold previous sample
	assert.Equal(t, 5.0, in.Output())
}

func TestAnalogInput_EscalatesToStopRunAfterThreshold(t *testing.T) {
	q := event.NewQueue()
	clk := clock.New(time.Millisecond, 0)
	port := &fakePort{readErrs: []error{assertErr, assertErr, assertErr}}
	in := NewAnalogInput(entity.NextID(), "ai", "mV", port, 1, 0, q, clk, 2)

	in.Step()
	assert.Zero(t, q.Len())
	in.Step()
	require.Equal(t, 1, q.Len())
	drained := q.DrainInto(nil)
	assert.Equal(t, event.STOPRUN, drained[0].Kind)
}

func TestAnalogOutput_WritesConvertedInput(t *testing.T) {
	q := event.NewQueue()
	clk := clock.New(time.Millisecond, 0)
	port := &fakePort{}
	src := entity.NewConst(entity.NextID(), "c", "pA", 100)
	out := NewAnalogOutput(entity.NextID(), "ao", "pA", port, 10, q, clk, 0)
	require.NoError(t, src.Connect(out))

	out.Latch()
	out.Step()
	require.Len(t, port.written, 1)
	assert.InDelta(t, 10.0, port.written[0], 1e-9) // 100/10
}

func TestAnalogOutput_TerminateZeroesAndCloses(t *testing.T) {
	q := event.NewQueue()
	clk := clock.New(time.Millisecond, 0)
	port := &fakePort{}
	out := NewAnalogOutput(entity.NextID(), "ao", "pA", port, 1, q, clk, 0)

	out.Terminate()
	require.Len(t, port.written, 1)
	assert.Equal(t, 0.0, port.written[0])
	assert.True(t, port.closed)
}

func TestAnalogIO_WriteThenRead(t *testing.T) {
	q := event.NewQueue()
	clk := clock.New(time.Millisecond, 0)
	inPort := &fakePort{reads: []float64{2}}
	outPort := &fakePort{}
	src := entity.NewConst(entity.NextID(), "c", "mV", 20)
	io := NewAnalogIO(entity.NextID(), "io", "mV", inPort, outPort, 1, 2, 0, q, clk, 0)
	require.NoError(t, src.Connect(io))

	io.Latch()
	io.Step()
	require.Len(t, outPort.written, 1)
	assert.InDelta(t, 10.0, outPort.written[0], 1e-9) // 20/2
	assert.InDelta(t, 2.0, io.Output(), 1e-9)          // 2*1 - 0
}

var assertErr = assertError("simulated I/O failure")

type assertError string

func (e assertError) Error() string { return string(e) }
