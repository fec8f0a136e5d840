package analogio

import (
	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
	"github.com/rtdyn/dynclamp/logging"
)

// failureTracker implements §7's runtime I/O error rule: a read/write
// failure is logged and the entity holds its last-known sample; a run of
// maxConsecutive failures within the same trial escalates to a STOPRUN
// event, surfacing the domain error without the entity itself returning
// one (§7: "domain errors are surfaced via a STOPRUN event").
type failureTracker struct {
	queue         *event.Queue
	clk           *clock.Base
	log           *logging.Logger
	maxConsecutive int
	count          int
}

func (f *failureTracker) ok() {
	f.count = 0
}

func (f *failureTracker) fail(sender event.Sender, err error) {
	f.count++
	f.log.Warning().Err(err).Int("consecutive", f.count).Log("analogio: I/O failure, holding last sample")
	if f.maxConsecutive > 0 && f.count >= f.maxConsecutive {
		f.queue.Push(event.New(event.STOPRUN, sender, f.clk.T()))
	}
}

// AnalogInput samples a Port once per tick, applying a conversion factor
// and ground-reference offset, and reports the result as its Output.
// Grounded on AnalogInput in analog_io.h.
type AnalogInput struct {
	entity.Base
	port             Port
	conversionFactor float64
	groundReference  float64
	tracker          failureTracker

	sample float64
}

// NewAnalogInput constructs an AnalogInput reading port once per tick.
// Readings are scaled by conversionFactor and offset by -groundReference
// (the original's GRSE/NRSE reference handling, collapsed to one additive
// constant here since this package doesn't model Comedi's reference
// enumeration). maxConsecutiveFailures <= 0 disables the STOPRUN escalation.
func NewAnalogInput(id uint32, name, units string, port Port, conversionFactor, groundReference float64, queue *event.Queue, clk *clock.Base, maxConsecutiveFailures int) *AnalogInput {
	a := &AnalogInput{
		Base:             entity.NewBase(id, name, units),
		port:             port,
		conversionFactor: conversionFactor,
		groundReference:  groundReference,
		tracker:          failureTracker{queue: queue, clk: clk, log: logging.Default, maxConsecutive: maxConsecutiveFailures},
	}
	a.Init(a)
	return a
}

// Step samples the port, converting the raw reading to physical units.
func (a *AnalogInput) Step() {
	raw, err := a.port.Read()
	if err != nil {
		a.tracker.fail(a, err)
		return
	}
	a.tracker.ok()
	a.sample = raw*a.conversionFactor - a.groundReference
}

// Output returns the most recently converted sample.
func (a *AnalogInput) Output() float64 {
	return a.sample
}

// AnalogOutput writes its single latched input to a Port once per tick,
// converting from physical units back to the port's raw scale. Grounded on
// AnalogOutput in analog_io.h.
type AnalogOutput struct {
	entity.Base
	port             Port
	conversionFactor float64
	tracker          failureTracker
}

// NewAnalogOutput constructs an AnalogOutput driving port from its single
// Pre entity's latched output.
func NewAnalogOutput(id uint32, name, units string, port Port, conversionFactor float64, queue *event.Queue, clk *clock.Base, maxConsecutiveFailures int) *AnalogOutput {
	a := &AnalogOutput{
		Base:             entity.NewBase(id, name, units),
		port:             port,
		conversionFactor: conversionFactor,
		tracker:          failureTracker{queue: queue, clk: clk, log: logging.Default, maxConsecutive: maxConsecutiveFailures},
	}
	a.Init(a)
	return a
}

// Step writes the latched input (0 if unconnected) to the port.
func (a *AnalogOutput) Step() {
	in := a.Inputs()
	var v float64
	if len(in) > 0 {
		v = in[0]
	}
	if err := a.port.Write(v / a.conversionFactor); err != nil {
		a.tracker.fail(a, err)
		return
	}
	a.tracker.ok()
}

// Output always reports 0: an AnalogOutput has no downstream consumers.
func (a *AnalogOutput) Output() float64 { return 0 }

// Terminate zeroes the output and releases the port, mirroring the
// original AnalogOutput destructor's behavior of leaving the channel at
// rest.
func (a *AnalogOutput) Terminate() {
	_ = a.port.Write(0)
	_ = a.port.Close()
}

// AnalogIO combines an input channel and an output channel on one entity,
// for the common case of a single DAQ device doing both (§6's single
// device/subdevice pair). Grounded on AnalogIO in analog_io.h.
type AnalogIO struct {
	entity.Base
	in  Port
	out Port

	inConversionFactor  float64
	outConversionFactor float64
	groundReference     float64

	tracker failureTracker
	sample  float64
}

// NewAnalogIO constructs a combined AnalogIO entity over separate input and
// output ports (a front-end wiring both to the same physical device is the
// common case, but nothing here requires it).
func NewAnalogIO(id uint32, name, units string, in, out Port, inConversionFactor, outConversionFactor, groundReference float64, queue *event.Queue, clk *clock.Base, maxConsecutiveFailures int) *AnalogIO {
	a := &AnalogIO{
		Base:                entity.NewBase(id, name, units),
		in:                  in,
		out:                 out,
		inConversionFactor:  inConversionFactor,
		outConversionFactor: outConversionFactor,
		groundReference:     groundReference,
		tracker:             failureTracker{queue: queue, clk: clk, log: logging.Default, maxConsecutive: maxConsecutiveFailures},
	}
	a.Init(a)
	return a
}

// Step writes the latched input and samples the input channel, in that
// order, matching the original's step() (write-then-read within one tick).
func (a *AnalogIO) Step() {
	in := a.Inputs()
	var toWrite float64
	if len(in) > 0 {
		toWrite = in[0]
	}
	if err := a.out.Write(toWrite / a.outConversionFactor); err != nil {
		a.tracker.fail(a, err)
	} else {
		a.tracker.ok()
	}

	raw, err := a.in.Read()
	if err != nil {
		a.tracker.fail(a, err)
		return
	}
	a.tracker.ok()
	a.sample = raw*a.inConversionFactor - a.groundReference
}

// Output returns the most recently sampled input value.
func (a *AnalogIO) Output() float64 { return a.sample }

// Terminate zeroes the output channel and releases both ports.
func (a *AnalogIO) Terminate() {
	_ = a.out.Write(0)
	_ = a.out.Close()
	_ = a.in.Close()
}
