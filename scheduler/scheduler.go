package scheduler

import (
	"fmt"
	"time"

	"github.com/rtdyn/dynclamp"
	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
	"github.com/rtdyn/dynclamp/lifecycle"
	"github.com/rtdyn/dynclamp/logging"
)

// Stats accumulates per-trial tick timing statistics, the Go equivalent of
// the original's time_logger.{h,cpp} (§3 SUPPLEMENTED FEATURES): how long
// each tick's Event+Latch+Step work took, and how many ticks overran the
// backend's sleep-until deadline.
type Stats struct {
	Ticks     uint64
	Overruns  uint64
	MinTick   time.Duration
	MaxTick   time.Duration
	TotalTick time.Duration
	Elapsed   time.Duration
}

// Mean returns the average tick-work duration, or 0 if no ticks ran.
func (s Stats) Mean() time.Duration {
	if s.Ticks == 0 {
		return 0
	}
	return s.TotalTick / time.Duration(s.Ticks)
}

func (s *Stats) observe(d time.Duration, overran bool) {
	if s.Ticks == 0 || d < s.MinTick {
		s.MinTick = d
	}
	if d > s.MaxTick {
		s.MaxTick = d
	}
	s.TotalTick += d
	s.Ticks++
	if overran {
		s.Overruns++
	}
}

// Result is Simulate's return value: §4.1's {ok, cancelled, io_error}
// status, plus the accumulated Stats and (for io_error) the causing error.
type Result struct {
	Status dynclamp.Status
	Stats  Stats
	Err    error
}

// Scheduler runs trials over a fixed clock, event queue, and timing
// backend. The zero value is not usable; construct with New.
type Scheduler struct {
	Clock   *clock.Base
	Queue   *event.Queue
	Backend Backend
	Log     *logging.Logger

	// Program is the process-wide cancellation flag SIGINT/SIGHUP clears
	// (§4.1's "program-run flag"). Defaults to lifecycle.Program.
	Program *lifecycle.Flag

	// OverrunThreshold aborts the trial with StatusIOError once this many
	// ticks have overrun their deadline (§4.1's "missed deadline threshold
	// exceeded"). Zero disables the check — overruns are logged only.
	OverrunThreshold uint64

	trial *lifecycle.Flag
}

// New constructs a Scheduler driven by clk and queue, using backend as the
// sleep-until-next-period primitive.
func New(clk *clock.Base, queue *event.Queue, backend Backend) *Scheduler {
	return &Scheduler{
		Clock:   clk,
		Queue:   queue,
		Backend: backend,
		Log:     logging.Default,
		Program: lifecycle.Program,
	}
}

// Stop requests cancellation of the in-progress trial, equivalent to a
// caller-driven SIGINT: the current tick completes, terminate still runs.
func (s *Scheduler) Stop() {
	if s.trial != nil {
		s.trial.Set(false)
	}
}

// Simulate runs one trial to completion, cancellation, or failure (§4.1's
// simulate(entities, t_end) -> {ok, cancelled, io_error}).
func (s *Scheduler) Simulate(entities []entity.Entity, tEnd float64) Result {
	program := s.Program
	if program == nil {
		program = lifecycle.Program
	}
	trial := lifecycle.NewFlag(true)
	s.trial = trial

	s.Clock.Reset()

	initialised := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if init, ok := e.(entity.Initialiser); ok {
			if !init.Initialise() {
				terminate(initialised)
				err := fmt.Errorf("scheduler: entity %q: %w", e.Name(), dynclamp.ErrInitialiseFailed)
				s.Log.Err().Str("entity", e.Name()).Log("initialise failed, aborting trial")
				return Result{Status: dynclamp.StatusIOError, Err: err}
			}
		}
		initialised = append(initialised, e)
	}

	var stats Stats
	start := time.Now()
	deadline := start.Add(s.Clock.Dt())
	var drained []event.Event
	status := dynclamp.StatusOK
	var resultErr error

	for trial.Get() && program.Get() && s.Clock.T() <= tEnd {
		tickStart := time.Now()

		// a. Event phase: drain events queued on the previous tick.
		drained = s.Queue.DrainInto(drained[:0])
		for _, ev := range drained {
			if ev.Kind == event.STOPRUN {
				trial.Set(false)
			}
			if sender, ok := ev.Sender.(entity.Entity); ok {
				for _, post := range sender.Post() {
					post.HandleEvent(ev)
				}
			}
		}

		// b. Latch phase: construction-order snapshot of every Pre output.
		for _, e := range entities {
			if l, ok := e.(interface{ Latch() }); ok {
				l.Latch()
			}
		}

		// c. Time advance.
		s.Clock.Advance()

		// d. Step phase.
		for _, e := range entities {
			e.Step()
		}

		overran := time.Now().After(deadline)
		stats.observe(time.Since(tickStart), overran)
		if overran {
			s.Log.Warning().Dur("over", time.Since(deadline)).Uint64("tick", stats.Ticks).Log("tick overran deadline")
			if s.OverrunThreshold > 0 && stats.Overruns >= s.OverrunThreshold {
				status = dynclamp.StatusIOError
				resultErr = fmt.Errorf("scheduler: %w: %d ticks overran deadline", dynclamp.ErrIOError, stats.Overruns)
				break
			}
		}

		// e. Sleep-until-next-period.
		if err := s.Backend.SleepUntil(deadline); err != nil {
			status = dynclamp.StatusIOError
			resultErr = fmt.Errorf("scheduler: %w: %v", dynclamp.ErrIOError, err)
			break
		}
		deadline = deadline.Add(s.Clock.Dt())
	}

	if status == dynclamp.StatusOK && !program.Get() {
		status = dynclamp.StatusCancelled
		resultErr = dynclamp.ErrCancelled
	} else if status == dynclamp.StatusOK && !trial.Get() {
		status = dynclamp.StatusCancelled
		resultErr = dynclamp.ErrCancelled
	}

	trial.Set(false)
	terminate(entities)
	stats.Elapsed = time.Since(start)

	s.Log.Notice().
		Str("status", status.String()).
		Uint64("ticks", stats.Ticks).
		Uint64("overruns", stats.Overruns).
		Dur("elapsed", stats.Elapsed).
		Log("trial finished")

	return Result{Status: status, Stats: stats, Err: resultErr}
}

func terminate(entities []entity.Entity) {
	for _, e := range entities {
		if t, ok := e.(entity.Terminator); ok {
			t.Terminate()
		}
	}
}
