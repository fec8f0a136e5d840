package clock

import "time"

// Base is the process-wide time base: a fixed tick period (Dt) and the
// simulation clock (T) it advances. Zero value is not usable; construct with
// New.
type Base struct {
	dt time.Duration
	t  float64 // seconds
}

// New quantises period to the underlying real-time clock's resolution
// (res) and returns a Base starting at T=0. A res <= 0 disables
// quantisation (the cooperative wall-clock backend's case).
func New(period, res time.Duration) *Base {
	if res > 0 {
		period = period.Round(res)
	}
	return &Base{dt: period}
}

// Dt returns the quantised tick period.
func (b *Base) Dt() time.Duration {
	return b.dt
}

// DtSeconds returns the tick period in seconds, the unit entities operate in.
func (b *Base) DtSeconds() float64 {
	return b.dt.Seconds()
}

// T returns the current simulation time in seconds.
func (b *Base) T() float64 {
	return b.t
}

// Reset sets T back to zero, as done at the start of every trial.
func (b *Base) Reset() {
	b.t = 0
}

// Advance moves T forward by one Dt and returns the new value. Called once
// per tick by the scheduler's Time-advance sub-phase (§4.1 step 3c).
func (b *Base) Advance() float64 {
	b.t += b.dt.Seconds()
	return b.t
}

// Ticks returns how many whole ticks correspond to duration d, rounding up,
// matching the stimulus compiler's ceil(T*fs) sample-count rule (§4.4) so
// the two packages agree on how a duration maps to a tick/sample count.
func (b *Base) Ticks(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	n := int(d / b.dt)
	if d%b.dt != 0 {
		n++
	}
	return n
}
