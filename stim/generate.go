package stim

import (
	"fmt"
	"math"

	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/rng"
)

// Compiled is the stimulus compiler's output (§4.4): a contiguous sample
// array at the current sampling rate, and the original descriptor as a
// metadata matrix suitable for the recorder. Seeds actually drawn for rows
// that did not fix their own are written back into Metadata so a recording
// remains reproducible (§3, §4.4).
type Compiled struct {
	Samples  []float64
	Metadata entity.Metadata
}

// DurationSec returns the compiled stimulus's total duration, given the
// sampling period dt.
func (c Compiled) DurationSec(dt float64) float64 {
	return float64(len(c.Samples)) * dt
}

// Compile turns rows into a Compiled stimulus, sampling at 1/dt Hz.
//
// Composite rows: a row with Code < 0 introduces a composite whose |Code|
// component rows are the header row itself plus the |Code|-1 rows that
// follow it, per original_source/stimgen/generate_trial.c's
// composite_waveform (the header row's own Subcode/P1..P5/PrevOp fields are
// used for the first component) — the literal reading of spec.md §4.4 ("the
// next k rows") would instead skip the header, but the original resolves
// this in favor of reusing it, so we follow the original.
func Compile(rows []Row, dt float64) (Compiled, error) {
	if dt <= 0 {
		return Compiled{}, fmt.Errorf("stim: dt must be positive")
	}
	fs := 1 / dt

	if err := validateCodes(rows); err != nil {
		return Compiled{}, err
	}

	metaRows := make([][]float64, len(rows))
	var samples []float64

	i := 0
	for i < len(rows) {
		row := rows[i]
		if row.Code > 0 {
			n := samplesFor(row.DurationSec, fs)
			src, seed := sourceFor(row)
			chunk := generateKind(row.Code, row.P1, row.P2, row.P3, row.P4, row.P5, row.Exponent, n, dt, src, lastSample(samples))
			samples = append(samples, chunk...)
			metaRows[i] = rowToMetadata(row, seed)
			i++
			continue
		}

		howmany := int(-row.Code)
		if howmany < 1 || i+howmany > len(rows) {
			return Compiled{}, &ParseError{Line: row.line, Err: fmt.Errorf("composite row references %d rows beyond end of file", howmany)}
		}
		n := samplesFor(row.DurationSec, fs)
		combined := make([]float64, n)
		indexBeforeComposite := len(samples)

		for c := 0; c < howmany; c++ {
			child := rows[i+c]
			src, seed := sourceFor(child)
			last := 0.0
			if indexBeforeComposite > 0 {
				last = samples[indexBeforeComposite-1]
			}
			part := generateKind(child.Subcode, child.P1, child.P2, child.P3, child.P4, child.P5, child.Exponent, n, dt, src, last)
			if err := combineInto(combined, part, child.PrevOp); err != nil {
				return Compiled{}, &ParseError{Line: child.line, Err: err}
			}
			metaRows[i+c] = rowToMetadata(child, seed)
		}
		samples = append(samples, combined...)
		i += howmany
	}

	return Compiled{
		Samples: samples,
		Metadata: entity.Metadata{
			Label: "Stimulus_Matrix",
			Rows:  metaRows,
		},
	}, nil
}

func validCode(c Code) bool {
	return c >= DC && c <= Alpha
}

// validateCodes rejects unknown simple/child codes up front, per §4.4's
// "unknown code" error case, before any memory is committed to output.
func validateCodes(rows []Row) error {
	for i := 0; i < len(rows); {
		row := rows[i]
		if row.Code > 0 {
			if !validCode(row.Code) {
				return &ParseError{Line: row.line, Err: fmt.Errorf("unknown waveform code %d", int(row.Code))}
			}
			i++
			continue
		}
		howmany := int(-row.Code)
		if howmany < 1 || i+howmany > len(rows) {
			return &ParseError{Line: row.line, Err: fmt.Errorf("composite row references %d rows beyond end of file", howmany)}
		}
		for c := 0; c < howmany; c++ {
			child := rows[i+c]
			if !validCode(child.Subcode) {
				return &ParseError{Line: child.line, Err: fmt.Errorf("unknown waveform subcode %d", int(child.Subcode))}
			}
		}
		i += howmany
	}
	return nil
}

// samplesFor computes ceil(duration * fs), the §4.4 sample-count rule.
func samplesFor(durationSec, fs float64) int {
	n := int(math.Ceil(durationSec * fs))
	if n < 0 {
		n = 0
	}
	return n
}

func sourceFor(r Row) (*rng.Source, uint64) {
	if r.FixSeed {
		return rng.NewSource(r.Seed), r.Seed
	}
	return rng.NewHighEntropySource()
}

func lastSample(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)-1]
}

func rowToMetadata(r Row, seed uint64) []float64 {
	fixSeed := 0.0
	if r.FixSeed {
		fixSeed = 1
	}
	return []float64{
		r.DurationSec,
		float64(r.Code),
		r.P1, r.P2, r.P3, r.P4, r.P5,
		fixSeed,
		float64(seed),
		float64(r.Subcode),
		float64(r.PrevOp),
		r.Exponent,
	}
}

// combineInto folds part into dst in place using op (§4.4's prev_op). dst
// starts at zero for a fresh composite, matching the original's
// zero-initialized output buffer.
func combineInto(dst, part []float64, op Op) error {
	switch op {
	case OpMul:
		for i := range dst {
			dst[i] *= part[i]
		}
	case OpSub:
		for i := range dst {
			dst[i] -= part[i]
		}
	case OpDiv:
		for i := range dst {
			if part[i] == 0 {
				return fmt.Errorf("stim: division by exact zero in composite row")
			}
			dst[i] /= part[i]
		}
	default: // OpAdd, and any unrecognised value defaults to summation per the original
		for i := range dst {
			dst[i] += part[i]
		}
	}
	return nil
}

// applyExponent implements §4.4's rectification rule.
func applyExponent(x, expon float64) float64 {
	switch {
	case expon == -1:
		return math.Abs(x)
	case expon == 0:
		return math.Max(x, 0)
	case expon == 1:
		return x
	default:
		return math.Pow(x, expon)
	}
}

const twoPi = 2 * math.Pi

// generateKind dispatches to the formula selected by code, porting
// original_source/stimgen/waveforms.c's per-kind generators. prevSample is
// the last sample already written to the overall output (needed by Ramp,
// which ramps from wherever the stream currently stands).
func generateKind(code Code, p1, p2, p3, p4, p5, expon float64, n int, dt float64, src *rng.Source, prevSample float64) []float64 {
	out := make([]float64, n)
	switch code {
	case DC:
		amp := applyExponent(p1, expon)
		for i := range out {
			out[i] = amp
		}
	case OrnsteinUhlenbeck:
		generateOU(p1, p2, p3, expon, out, dt, src)
	case Sine:
		generateSine(p1, p2, p3, expon, out, dt)
	case Square:
		generateSquare(p1, p2, p3, expon, out, dt)
	case Saw:
		generateSaw(p1, p2, p3, expon, out, dt)
	case Sweep:
		generateSweep(p1, p2, expon, out, dt)
	case Ramp:
		generateRamp(p1, prevSample, expon, out)
	case PoissonShot1:
		generatePoissonShot1(p1, p2, p3, expon, out, dt, src)
	case PoissonShot2:
		generatePoissonShot2(p1, p2, p3, expon, out, dt, src)
	case Bipolar:
		generateBipolar(p1, p2, p3, expon, out, dt, src)
	case UniformNoise:
		generateUniformNoise(p1, p2, expon, out, src)
	case Alpha:
		generateAlpha(p1, p2, p3, expon, out, dt)
	default:
		// Unknown codes are rejected earlier, by Compile's call to
		// validateCodes; defensively fall back to silence.
	}
	return out
}

func generateOU(mean, std, tauMs, expon float64, out []float64, dt float64, src *rng.Source) {
	if std == 0 {
		amp := applyExponent(mean, expon)
		for i := range out {
			out[i] = amp
		}
		return
	}
	if tauMs <= 0 {
		for i := range out {
			out[i] = applyExponent(mean+std*src.StdNormal(), expon)
		}
		return
	}
	// dx = -x*dt/tau + mean*dt/tau + std*sqrt(2*dt/tau)*gauss(), tau in ms
	// (§9: the unit conversion from ms to s made explicit).
	tmp1 := dt * 1000 / tauMs
	tmp2 := mean * tmp1
	tmp3 := std * math.Sqrt(2*tmp1)
	x := mean
	for i := range out {
		out[i] = applyExponent(x, expon)
		x += tmp2 - tmp1*x + tmp3*src.StdNormal()
	}
}

func generateSine(amp, freq, phase, expon float64, out []float64, dt float64) {
	if freq == 0 {
		v := applyExponent(amp, expon)
		for i := range out {
			out[i] = v
		}
		return
	}
	w := twoPi * freq
	for i := range out {
		out[i] = applyExponent(amp*math.Sin(w*float64(i)*dt+phase), expon)
	}
}

func generateSquare(amp, freq, dutyPct, expon float64, out []float64, dt float64) {
	if freq == 0 {
		v := applyExponent(amp/2, expon)
		for i := range out {
			out[i] = v
		}
		return
	}
	period := (1 / freq) / dt
	high := dutyPct * 0.01 * period
	for i := range out {
		v := 2 * amp
		if math.Mod(float64(i), period) >= high {
			v = 0
		}
		out[i] = applyExponent(v-amp, expon)
	}
}

func generateSaw(amp, freq, dutyPct, expon float64, out []float64, dt float64) {
	if freq == 0 {
		v := applyExponent(amp/2, expon)
		for i := range out {
			out[i] = v
		}
		return
	}
	period := (1 / freq) / dt
	high := dutyPct * 0.01 * period
	rise := amp / high
	fall := amp / ((1 - dutyPct*0.01) * period)
	n := float64(len(out))
	for i := range out {
		fi := float64(i)
		var v float64
		if math.Mod(fi, period) <= high {
			v = rise * math.Mod(fi, period)
		} else {
			v = fall * math.Mod(n-fi, period)
		}
		out[i] = applyExponent(2*v-amp, expon)
	}
}

func generateSweep(amp, freqStart, freqStop float64, expon float64, out []float64, dt float64) {
	tmp1 := twoPi * freqStart
	tmp2 := twoPi * (freqStop - freqStart)
	n := float64(len(out))
	for i := range out {
		fi := float64(i)
		out[i] = applyExponent(amp*math.Sin((tmp1+fi/n*tmp2*0.5)*fi*dt), expon)
	}
}

func generateRamp(yFinal, yInit, expon float64, out []float64) {
	if len(out) == 0 {
		return
	}
	if yFinal == yInit {
		v := applyExponent(yInit, expon)
		for i := range out {
			out[i] = v
		}
		return
	}
	slope := (yFinal - yInit) / float64(len(out))
	for i := range out {
		out[i] = applyExponent(yInit+slope*float64(i), expon)
	}
}

// generatePoissonShot1 places amplitude-valued square pulses of width
// widthMs at Poisson-distributed (rate > 0) or perfectly periodic (rate <
// 0) intervals, per §4.4's "deterministic iff rate < 0"; rate 0 produces no
// pulses.
func generatePoissonShot1(amp, freq, widthMs, expon float64, out []float64, dt float64, src *rng.Source) {
	n := len(out)
	if freq == 0 || n == 0 {
		return
	}
	srate := 1 / dt
	amp = applyExponent(amp, expon)
	m := int(widthMs * srate / 1000)
	tmp := srate / freq

	if freq > 0 {
		j := 0
		for j < n {
			k := int(-math.Log(src.Float64()) * tmp)
			o := j + k
			if o+m < n {
				for i := o; i < o+m; i++ {
					out[i] = amp
				}
				j = o + m
			} else {
				j = n
			}
		}
		return
	}

	period := int(-tmp)
	if period < 1 {
		period = 1
	}
	for j := 0; j < n; j++ {
		if (j % period) < m {
			out[j] = amp
		}
	}
}

func generateBipolar(amp, freq, widthMs, expon float64, out []float64, dt float64, src *rng.Source) {
	n := len(out)
	if freq == 0 || n == 0 {
		return
	}
	srate := 1 / dt
	amp = applyExponent(amp, expon)
	m := int(widthMs * srate / 1000)
	half := m / 2
	tmp := srate / freq

	draw := func() int {
		if freq > 0 {
			return int(-math.Log(src.Float64()) * tmp)
		}
		return int(-tmp)
	}

	j := 0
	for j < n {
		k := draw()
		o := j + k
		if o+m+m < n {
			for i := o; i < o+half; i++ {
				out[i] = amp
			}
			for i := o + half; i < o+m; i++ {
				out[i] = -amp
			}
			j = o + m
		} else {
			j = n
		}
	}
}

// generatePoissonShot2 fires amp-sized impulses at Poisson/periodic
// intervals that decay exponentially with time constant tauMs between
// events, per waveforms.c's POISSON_SHOT2.
func generatePoissonShot2(amp, freq, tauMs, expon float64, out []float64, dt float64, src *rng.Source) {
	n := len(out)
	if freq == 0 || n == 0 {
		return
	}
	if tauMs < dt*1000 {
		tauMs = 10 * dt * 1000
	}
	srate := 1 / dt
	tmp1 := srate / freq
	decay := 1 - (dt*1000)/tauMs

	events := make(map[int]bool)
	j := 0
	for j < n {
		var k int
		if freq > 0 {
			k = int(-math.Log(src.Float64()) * tmp1)
			if k == 0 {
				k = 1
			}
		} else {
			k = int(-tmp1)
		}
		o := j + k
		if o >= n {
			break
		}
		events[o] = true
		j = o
	}

	x := 0.0
	for i := 0; i < n; i++ {
		out[i] = applyExponent(x, expon)
		if events[i] {
			x = amp
		} else {
			x *= decay
		}
	}
}

func generateUniformNoise(mean, std, expon float64, out []float64, src *rng.Source) {
	if std == 0 {
		v := applyExponent(mean, expon)
		for i := range out {
			out[i] = v
		}
		return
	}
	const sqrt12 = 3.464101615137754
	for i := range out {
		out[i] = applyExponent(mean+std*sqrt12*(src.Float64()-0.5), expon)
	}
}

// generateAlpha implements the normalized double-exponential alpha function
// (amplitude, rise time, decay time, both in ms) from Phase Response Curves
// in Neuroscience, p.102.
func generateAlpha(amp, trMs, tdMs, expon float64, out []float64, dt float64) {
	if amp == 0 {
		return
	}
	tr := trMs / 1000
	td := tdMs / 1000
	peakT := (tr * td / (td - tr)) * math.Log(td/tr)
	norm := (math.Exp(-peakT/tr) - math.Exp(-peakT/td)) / (tr - td)
	srate := 1 / dt
	for i := range out {
		t := float64(i) / srate
		out[i] = applyExponent(amp*(1/(norm*(td-tr)))*(math.Exp(-t/td)-math.Exp(-t/tr)), expon)
	}
}
