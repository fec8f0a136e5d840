package recorder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
)

// fakeStore is a recording-only store double: it accumulates exactly what a
// real HDF5 file would hold, without linking cgo.
type fakeStore struct {
	mu sync.Mutex

	opened  bool
	sources []sourceInfo
	data    [][]float64
	events  struct {
		codes, senders []int32
		timestamps     []float64
	}
	comments []string
	infos    []Info
	closed   bool

	failOpen bool
	failOnce bool // fail the next AppendSamples call, then succeed
}

func (f *fakeStore) Open(sources []sourceInfo) error {
	if f.failOpen {
		return assert.AnError
	}
	f.opened = true
	f.sources = sources
	f.data = make([][]float64, len(sources))
	return nil
}

func (f *fakeStore) WriteInfo(info Info) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos = append(f.infos, info)
	return nil
}

func (f *fakeStore) AppendSamples(idx int, chunk []float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOnce {
		f.failOnce = false
		return assert.AnError
	}
	f.data[idx] = append(f.data[idx], chunk...)
	return nil
}

func (f *fakeStore) AppendEvents(codes, senders []int32, timestamps []float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.codes = append(f.events.codes, codes...)
	f.events.senders = append(f.events.senders, senders...)
	f.events.timestamps = append(f.events.timestamps, timestamps...)
	return nil
}

func (f *fakeStore) WriteComments(messages []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = append(f.comments, messages...)
	return nil
}

func (f *fakeStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeStore) snapshotData(idx int) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]float64, len(f.data[idx]))
	copy(out, f.data[idx])
	return out
}

// TestRecorder_InvariantFour reproduces §8 invariant 4: the number of
// samples written for an entity equals the number of ticks executed,
// exactly, after close — using a chunk size that does not evenly divide
// the tick count, so both a full flush and a partial Terminate flush are
// exercised.
func TestRecorder_InvariantFour(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	src := entity.NewConst(entity.NextID(), "c", "pA", 1)
	fs := &fakeStore{}
	r := newWithStore(entity.NextID(), "rec", clk, fs, 7)
	require.NoError(t, src.Connect(r))
	require.True(t, r.Initialise())

	const ticks = 23
	for i := 0; i < ticks; i++ {
		r.Latch()
		src.Step()
		r.Step()
	}
	r.Terminate()

	assert.Len(t, fs.snapshotData(0), ticks)
	assert.True(t, fs.closed)
	require.NotEmpty(t, fs.infos)
	last := fs.infos[len(fs.infos)-1]
	assert.Equal(t, int64(2), last.Version)
}

// TestRecorder_Roundtrip reproduces §8 round-trip law 6: writing a known
// sequence and reading it back yields the sequence bitwise-identical.
func TestRecorder_Roundtrip(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	src := entity.NewConst(entity.NextID(), "c", "pA", 0)
	fs := &fakeStore{}
	r := newWithStore(entity.NextID(), "rec", clk, fs, 4)
	require.NoError(t, src.Connect(r))
	require.True(t, r.Initialise())

	want := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	for _, v := range want {
		src.Set(v)
		r.Latch()
		src.Step()
		r.Step()
	}
	r.Terminate()

	assert.Equal(t, want, fs.snapshotData(0))
}

// TestRecorder_BackPressure verifies that Step still delivers every sample
// to the store even when the writer is momentarily slower than the RT
// thread — a blocking channel send, not data loss.
func TestRecorder_BackPressure(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	src := entity.NewConst(entity.NextID(), "c", "pA", 3)
	fs := &fakeStore{}
	r := newWithStore(entity.NextID(), "rec", clk, fs, 2)
	require.NoError(t, src.Connect(r))
	require.True(t, r.Initialise())

	const ticks = 50
	for i := 0; i < ticks; i++ {
		r.Latch()
		src.Step()
		r.Step()
	}
	r.Terminate()

	assert.Len(t, fs.snapshotData(0), ticks)
}

// TestRecorder_WriteFailureIsolatedFromRTThread: a write failure in the
// writer goroutine is logged and the chunk dropped, never surfaced to
// Step/HandleEvent (§4.3's "errors in the recorder are isolated to its
// writer thread").
func TestRecorder_WriteFailureIsolatedFromRTThread(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	src := entity.NewConst(entity.NextID(), "c", "pA", 1)
	fs := &fakeStore{failOnce: true}
	r := newWithStore(entity.NextID(), "rec", clk, fs, 3)
	require.NoError(t, src.Connect(r))
	require.True(t, r.Initialise())

	require.NotPanics(t, func() {
		for i := 0; i < 10; i++ {
			r.Latch()
			src.Step()
			r.Step()
		}
		r.Terminate()
	})
}

func TestRecorder_RecordsEvents(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	fs := &fakeStore{}
	r := newWithStore(entity.NextID(), "rec", clk, fs, 1024)
	require.True(t, r.Initialise())

	sender := entity.NewConst(entity.NextID(), "trig", "", 0)
	r.HandleEvent(event.New(event.TRIGGER, sender, 0.1))
	r.HandleEvent(event.New(event.RESET, sender, 0.2))
	r.Terminate()

	assert.Equal(t, []int32{int32(event.TRIGGER), int32(event.RESET)}, fs.events.codes)
	assert.Equal(t, []float64{0.1, 0.2}, fs.events.timestamps)
}

func TestRecorder_OpenFailureAbortsInitialise(t *testing.T) {
	clk := clock.New(time.Millisecond, 0)
	fs := &fakeStore{failOpen: true}
	r := newWithStore(entity.NextID(), "rec", clk, fs, 1024)
	assert.False(t, r.Initialise())
}

// fakeTriggeredStore is a recording-only double for TriggeredRecorder's
// store.
type fakeTriggeredStore struct {
	mu sync.Mutex

	windowLen int
	columns   [][][]float64 // per source, one captured window per trigger
	events    struct {
		codes, senders []int32
		timestamps     []float64
	}
	closed bool
}

func (f *fakeTriggeredStore) Open(sources []sourceInfo, windowLen int) error {
	f.windowLen = windowLen
	f.columns = make([][][]float64, len(sources))
	return nil
}

func (f *fakeTriggeredStore) WriteInfo(Info) error { return nil }

func (f *fakeTriggeredStore) AppendColumn(idx int, column []float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]float64, len(column))
	copy(cp, column)
	f.columns[idx] = append(f.columns[idx], cp)
	return nil
}

func (f *fakeTriggeredStore) AppendEvents(codes, senders []int32, timestamps []float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.codes = append(f.events.codes, codes...)
	f.events.senders = append(f.events.senders, senders...)
	f.events.timestamps = append(f.events.timestamps, timestamps...)
	return nil
}

func (f *fakeTriggeredStore) WriteComments([]string) error { return nil }

func (f *fakeTriggeredStore) Close() error {
	f.closed = true
	return nil
}

// TestTriggeredRecorder_S6 reproduces §8 scenario S6: before=0.1s,
// after=0.2s at dt=0.01s (so beforeTicks=10, afterTicks=20), a single
// TRIGGER at t=0.5s captures the window [0.4, 0.7] inclusive.
func TestTriggeredRecorder_S6(t *testing.T) {
	clk := clock.New(10*time.Millisecond, 0) // dt = 0.01s
	src := entity.NewConst(entity.NextID(), "c", "mV", 0)
	fs := &fakeTriggeredStore{}
	tr := newTriggeredWithStore(entity.NextID(), "trec", clk, fs, 0.1, 0.2)
	require.NoError(t, src.Connect(tr))
	require.True(t, tr.Initialise())

	// Drive the value equal to the simulation time at each tick, so the
	// captured window's contents double as a timestamp record.
	const totalTicks = 100 // 1.0s at dt=0.01s
	var triggered bool
	for i := 0; i < totalTicks; i++ {
		clk.Advance()
		simT := clk.T()
		src.Set(simT)
		tr.Latch()
		// HandleEvent precedes Step within a tick (§4.1's Event-phase-before-
		// Step-phase order), so arming happens before this tick's sample is
		// pushed: the arming tick's own sample is the window's trigger
		// sample, preceded by 10 "before" and followed by 20 "after" samples.
		if !triggered && simT >= 0.5 {
			tr.HandleEvent(event.New(event.TRIGGER, src, simT))
			triggered = true
		}
		src.Step()
		tr.Step()
	}
	tr.Terminate()

	require.Len(t, fs.columns[0], 1)
	window := fs.columns[0][0]
	require.Len(t, window, 10+20+1)
	assert.InDelta(t, 0.4, window[0], 1e-9)
	assert.InDelta(t, 0.5, window[10], 1e-9)
	assert.InDelta(t, 0.7, window[len(window)-1], 1e-9)
}
