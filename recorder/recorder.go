package recorder

import (
	"sync"
	"time"

	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
	"github.com/rtdyn/dynclamp/logging"
)

// jobKind tags a flushJob with the store operation it carries.
type jobKind int

const (
	jobSamples jobKind = iota
	jobEvents
	jobComments
	jobFinal
)

// flushJob is one unit handed from the RT thread to the writer goroutine:
// either a filled sample chunk for one source, a filled event chunk, a
// batch of comment strings, or (at Terminate) the final tend value. Once
// sent, the RT thread never touches the contained slices again — ownership
// transfers through the channel, the Go equivalent of §4.3's "buffer index"
// hand-off.
type flushJob struct {
	kind jobKind

	idx     int
	samples []float64

	codes      []int32
	senders    []int32
	timestamps []float64

	comments []string

	tend float64
}

// Recorder is a sink entity: every entity Connect()ed to it becomes a
// recorded source (via the ordinary Pre mechanism), and every event whose
// sender it is Post-connected to is appended to the session's event stream.
// Output always reports 0; Recorder has no downstream consumers.
//
// Grounded on original_source/common/h5rec.{h,cpp}'s ChunkedH5Recorder: the
// mutex+condition-variable ready-queue described there is replaced by a
// bounded channel (see doc.go) sized to one in-flight chunk per stream,
// which is this package's rendition of "the ready-queue contains fewer
// entries than the buffer count".
type Recorder struct {
	entity.Base

	clk       *clock.Base
	store     store
	chunkSize int
	log       *logging.Logger

	fill        [][]float64 // one growing buffer per source, len(Pre()) entries
	eventFill   eventChunk
	commentsBuf []string
	commentsMu  sync.Mutex

	ready chan flushJob
	wg    sync.WaitGroup

	startSec, startNsec int64
	tend                float64
	dtSeconds           float64
}

type eventChunk struct {
	codes      []int32
	senders    []int32
	timestamps []float64
}

// New constructs a Recorder writing to filename via the real HDF5 backend.
// chunkSize <= 0 selects defaultChunkSize (1024, per §3).
func New(id uint32, name string, clk *clock.Base, filename string, compress bool, chunkSize int) *Recorder {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return newWithStore(id, name, clk, newHDF5StoreChunked(filename, compress, chunkSize), chunkSize)
}

// newWithStore is the test seam: it builds a Recorder against an arbitrary
// store implementation, bypassing HDF5/cgo entirely.
func newWithStore(id uint32, name string, clk *clock.Base, st store, chunkSize int) *Recorder {
	r := &Recorder{
		Base:      entity.NewBase(id, name, ""),
		clk:       clk,
		store:     st,
		chunkSize: chunkSize,
		log:       logging.Default,
	}
	r.Init(r)
	return r
}

// Output implements entity.Entity: Recorder is a sink and never feeds a
// downstream Converter/Delay/etc.
func (r *Recorder) Output() float64 { return 0 }

// Initialise opens the backing store, writing the fixed layout for every
// currently-connected source, and starts the writer goroutine (§4.3's
// "writer thread ... given priority strictly lower than the RT thread",
// rendered here as an ordinary goroutine scheduled behind the tick loop by
// virtue of never being woken except by a channel send).
func (r *Recorder) Initialise() bool {
	pre := r.Pre()
	r.fill = make([][]float64, len(pre))
	for i := range r.fill {
		r.fill[i] = make([]float64, 0, r.chunkSize)
	}
	r.eventFill = eventChunk{
		codes:      make([]int32, 0, r.chunkSize),
		senders:    make([]int32, 0, r.chunkSize),
		timestamps: make([]float64, 0, r.chunkSize),
	}
	r.commentsBuf = nil
	r.tend = 0
	r.dtSeconds = r.clk.DtSeconds()

	now := time.Now()
	r.startSec = now.Unix()
	r.startNsec = int64(now.Nanosecond())

	sources := make([]sourceInfo, len(pre))
	for i, p := range pre {
		params := make(map[string]float64)
		if named, ok := p.(interface{ ParameterNames() []string }); ok {
			for _, name := range named.ParameterNames() {
				if v, ok := p.Parameter(name); ok {
					params[name] = *v
				}
			}
		}
		meta, _ := p.Metadata()
		sources[i] = sourceInfo{
			ID:         p.ID(),
			Name:       p.Name(),
			Units:      p.Units(),
			Parameters: params,
			Metadata:   meta,
		}
	}

	if err := r.store.Open(sources); err != nil {
		r.log.Err().Str("entity", r.Name()).Log("recorder: open failed, aborting trial")
		return false
	}
	if err := r.store.WriteInfo(Info{
		Version:       2,
		Dt:            r.dtSeconds,
		StartTimeSec:  r.startSec,
		StartTimeNsec: r.startNsec,
	}); err != nil {
		r.log.Err().Str("entity", r.Name()).Log("recorder: initial WriteInfo failed, aborting trial")
		return false
	}

	// One in-flight slot per sample stream plus one for events: this is the
	// channel capacity that makes Step's send below the back-pressure wait
	// §4.3 describes, rather than an unbounded queue.
	r.ready = make(chan flushJob, len(pre)+1)
	r.wg.Add(1)
	go r.writeLoop()

	return true
}

// Step appends this tick's latched inputs to each source's fill buffer,
// flushing (and reallocating) any buffer that reaches chunkSize. A full
// buffer is handed to the writer goroutine by value over r.ready; sending
// blocks if the writer has fallen behind far enough to fill the channel,
// which is this package's back-pressure wait.
func (r *Recorder) Step() {
	inputs := r.Inputs()
	for i, v := range inputs {
		r.fill[i] = append(r.fill[i], v)
		if len(r.fill[i]) == r.chunkSize {
			r.ready <- flushJob{kind: jobSamples, idx: i, samples: r.fill[i]}
			r.fill[i] = make([]float64, 0, r.chunkSize)
		}
	}
	r.tend = r.clk.T()

	r.commentsMu.Lock()
	if len(r.commentsBuf) > 0 {
		r.ready <- flushJob{kind: jobComments, comments: r.commentsBuf}
		r.commentsBuf = nil
	}
	r.commentsMu.Unlock()
}

// HandleEvent appends e to the event stream, flushing when the event
// buffer reaches chunkSize.
func (r *Recorder) HandleEvent(e event.Event) {
	r.eventFill.codes = append(r.eventFill.codes, int32(e.Kind))
	r.eventFill.senders = append(r.eventFill.senders, int32(e.Sender.ID()))
	r.eventFill.timestamps = append(r.eventFill.timestamps, e.Timestamp)
	if len(r.eventFill.codes) == r.chunkSize {
		r.ready <- flushJob{
			kind:       jobEvents,
			codes:      r.eventFill.codes,
			senders:    r.eventFill.senders,
			timestamps: r.eventFill.timestamps,
		}
		r.eventFill = eventChunk{
			codes:      make([]int32, 0, r.chunkSize),
			senders:    make([]int32, 0, r.chunkSize),
			timestamps: make([]float64, 0, r.chunkSize),
		}
	}
}

// Comment queues an operator comment string for persistence. The text is
// stored exactly as given; no timestamp is added to it. Safe to call from
// any goroutine (the operator's stdin-reading side thread, §4.1 step 2).
func (r *Recorder) Comment(text string) {
	r.commentsMu.Lock()
	r.commentsBuf = append(r.commentsBuf, text)
	r.commentsMu.Unlock()
}

// Terminate flushes every partially-filled buffer, asks the writer to
// record the final tend and close the store, then waits for it to finish
// (§4.3's "pushes any partially-filled buffer into the ready-queue, sets
// thread-run=false, and joins").
func (r *Recorder) Terminate() {
	for i, buf := range r.fill {
		if len(buf) > 0 {
			r.ready <- flushJob{kind: jobSamples, idx: i, samples: buf}
		}
	}
	if len(r.eventFill.codes) > 0 {
		r.ready <- flushJob{
			kind:       jobEvents,
			codes:      r.eventFill.codes,
			senders:    r.eventFill.senders,
			timestamps: r.eventFill.timestamps,
		}
	}
	r.commentsMu.Lock()
	if len(r.commentsBuf) > 0 {
		r.ready <- flushJob{kind: jobComments, comments: r.commentsBuf}
		r.commentsBuf = nil
	}
	r.commentsMu.Unlock()

	r.ready <- flushJob{kind: jobFinal, tend: r.tend}
	close(r.ready)
	r.wg.Wait()
}

// writeLoop is the writer goroutine: it drains r.ready until the channel is
// closed and empty, applying each job to the store. A write failure is
// logged and the chunk dropped (§4.3: "errors in the recorder are isolated
// to its writer thread and never block the RT thread") — it never panics
// or propagates back to Step/HandleEvent.
func (r *Recorder) writeLoop() {
	defer r.wg.Done()
	for job := range r.ready {
		var err error
		switch job.kind {
		case jobSamples:
			err = r.store.AppendSamples(job.idx, job.samples)
		case jobEvents:
			err = r.store.AppendEvents(job.codes, job.senders, job.timestamps)
		case jobComments:
			err = r.store.WriteComments(job.comments)
		case jobFinal:
			err = r.store.WriteInfo(Info{
				Version:       2,
				Dt:            r.dtSeconds,
				Tend:          job.tend,
				StartTimeSec:  r.startSec,
				StartTimeNsec: r.startNsec,
			})
			if err == nil {
				err = r.store.Close()
			}
		}
		if err != nil {
			r.log.Err().Str("entity", r.Name()).Log("recorder: write failed, dropping chunk")
		}
	}
}
