package recorder

import (
	"sync"
	"time"

	"github.com/rtdyn/dynclamp/clock"
	"github.com/rtdyn/dynclamp/entity"
	"github.com/rtdyn/dynclamp/event"
	"github.com/rtdyn/dynclamp/logging"
	"github.com/rtdyn/dynclamp/ringbuf"
)

// triggeredJobKind tags a triggeredJob the same way flushJob does for
// Recorder.
type triggeredJobKind int

const (
	triggeredJobColumn triggeredJobKind = iota
	triggeredJobEvents
	triggeredJobComments
	triggeredJobFinal
)

type triggeredJob struct {
	kind triggeredJobKind

	idx    int
	column []float64

	codes      []int32
	senders    []int32
	timestamps []float64

	comments []string

	tend float64
}

// TriggeredRecorder is the §4.3 "triggered variant": per source, a circular
// buffer spanning before+after seconds. Each TRIGGER event arms a countdown
// of after/dt ticks; at zero, the window (before samples, the triggering
// tick's sample, then after samples) is written as a new column of that
// source's rank-2 dataset. Grounded on original_source/src/recorders.{h,cpp}'s
// circular-buffer trigger capture, using ringbuf's Ring (itself grounded on
// catrate's generic ring) in place of the original's hand-rolled index
// arithmetic.
type TriggeredRecorder struct {
	entity.Base

	clk       *clock.Base
	store     triggeredStore
	log       *logging.Logger
	afterTicks int
	windowLen  int

	rings     []*ringbuf.Ring
	armed     bool
	countdown int

	eventFill   eventChunk
	commentsBuf []string

	ready chan triggeredJob
	wg    sync.WaitGroup

	startSec, startNsec int64
	tend                float64
	dtSeconds           float64
}

// NewTriggered constructs a TriggeredRecorder writing to filename via the
// real HDF5 backend. before and after are seconds; the window length in
// ticks is ceil(before/dt) + ceil(after/dt) + 1 (the +1 is the triggering
// tick itself, per §8 scenario S6's inclusive [t-before, t+after] window).
func NewTriggered(id uint32, name string, clk *clock.Base, filename string, compress bool, before, after float64) *TriggeredRecorder {
	return newTriggeredWithStore(id, name, clk, newHDF5TriggeredStore(filename, compress), before, after)
}

// newTriggeredWithStore is the test seam: builds a TriggeredRecorder against
// an arbitrary triggeredStore, bypassing HDF5/cgo entirely.
func newTriggeredWithStore(id uint32, name string, clk *clock.Base, st triggeredStore, before, after float64) *TriggeredRecorder {
	beforeTicks := clk.Ticks(time.Duration(before * float64(time.Second)))
	afterTicks := clk.Ticks(time.Duration(after * float64(time.Second)))
	t := &TriggeredRecorder{
		Base:       entity.NewBase(id, name, ""),
		clk:        clk,
		store:      st,
		log:        logging.Default,
		afterTicks: afterTicks,
		windowLen:  beforeTicks + afterTicks + 1,
		dtSeconds:  clk.DtSeconds(),
	}
	t.Init(t)
	return t
}

func (t *TriggeredRecorder) Output() float64 { return 0 }

// Initialise allocates one ring per connected source and opens the store.
func (t *TriggeredRecorder) Initialise() bool {
	pre := t.Pre()
	t.rings = make([]*ringbuf.Ring, len(pre))
	for i := range t.rings {
		t.rings[i] = ringbuf.New(t.windowLen)
	}
	t.eventFill = eventChunk{}
	t.commentsBuf = nil
	t.armed = false
	t.countdown = 0
	t.tend = 0

	now := time.Now()
	t.startSec = now.Unix()
	t.startNsec = int64(now.Nanosecond())

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
		sources[i] = sourceInfo{ID: p.ID(), Name: p.Name(), Units: p.Units(), Parameters: params, Metadata: meta}
	}

	if err := t.store.Open(sources, t.windowLen); err != nil {
		t.log.Err().Str("entity", t.Name()).Log("triggered recorder: open failed, aborting trial")
		return false
	}
	if err := t.store.WriteInfo(Info{Version: 2, Dt: t.dtSeconds, StartTimeSec: t.startSec, StartTimeNsec: t.startNsec}); err != nil {
		t.log.Err().Str("entity", t.Name()).Log("triggered recorder: initial WriteInfo failed, aborting trial")
		return false
	}

	t.ready = make(chan triggeredJob, len(pre)+1)
	t.wg.Add(1)
	go t.writeLoop()

	return true
}

// Step pushes this tick's latched inputs into each source's ring, then
// advances any armed countdown, capturing and flushing the window at zero.
func (t *TriggeredRecorder) Step() {
	for i, v := range t.Inputs() {
		t.rings[i].Push(v)
	}
	t.tend = t.clk.T()

	if t.armed {
		if t.countdown == 0 {
			t.capture()
			t.armed = false
		} else {
			t.countdown--
		}
	}

	if len(t.commentsBuf) > 0 {
		t.ready <- triggeredJob{kind: triggeredJobComments, comments: t.commentsBuf}
		t.commentsBuf = nil
	}
}

// capture sends each source's current window as a new rank-2 column.
func (t *TriggeredRecorder) capture() {
	for i, ring := range t.rings {
		t.ready <- triggeredJob{kind: triggeredJobColumn, idx: i, column: ring.Slice()}
	}
}

// HandleEvent records every delivered event and arms capture on TRIGGER
// (re-triggering while already armed is ignored, matching a single
// in-flight capture window per recorder).
func (t *TriggeredRecorder) HandleEvent(e event.Event) {
	t.eventFill.codes = append(t.eventFill.codes, int32(e.Kind))
	t.eventFill.senders = append(t.eventFill.senders, int32(e.Sender.ID()))
	t.eventFill.timestamps = append(t.eventFill.timestamps, e.Timestamp)
	if len(t.eventFill.codes) == defaultChunkSize {
		t.ready <- triggeredJob{kind: triggeredJobEvents, codes: t.eventFill.codes, senders: t.eventFill.senders, timestamps: t.eventFill.timestamps}
		t.eventFill = eventChunk{}
	}

	if e.Kind == event.TRIGGER && !t.armed {
		t.armed = true
		t.countdown = t.afterTicks
	}
}

// Comment queues an operator comment, as Recorder.Comment does.
func (t *TriggeredRecorder) Comment(text string) {
	t.commentsBuf = append(t.commentsBuf, text)
}

// Terminate flushes pending event/comment buffers, finalises, and closes
// the store.
func (t *TriggeredRecorder) Terminate() {
	if len(t.eventFill.codes) > 0 {
		t.ready <- triggeredJob{kind: triggeredJobEvents, codes: t.eventFill.codes, senders: t.eventFill.senders, timestamps: t.eventFill.timestamps}
	}
	if len(t.commentsBuf) > 0 {
		t.ready <- triggeredJob{kind: triggeredJobComments, comments: t.commentsBuf}
	}
	t.ready <- triggeredJob{kind: triggeredJobFinal, tend: t.tend}
	close(t.ready)
	t.wg.Wait()
}

func (t *TriggeredRecorder) writeLoop() {
	defer t.wg.Done()
	for job := range t.ready {
		var err error
		switch job.kind {
		case triggeredJobColumn:
			err = t.store.AppendColumn(job.idx, job.column)
		case triggeredJobEvents:
			err = t.store.AppendEvents(job.codes, job.senders, job.timestamps)
		case triggeredJobComments:
			err = t.store.WriteComments(job.comments)
		case triggeredJobFinal:
			err = t.store.WriteInfo(Info{Version: 2, Dt: t.dtSeconds, Tend: job.tend, StartTimeSec: t.startSec, StartTimeNsec: t.startNsec})
			if err == nil {
				err = t.store.Close()
			}
		}
		if err != nil {
			t.log.Err().Str("entity", t.Name()).Log("triggered recorder: write failed, dropping chunk")
		}
	}
}
