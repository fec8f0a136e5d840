package recorder

import "github.com/rtdyn/dynclamp/entity"

// store is the writer thread's view of the output file: every operation
// §4.3 names, abstracted so Recorder's buffering/back-pressure logic can be
// exercised against a fake in tests without linking HDF5's cgo bindings
// (see hdf5store in hdf5store.go for the real implementation).
type store interface {
	// Open creates the file and the fixed §4.3 layout: /Info, /Comments,
	// /Events/{Code,Sender,Timestamp}, and one /Entities/NNNN group (with
	// Data, optional Metadata, and a Parameters subgroup) per recorded
	// source.
	Open(sources []sourceInfo) error

	// WriteInfo sets /Info's scalar attributes. Called once at open and
	// again (for tend) at close.
	WriteInfo(info Info) error

	// AppendSamples extends entity idx's Data dataset by the given chunk
	// and writes it.
	AppendSamples(idx int, chunk []float64) error

	// AppendEvents extends /Events/{Code,Sender,Timestamp} by one chunk
	// each.
	AppendEvents(codes, senders []int32, timestamps []float64) error

	// WriteComments appends the given comment strings, as passed in, as
	// /Comments attributes, keyed "001", "002", ...
	WriteComments(messages []string) error

	// Close flushes and closes the file.
	Close() error
}

// sourceInfo describes one recorded entity's static layout (§3's
// "/Entities/NNNN" group): used once, at Open, to create its group,
// Data/Metadata datasets, and Parameters attributes.
type sourceInfo struct {
	ID         uint32
	Name       string
	Units      string
	Parameters map[string]float64
	Metadata   entity.Metadata // Metadata() reported false -> Rows is nil
}

// Info mirrors the scalar attributes of the §3/§6 "/Info" group.
type Info struct {
	Version       int64
	Dt            float64
	Tend          float64
	StartTimeSec  int64
	StartTimeNsec int64
}

// triggeredStore is TriggeredRecorder's analogue of store: one rank-2
// dataset per source (rows = window length, columns extendable) instead of
// an unlimited 1-D stream, plus the same /Events, /Comments, /Info groups.
type triggeredStore interface {
	// Open creates the file and layout for the given sources, each getting a
	// rank-2 dataset fixed at windowLen rows and an initially-empty,
	// extendable column count.
	Open(sources []sourceInfo, windowLen int) error

	WriteInfo(info Info) error

	// AppendColumn appends column (len == windowLen) as a new column of
	// source idx's dataset.
	AppendColumn(idx int, column []float64) error

	AppendEvents(codes, senders []int32, timestamps []float64) error
	WriteComments(messages []string) error
	Close() error
}
