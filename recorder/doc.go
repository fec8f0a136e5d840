// Package recorder implements the chunked HDF5 recorder (§4.3): a sink
// entity that persists one sample stream per recorded source entity, a
// stream of events, operator comments, and global session attributes,
// without blocking the real-time thread.
//
// Grounded on original_source/common/h5rec.{h,cpp} (ChunkedH5Recorder's
// group/dataset layout and double-buffered writer-thread handoff) and
// original_source/src/recorders.{h,cpp} (the TriggeredRecorder variant).
// The original's mutex+condition-variable handoff is replaced with a
// bounded Go channel sized to the buffer count, per §9's general preference
// for the idiomatic Go primitive over a hand-rolled condvar — this is the
// same substitution the teacher's own queueing code (microbatch, catrate)
// makes. A channel send blocking because it's full *is* the back-pressure
// wait the spec describes; a channel receive blocking because it's empty
// *is* the writer thread's CV wait for work.
//
// HDF5 access goes through github.com/sbinet/go-hdf5, the dependency named
// in SPEC_FULL.md's DOMAIN STACK table, via the small store interface in
// store.go — kept separate from Recorder itself so the buffering and
// back-pressure logic can be tested against a fake store without linking
// HDF5's cgo bindings into the test binary.
//
// TriggeredRecorder (triggered.go/hdf5triggered.go) is the §4.3 "triggered
// variant": instead of an unlimited 1-D stream per source it keeps a
// before+after circular buffer (ringbuf.Ring) and writes one rank-2 column
// per captured TRIGGER, following the same store/fake-store split.
package recorder
