// Package ringbuf implements a small fixed-capacity circular buffer of
// float64 samples, modeled on the ring in the teacher's catrate/ring.go but
// indexed with plain modulo arithmetic, so any capacity is exact (catrate
// rounds capacity up to a power of two for masked indexing). Unlike
// catrate's ring (which grows on overflow, supporting arbitrary sorted
// insertion for rate-limiting windows), this ring has a fixed capacity and
// overwrites the oldest sample once full — the shape needed by a sample
// delay line (graphutil.Delay) and a triggered recorder's pre-trigger window
// (recorder.TriggeredRecorder).
package ringbuf
