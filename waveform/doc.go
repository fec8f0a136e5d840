// Package waveform implements the Waveform entity (§4.2, §4.4): a dataflow
// source that replays a stim.Compiled stimulus sample-by-sample and emits a
// RESET event once it runs out, or (in triggered mode) sits silent until a
// TRIGGER event restarts it. Grounded on
// original_source/src/waveform.{h,cpp}, adapted to this engine's
// event-from-Step (never from Output) discipline — see doc comment on
// Step for why that changes when RESET becomes visible relative to the
// original.
package waveform
