// Package event implements the discrete-event side channel described in
// §3/§4.2 of the specification: a tagged, value-typed Event record and a
// thread-safe FIFO Queue that hands events from producers (an entity's Step
// or HandleEvent, running on the real-time thread, plus the comments
// side-channel) to the scheduler's next-tick Event phase.
//
// The queue's mutex makes Push safe to call from any goroutine; in steady
// state enqueue/dequeue both happen on the RT thread. The recorders do not
// use this queue; they hand buffers to their writer over a channel. It is
// deliberately a plain mutex + slice, not a lock-free structure — events are
// small and few per tick.
package event
