// Package scheduler implements §4.1's tick scheduler: the periodic loop
// that drains the event queue, latches every entity's inputs, advances the
// time base, steps every entity, and sleeps until the next absolute
// deadline.
//
// The overall shape — a single loop goroutine, an atomic run-state flag
// ([github.com/rtdyn/dynclamp/lifecycle].Flag), and a pluggable low-level
// wait primitive (Backend) — is modeled on the teacher's eventloop package
// (see eventloop/loop.go's tickAnchor/tickElapsedTime timing fields, its
// OnOverload callback, and its stopOnce/loopDone shutdown pattern),
// simplified from a generic I/O-multiplexing event loop down to a
// fixed-period real-time tick loop. The absolute-deadline rearm algorithm
// itself (compute next deadline, sleep to it, tolerate jitter) is carried
// over unchanged from original_source/src/engine.cpp's RunEngine: that
// function's clock_gettime/clock_nanosleep(CLOCK_REALTIME, TIMER_ABSTIME)
// loop is exactly §4.1 step 3, and Backend.SleepUntil on the Linux POSIX
// backend is a direct translation of it via golang.org/x/sys/unix.
package scheduler
