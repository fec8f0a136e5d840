// Package lifecycle implements §4.1's program/trial run flags and signal
// handling: SIGINT/SIGHUP cooperatively request shutdown by flipping a
// process-wide flag the scheduler polls once per tick, rather than by
// killing anything directly.
//
// The signal-listener shape — os/signal.Notify into a buffered channel,
// drained by a goroutine that can be stopped via a stop channel — is
// modeled on the teacher's prompt package (see signal_common.go's
// handleExitSignals), simplified from prompt's multi-signal exit-code
// dispatch down to a single boolean flag.
package lifecycle
