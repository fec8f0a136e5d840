package lifecycle

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Flag is a boolean run-state flag safe for concurrent use: one goroutine
// (a signal listener, a caller's cancellation request) clears it, the
// scheduler polls it once per tick.
type Flag struct {
	v atomic.Bool
}

// NewFlag returns a Flag initialised to the given value.
func NewFlag(v bool) *Flag {
	f := &Flag{}
	f.v.Store(v)
	return f
}

// Set stores v.
func (f *Flag) Set(v bool) { f.v.Store(v) }

// Get reports the current value.
func (f *Flag) Get() bool { return f.v.Load() }

// Program is the process-wide "program-run" flag (§4.1's cancellation
// model): SIGINT or SIGHUP clears it, and every scheduler iteration polls
// it alongside its own trial-scoped flag.
var Program = NewFlag(true)

// WatchSignals starts a goroutine that clears Program on SIGINT or SIGHUP,
// and stops listening when stop is closed. Call once per process; calling
// it again installs a second independent listener (harmless, but wasteful).
func WatchSignals(stop <-chan struct{}) {
	sigCh := make(chan os.Signal, 8)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-stop:
				return
			case <-sigCh:
				Program.Set(false)
			}
		}
	}()
}
