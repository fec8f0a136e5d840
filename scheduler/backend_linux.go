//go:build linux

package scheduler

import (
	"time"

	"golang.org/x/sys/unix"
)

// posixBackend is the hard-RT timing backend named in §4.1: "POSIX
// clock_nanosleep(CLOCK_REALTIME, TIMER_ABSTIME, …)". It is a direct port
// of original_source/src/engine.cpp's RunEngine loop, which rearms a
// struct timespec against CLOCK_REALTIME with TIMER_ABSTIME every tick —
// here expressed via golang.org/x/sys/unix.ClockNanosleep, the same
// package the teacher's eventloop uses for its Linux epoll backend (see
// eventloop/poller_linux.go).
type posixBackend struct{}

// NewPOSIXBackend returns the clock_nanosleep-backed Backend on Linux.
func NewPOSIXBackend() (Backend, error) {
	return posixBackend{}, nil
}

// SleepUntil implements Backend by rearming clock_nanosleep against the
// absolute deadline, retrying on EINTR (a signal delivered mid-sleep).
func (posixBackend) SleepUntil(deadline time.Time) error {
	ts := unix.NsecToTimespec(deadline.UnixNano())
	for {
		err := unix.ClockNanosleep(unix.CLOCK_REALTIME, unix.TIMER_ABSTIME, &ts, nil)
		if err == unix.EINTR {
			continue
		}
		return err
	}
}
