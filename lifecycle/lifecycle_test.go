package lifecycle

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFlag(t *testing.T) {
	f := NewFlag(true)
	require.True(t, f.Get())
	f.Set(false)
	require.False(t, f.Get())
}

func TestWatchSignals_SIGINTClearsProgram(t *testing.T) {
	Program.Set(true)
	stop := make(chan struct{})
	defer close(stop)
	WatchSignals(stop)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	require.Eventually(t, func() bool {
		return !Program.Get()
	}, time.Second, time.Millisecond)
}
