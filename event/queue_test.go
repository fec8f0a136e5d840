package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSender uint32

func (f fakeSender) ID() uint32 { return uint32(f) }

func TestQueue_FIFOOrder(t *testing.T) {
	q := NewQueue()
	q.Push(New(SPIKE, fakeSender(1), 0.1))
	q.Push(New(TRIGGER, fakeSender(1), 0.2))
	q.Push(New(RESET, fakeSender(2), 0.3))

	drained := q.DrainInto(nil)
	require.Len(t, drained, 3)
	require.Equal(t, SPIKE, drained[0].Kind)
	require.Equal(t, TRIGGER, drained[1].Kind)
	require.Equal(t, RESET, drained[2].Kind)
	require.Zero(t, q.Len())
}

func TestQueue_DrainEmptiesBackingSlice(t *testing.T) {
	q := NewQueue()
	q.Push(New(TOGGLE, fakeSender(1), 0))
	_ = q.DrainInto(nil)
	require.Equal(t, 0, q.Len())

	// events pushed after a drain are independent of whatever the caller
	// did with the previously drained slice
	q.Push(New(STOPRUN, fakeSender(1), 1))
	require.Equal(t, 1, q.Len())
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	const n = 200
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			q.Push(New(SPIKE, fakeSender(uint32(i)), float64(i)))
		}(i)
	}
	wg.Wait()
	require.Equal(t, n, q.Len())
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "SPIKE", SPIKE.String())
	require.Equal(t, "STOPRUN", STOPRUN.String())
	require.Contains(t, Kind(99).String(), "Kind(99)")
}
