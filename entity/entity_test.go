package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_RejectsSelfLoop(t *testing.T) {
	c := NewConst(NextID(), "c", "mV", 1)
	err := c.Connect(c)
	require.Error(t, err)
	require.ErrorContains(t, err, "cannot connect to itself")
}

func TestConnect_IdempotentOnDuplicate(t *testing.T) {
	a := NewConst(NextID(), "a", "mV", 1)
	b := NewConst(NextID(), "b", "mV", 2)

	require.NoError(t, a.Connect(b))
	require.NoError(t, a.Connect(b)) // duplicate: no-op
	require.Len(t, a.Post(), 1)
	require.Len(t, b.Pre(), 1)
	require.Len(t, b.Inputs(), 1)
}

func TestConnect_MaintainsInputsLenInvariant(t *testing.T) {
	a := NewConst(NextID(), "a", "mV", 1)
	b := NewConst(NextID(), "b", "mV", 2)
	c := NewConst(NextID(), "c", "mV", 3)

	require.NoError(t, a.Connect(c))
	require.NoError(t, b.Connect(c))

	// invariant 3 (§8): len(inputs) == len(pre) at all observable points
	require.Len(t, c.Inputs(), len(c.Pre()))
	require.Len(t, c.Pre(), 2)
}

func TestLatch_SnapshotsPreOutputs(t *testing.T) {
	a := NewConst(NextID(), "a", "mV", 5)
	b := NewConst(NextID(), "b", "mV", 0)
	require.NoError(t, a.Connect(b))

	b.Latch()
	require.Equal(t, []float64{5}, b.Inputs())

	a.Set(10) // new value only visible after the next Latch
	require.Equal(t, []float64{5}, b.Inputs())

	b.Latch()
	require.Equal(t, []float64{10}, b.Inputs())
}

func TestArena_PreservesRegistrationOrder(t *testing.T) {
	arena := NewArena()
	a := NewConst(NextID(), "a", "mV", 1)
	b := NewConst(NextID(), "b", "mV", 2)
	arena.Add(a)
	arena.Add(b)

	require.Equal(t, []Entity{a, b}, arena.Entities())
	require.Equal(t, 2, arena.Len())

	got, ok := arena.Lookup(a.ID())
	require.True(t, ok)
	require.Equal(t, a, got)
}

func TestNextID_Unique(t *testing.T) {
	seen := make(map[uint32]bool)
	for i := 0; i < 100; i++ {
		id := NextID()
		require.False(t, seen[id])
		seen[id] = true
	}
}
