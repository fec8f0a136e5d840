package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSource_Deterministic(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)

	for i := 0; i < 10; i++ {
		require.Equal(t, a.Float64(), b.Float64())
		require.Equal(t, a.StdNormal(), b.StdNormal())
	}
	require.Equal(t, uint64(42), a.Seed())
}

func TestNewSource_DifferentSeedsDiverge(t *testing.T) {
	a := NewSource(1)
	b := NewSource(2)

	require.NotEqual(t, a.Float64(), b.Float64())
}

func TestNewHighEntropySource_RecordsSeed(t *testing.T) {
	s, seed := NewHighEntropySource()
	require.Equal(t, seed, s.Seed())

	s2, seed2 := NewHighEntropySource()
	require.NotEqual(t, seed, seed2, "two high-entropy draws should not collide in practice")
}

func TestSource_UniformBounds(t *testing.T) {
	s := NewSource(7)
	for i := 0; i < 1000; i++ {
		v := s.Uniform(-2, 3)
		require.GreaterOrEqual(t, v, -2.0)
		require.Less(t, v, 3.0)
	}
}
