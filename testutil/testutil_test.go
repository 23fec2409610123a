package testutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistinctBits(t *testing.T) {
	rng := NewRNG(4711)

	bits := rng.DistinctBits(1000, 1<<16)
	require.Len(t, bits, 1000)
	assert.Len(t, SortedUnique(bits), 1000)
	for _, b := range bits {
		assert.Less(t, b, uint64(1<<16))
	}

	// limit smaller than n is clamped
	assert.Len(t, rng.DistinctBits(100, 10), 10)
}

func TestClusteredBits(t *testing.T) {
	rng := NewRNG(4711)

	bits := rng.ClusteredBits(4, 100, 512)
	assert.Len(t, bits, 400)
}

func TestRuns(t *testing.T) {
	rng := NewRNG(42)

	bits := SortedUnique(rng.Runs(3, 64))
	require.NotEmpty(t, bits)
	for _, b := range bits {
		// every run is complete: its whole aligned word is present
		base := b &^ 63
		for i := uint64(0); i < 64; i++ {
			_, found := slices.BinarySearch(bits, base+i)
			require.True(t, found)
		}
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.DistinctBits(10, 0)

	rng.Reset()
	v2 := rng.DistinctBits(10, 0)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []uint64{1, 2, 9}, SortedUnique([]uint64{9, 2, 1, 2, 9}))
	assert.Empty(t, SortedUnique(nil))
}
