package node

import (
	"math"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsebits/internal/addr"
	"github.com/hupe1980/sparsebits/internal/digitindex"
	"github.com/hupe1980/sparsebits/testutil"
)

func at(b uint64) addr.Address {
	return addr.FromBitNumber(b)
}

func collect(n *Node) []uint64 {
	return slices.Collect(n.All())
}

func TestNew(t *testing.T) {
	for level := addr.BottomLevel; level <= addr.MaxLevel; level++ {
		n := New(level)
		assert.Equal(t, level, n.Level())
		assert.True(t, n.IsEmpty())
		assert.Zero(t, n.Len())
		assert.NoError(t, n.Validate())
	}

	for _, level := range []int{-1, 0, addr.MaxLevel + 1} {
		assert.PanicsWithError(t, "node: level "+strconv.Itoa(level)+": invalid node level", func() {
			New(level)
		})
	}
}

func TestBottomLevelIndex(t *testing.T) {
	n := New(addr.BottomLevel)
	in := []uint64{0, 2, 128, 64*256 - 1}

	var keys []uint8
	for _, b := range in {
		assert.True(t, n.Set(at(b)))
		keys = append(keys, at(b).Digit(1))
	}

	idx := n.Index()
	assert.False(t, idx.IsMaterializedEmpty())
	assert.False(t, idx.IsMaterializedFull())
	assert.True(t, idx.IsRunsEmpty())
	assert.False(t, idx.IsRunsFull())
	assert.Equal(t, 3, n.Len()) // 0 and 2 share a word

	for d := 0; d < 256; d++ {
		assert.Equal(t, slices.Contains(keys, uint8(d)), idx.IsMaterialized(uint8(d)), "digit %d", d)
	}
	require.NoError(t, n.Validate())
}

func TestSetGetClear(t *testing.T) {
	for level := addr.BottomLevel; level <= addr.MaxLevel; level++ {
		n := New(level)
		limit := addr.MaxRepresentable(level)
		for _, b := range []uint64{0, 1, 63, 64, limit / 2, limit - 1, limit} {
			assert.False(t, n.Get(at(b)), "level %d bit %#x", level, b)
			assert.True(t, n.Set(at(b)))
			assert.False(t, n.Set(at(b)), "second set is a no-op")
			assert.True(t, n.Get(at(b)))
			require.NoError(t, n.Validate())

			assert.True(t, n.Clear(at(b)))
			assert.False(t, n.Clear(at(b)), "second clear is a no-op")
			assert.False(t, n.Get(at(b)))
			require.NoError(t, n.Validate())
		}
		assert.True(t, n.IsEmpty(), "level %d", level)
		assert.Zero(t, n.Len())
	}
}

func TestRunFormation(t *testing.T) {
	n := New(addr.BottomLevel)
	a := at(64)

	for b := uint64(64); b < 128; b++ {
		for rest := b; rest < 128; rest++ {
			require.False(t, n.Get(at(rest)))
		}
		n.Set(at(b))

		idx := n.Index()
		if b < 127 {
			require.Equal(t, digitindex.Materialized, idx.Classify(a).Kind)
		}
		require.NoError(t, n.Validate())
	}

	idx := n.Index()
	assert.Equal(t, digitindex.Run, idx.Classify(a).Kind)
	assert.Zero(t, n.Len(), "run holds no content")
	for b := uint64(64); b < 128; b++ {
		assert.True(t, n.Get(at(b)))
	}
	assert.False(t, n.Get(at(63)))
	assert.False(t, n.Get(at(128)))
}

func TestRunExplosion(t *testing.T) {
	n := New(addr.BottomLevel)
	for b := uint64(64); b < 128; b++ {
		n.Set(at(b))
	}
	idx := n.Index()
	require.True(t, idx.IsRun(1))

	assert.True(t, n.Clear(at(64)))

	idx = n.Index()
	assert.False(t, idx.IsRun(1))
	assert.True(t, idx.IsMaterialized(1))
	assert.False(t, n.Get(at(64)))
	for b := uint64(65); b < 128; b++ {
		assert.True(t, n.Get(at(b)), "bit %d", b)
	}
	require.NoError(t, n.Validate())
}

func TestRunExplosionOffset(t *testing.T) {
	// The exploded word must land at the digit's rank, not at the end.
	n := New(addr.BottomLevel)
	n.Set(at(0))
	for b := uint64(64); b < 128; b++ {
		n.Set(at(b))
	}
	n.Set(at(200))

	n.Clear(at(100))
	require.NoError(t, n.Validate())

	want := []uint64{0}
	for b := uint64(64); b < 128; b++ {
		if b != 100 {
			want = append(want, b)
		}
	}
	want = append(want, 200)
	assert.Equal(t, want, collect(n))
}

func TestChildRunExplosionOffset(t *testing.T) {
	// A child rebuilt from a run must land behind lower materialized digits.
	n := New(2)
	n.Set(at(3))
	for b := uint64(1 << 14); b < 2<<14; b++ {
		n.Set(at(b))
	}
	n.Set(at(5 << 14))
	idx := n.Index()
	require.True(t, idx.IsRun(1))

	n.Clear(at(1<<14 + 9))
	require.NoError(t, n.Validate())
	assert.Equal(t, 3, n.Len())

	assert.True(t, n.Get(at(3)))
	assert.False(t, n.Get(at(4)))
	assert.False(t, n.Get(at(1<<14+9)))
	assert.True(t, n.Get(at(1<<14+10)))
	assert.True(t, n.Get(at(5<<14)))

	got := collect(n)
	assert.Equal(t, []uint64{3, 1 << 14}, got[:2])
	assert.Equal(t, uint64(5<<14), got[len(got)-1])
	assert.Len(t, got, 2+(1<<14)-1)
}

func TestNestedRunFormation(t *testing.T) {
	// Filling a whole level-1 node collapses it into a level-2 run.
	n := New(2)
	for b := uint64(0); b <= addr.MaxRepresentable(1); b++ {
		n.Set(at(b))
	}

	idx := n.Index()
	assert.True(t, idx.IsRun(0))
	assert.Zero(t, n.Len())
	require.NoError(t, n.Validate())

	// Clearing one bit explodes both levels.
	n.Clear(at(1000))
	idx = n.Index()
	assert.True(t, idx.IsMaterialized(0))
	assert.False(t, n.Get(at(1000)))
	assert.True(t, n.Get(at(999)))
	assert.True(t, n.Get(at(1001)))
	require.NoError(t, n.Validate())

	st := n.Stats()
	assert.Equal(t, 2, st.Nodes)
	assert.Equal(t, 1, st.LeafWords)
	assert.Equal(t, 255, st.RunsByLevel[1])

	// Setting it again collapses everything back.
	n.Set(at(1000))
	idx = n.Index()
	assert.True(t, idx.IsRun(0))
	assert.Zero(t, n.Len())
}

func TestFullLevelOneNode(t *testing.T) {
	n := New(addr.BottomLevel)
	for b := uint64(0); b <= addr.MaxRepresentable(1); b++ {
		n.Set(at(b))
	}
	assert.True(t, n.IsFull())

	idx := n.Index()
	assert.True(t, idx.IsMaterializedEmpty())
	assert.True(t, idx.IsRunsFull())
	// a full root is still valid
	assert.NoError(t, n.Validate())

	n.Clear(at(0))
	idx = n.Index()
	assert.False(t, idx.IsRun(0))
	assert.True(t, idx.IsMaterialized(0))
	assert.False(t, n.IsFull())

	for b := uint64(0); b <= addr.MaxRepresentable(1); b++ {
		n.Clear(at(b))
	}
	assert.True(t, n.IsEmpty())
	assert.NoError(t, n.Validate())
}

func TestAppendChild(t *testing.T) {
	leaf := New(addr.BottomLevel)
	assert.PanicsWithError(t, "node: append to level 1: cannot append child to leaf-word node", func() {
		leaf.AppendChild(New(addr.BottomLevel))
	})

	parent := New(3)
	assert.Panics(t, func() { parent.AppendChild(New(addr.BottomLevel)) })

	child := New(2)
	child.Set(at(5))
	parent.AppendChild(child)
	assert.True(t, parent.Get(at(5)))
	assert.NoError(t, parent.Validate())
}

func TestGrow(t *testing.T) {
	root := New(addr.BottomLevel)
	root.Set(at(7))
	grown := Grow(root)
	assert.Equal(t, 2, grown.Level())
	assert.True(t, grown.Get(at(7)))
	assert.NoError(t, grown.Validate())

	empty := Grow(New(2))
	assert.Equal(t, 3, empty.Level())
	assert.True(t, empty.IsEmpty())
	assert.NoError(t, empty.Validate())

	full := New(addr.BottomLevel)
	for b := uint64(0); b <= addr.MaxRepresentable(1); b++ {
		full.Set(at(b))
	}
	grown = Grow(full)
	idx := grown.Index()
	assert.True(t, idx.IsRun(0))
	assert.True(t, grown.Get(at(12345)))
	assert.False(t, grown.Get(at(addr.MaxRepresentable(1)+1)))
	assert.NoError(t, grown.Validate())
}

func TestClone(t *testing.T) {
	n := New(3)
	for _, b := range []uint64{1, 64, 5000, 1 << 20} {
		n.Set(at(b))
	}
	c := n.Clone()
	assert.Equal(t, collect(n), collect(c))

	n.Set(at(77))
	c.Clear(at(5000))

	assert.True(t, n.Get(at(77)))
	assert.False(t, c.Get(at(77)))
	assert.True(t, n.Get(at(5000)))
	assert.False(t, c.Get(at(5000)))
}

func TestCardinality(t *testing.T) {
	n := New(3)
	count, full := n.Cardinality()
	assert.Zero(t, count)
	assert.False(t, full)

	for b := uint64(0); b < 200; b++ {
		n.Set(at(b))
	}
	n.Set(at(1 << 20))
	count, _ = n.Cardinality()
	assert.Equal(t, uint64(201), count)

	top := New(addr.MaxLevel)
	for d := uint8(0); d < 4; d++ {
		top.index.MarkRunDigit(d)
	}
	count, full = top.Cardinality()
	assert.True(t, full)
	assert.Equal(t, uint64(math.MaxUint64), count)

	top.Clear(at(math.MaxUint64))
	count, full = top.Cardinality()
	assert.False(t, full)
	assert.Equal(t, uint64(math.MaxUint64), count) // 2^64 - 1
	assert.NoError(t, top.Validate())
}

func TestValidateDetectsCorruption(t *testing.T) {
	n := New(addr.BottomLevel)
	n.Set(at(3))
	n.content.(*leafWords).words[0] = 0
	assert.ErrorIs(t, n.Validate(), ErrCorrupt)

	n = New(addr.BottomLevel)
	n.Set(at(3))
	n.content.(*leafWords).words = append(n.content.(*leafWords).words, 1)
	assert.ErrorIs(t, n.Validate(), ErrCorrupt)

	n = New(2)
	n.Set(at(3))
	n.index.MarkRunDigit(0)
	assert.ErrorIs(t, n.Validate(), ErrCorrupt)
}

func TestRandomAgainstMap(t *testing.T) {
	rng := testutil.NewRNG(42)
	n := New(3)
	truth := map[uint64]bool{}
	limit := addr.MaxRepresentable(3) + 1

	// Narrow window so that runs form and explode often.
	base := rng.Uint64n(limit - 4096)
	for i := 0; i < 20000; i++ {
		b := base + rng.Uint64n(4096)
		if rng.Intn(3) == 0 {
			assert.Equal(t, truth[b], n.Clear(at(b)))
			delete(truth, b)
		} else {
			assert.Equal(t, !truth[b], n.Set(at(b)))
			truth[b] = true
		}
		if i%1000 == 0 {
			require.NoError(t, n.Validate())
		}
	}
	require.NoError(t, n.Validate())

	var want []uint64
	for b := range truth {
		want = append(want, b)
	}
	slices.Sort(want)
	assert.Equal(t, want, collect(n))

	count, _ := n.Cardinality()
	assert.Equal(t, uint64(len(want)), count)
}

func BenchmarkSet(b *testing.B) {
	rng := testutil.NewRNG(1)
	bits := rng.DistinctBits(1<<16, addr.MaxRepresentable(4)+1)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := New(4)
		for _, bit := range bits {
			n.Set(at(bit))
		}
	}
}

func BenchmarkGet(b *testing.B) {
	rng := testutil.NewRNG(1)
	bits := rng.DistinctBits(1<<16, addr.MaxRepresentable(4)+1)
	n := New(4)
	for _, bit := range bits {
		n.Set(at(bit))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = n.Get(at(bits[i%len(bits)]))
	}
}
