package testutil

import (
	"math/rand"
	"slices"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Uint64n returns a pseudo-random number in [0,n). n == 0 means the full
// uint64 domain.
func (r *RNG) Uint64n(n uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uint64nLocked(n)
}

func (r *RNG) uint64nLocked(n uint64) uint64 {
	if n == 0 {
		return r.rand.Uint64()
	}
	return r.rand.Uint64() % n
}

// DistinctBits returns n distinct bit numbers drawn uniformly from [0,limit),
// in random order. limit == 0 means the full uint64 domain.
func (r *RNG) DistinctBits(n int, limit uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit != 0 && uint64(n) > limit {
		n = int(limit)
	}

	seen := make(map[uint64]struct{}, n)
	out := make([]uint64, 0, n)
	for len(out) < n {
		b := r.uint64nLocked(limit)
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// ClusteredBits returns bit numbers grouped into numClusters islands. Each
// island starts at a random base and holds perCluster draws from
// [base, base+span). Duplicates are possible; use SortedUnique for truth.
func (r *RNG) ClusteredBits(numClusters, perCluster int, span uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uint64, 0, numClusters*perCluster)
	for range numClusters {
		base := r.rand.Uint64()
		if base > ^uint64(0)-span {
			base -= span
		}
		for range perCluster {
			out = append(out, base+r.uint64nLocked(span))
		}
	}
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Runs returns every bit number of count random ranges of runLen bits, each
// aligned to runLen (runLen must be a power of two). The result is shuffled
// so that runs form in arbitrary order.
func (r *RNG) Runs(count int, runLen uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uint64, 0, uint64(count)*runLen)
	for range count {
		base := r.rand.Uint64() &^ (runLen - 1)
		for i := uint64(0); i < runLen; i++ {
			out = append(out, base+i)
		}
	}
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Shuffle returns a shuffled copy of bits.
func (r *RNG) Shuffle(bits []uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := slices.Clone(bits)
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortedUnique returns the ascending, de-duplicated copy of bits.
func SortedUnique(bits []uint64) []uint64 {
	out := slices.Clone(bits)
	slices.Sort(out)
	return slices.Compact(out)
}
