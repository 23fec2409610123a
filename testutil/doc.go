// Package testutil provides testing utilities for sparsebits.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic, goroutine-safe RNG and generators for bit
// number workloads of different shapes.
//
// # Random Bit Numbers
//
//	rng := testutil.NewRNG(seed)
//	bits := rng.DistinctBits(1000, 1<<20)     // uniform, no duplicates
//	bits = rng.ClusteredBits(8, 500, 4096)    // dense islands
//	bits = rng.Runs(4, 256)                   // word-aligned full runs
//
// # Ground Truth
//
//	want := testutil.SortedUnique(bits)
package testutil
