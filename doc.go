// Package sparsebits provides a compressed, hierarchical set of uint64 bit
// numbers.
//
// A Bitmap stores bit numbers in a radix tree. The lowest node level holds
// 64-bit leaf words; every level above fans out 256 ways. Each node keeps a
// digit index that classifies every digit as missing, materialized or a run.
// A run marks a sub-range that is completely set and takes no storage, so
// dense clusters collapse as they fill and explode again on the first clear.
//
// # Quick Start
//
//	bm := sparsebits.New()
//	bm.Set(42)
//	bm.Set(math.MaxUint64)
//	_ = bm.SetRange(1<<20, 1<<21-1) // collapses into runs
//
//	if bm.Get(42) {
//		// ...
//	}
//
//	for bit := range bm.All() {
//		fmt.Println(bit)
//	}
//
// # Root Growth
//
// A new Bitmap starts with a single bottom-level node covering [0, 2^14).
// Setting a larger bit number grows the root one level at a time until the
// number fits; the previous root becomes digit 0 of the new one. The root
// never shrinks. Use WithInitialLevel to pre-size it.
//
// # Interop
//
// ToRoaring64 and FromRoaring64 convert to and from roaring64 bitmaps.
// Dense and SetDense move windows of bits in and out of bits-and-blooms
// bitsets.
//
// # Observability
//
// WithLogger attaches a structured logger (log/slog) that records root growth
// and validation failures. WithMetricsCollector attaches a MetricsCollector;
// BasicMetricsCollector keeps in-memory counters.
//
// # Concurrency
//
// A Bitmap must not be mutated concurrently. Any number of goroutines may read
// a Bitmap that is not being mutated; Clone gives each writer its own copy.
package sparsebits
