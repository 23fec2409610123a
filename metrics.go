package sparsebits

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// A Bitmap calls the collector synchronously from the mutating goroutine.
// Collectors shared between bitmaps owned by different goroutines must be
// safe for concurrent use; BasicMetricsCollector is.
type MetricsCollector interface {
	// RecordSet is called after each set. changed reports whether the bit
	// was previously unset.
	RecordSet(changed bool)

	// RecordClear is called after each clear. changed reports whether the
	// bit was previously set.
	RecordClear(changed bool)

	// RecordRootGrowth is called each time the root grows to a new level.
	RecordRootGrowth(level int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSet(bool)       {}
func (NoopMetricsCollector) RecordClear(bool)     {}
func (NoopMetricsCollector) RecordRootGrowth(int) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SetCount        atomic.Int64
	SetChanged      atomic.Int64
	ClearCount      atomic.Int64
	ClearChanged    atomic.Int64
	RootGrowthCount atomic.Int64
	MaxRootLevel    atomic.Int64
}

// RecordSet implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSet(changed bool) {
	b.SetCount.Add(1)
	if changed {
		b.SetChanged.Add(1)
	}
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear(changed bool) {
	b.ClearCount.Add(1)
	if changed {
		b.ClearChanged.Add(1)
	}
}

// RecordRootGrowth implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRootGrowth(level int) {
	b.RootGrowthCount.Add(1)
	for {
		cur := b.MaxRootLevel.Load()
		if int64(level) <= cur || b.MaxRootLevel.CompareAndSwap(cur, int64(level)) {
			return
		}
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SetCount:        b.SetCount.Load(),
		SetChanged:      b.SetChanged.Load(),
		ClearCount:      b.ClearCount.Load(),
		ClearChanged:    b.ClearChanged.Load(),
		RootGrowthCount: b.RootGrowthCount.Load(),
		MaxRootLevel:    b.MaxRootLevel.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SetCount        int64
	SetChanged      int64
	ClearCount      int64
	ClearChanged    int64
	RootGrowthCount int64
	MaxRootLevel    int64
}
