package sparsebits

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/hupe1980/sparsebits/internal/addr"
	"github.com/hupe1980/sparsebits/internal/node"
)

// Bitmap is a compressed set of uint64 bit numbers.
//
// A Bitmap is not safe for concurrent mutation. Concurrent readers of a
// Bitmap that nobody mutates are fine.
type Bitmap struct {
	root    *node.Node
	logger  *Logger
	metrics MetricsCollector
}

// Stats describes the shape of a Bitmap's tree.
type Stats = node.Stats

// New returns an empty Bitmap.
func New(optFns ...Option) *Bitmap {
	o := applyOptions(optFns)
	return &Bitmap{
		root:    node.New(o.initialLevel),
		logger:  o.logger,
		metrics: o.metricsCollector,
	}
}

// grow raises the root until it covers a.
func (b *Bitmap) grow(a addr.Address, bit uint64) {
	for a.Level() > b.root.Level() {
		from := b.root.Level()
		b.root = node.Grow(b.root)
		b.logger.LogRootGrowth(bit, from, b.root.Level())
		b.metrics.RecordRootGrowth(b.root.Level())
	}
}

// Set adds bit to the bitmap.
func (b *Bitmap) Set(bit uint64) {
	b.CheckedSet(bit)
}

// CheckedSet adds bit and reports whether it was newly added.
func (b *Bitmap) CheckedSet(bit uint64) bool {
	a := addr.FromBitNumber(bit)
	b.grow(a, bit)
	changed := b.root.Set(a)
	b.metrics.RecordSet(changed)
	return changed
}

// SetMany adds every given bit.
func (b *Bitmap) SetMany(bits ...uint64) {
	for _, bit := range bits {
		b.Set(bit)
	}
}

// Clear removes bit from the bitmap. The root never shrinks.
func (b *Bitmap) Clear(bit uint64) {
	b.CheckedClear(bit)
}

// CheckedClear removes bit and reports whether it was present.
func (b *Bitmap) CheckedClear(bit uint64) bool {
	a := addr.FromBitNumber(bit)
	changed := false
	if a.Level() <= b.root.Level() {
		changed = b.root.Clear(a)
	}
	b.metrics.RecordClear(changed)
	return changed
}

// Get reports whether bit is set.
func (b *Bitmap) Get(bit uint64) bool {
	a := addr.FromBitNumber(bit)
	if a.Level() > b.root.Level() {
		return false
	}
	return b.root.Get(a)
}

// Contains is an alias for Get.
func (b *Bitmap) Contains(bit uint64) bool {
	return b.Get(bit)
}

// SetRange adds every bit in [lo, hi]. Whole aligned sub-ranges become runs
// directly, so the cost depends on the tree height rather than hi-lo.
func (b *Bitmap) SetRange(lo, hi uint64) error {
	if lo > hi {
		return &ErrInvalidRange{Lo: lo, Hi: hi}
	}
	b.grow(addr.FromBitNumber(hi), hi)
	b.metrics.RecordSet(b.root.SetRange(lo, hi))
	return nil
}

// ClearRange removes every bit in [lo, hi].
func (b *Bitmap) ClearRange(lo, hi uint64) error {
	if lo > hi {
		return &ErrInvalidRange{Lo: lo, Hi: hi}
	}
	// Nothing above the root's range can be set.
	hi = min(hi, addr.MaxRepresentable(b.root.Level()))
	changed := false
	if lo <= hi {
		changed = b.root.ClearRange(lo, hi)
	}
	b.metrics.RecordClear(changed)
	return nil
}

// Clone returns an independent deep copy. The copy shares the logger and
// metrics collector.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		root:    b.root.Clone(),
		logger:  b.logger,
		metrics: b.metrics,
	}
}

// Iter returns a pull iterator over the set bits in ascending order. The
// iterator is invalidated by any mutation of b.
func (b *Bitmap) Iter() *node.Iterator {
	return b.root.Iter()
}

// All yields the set bits in ascending order.
func (b *Bitmap) All() iter.Seq[uint64] {
	return b.root.All()
}

// Ranges yields the maximal spans [lo, hi] of consecutive set bits in
// ascending order.
func (b *Bitmap) Ranges() iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		it := b.root.Iter()
		lo, hi, ok := it.NextRange()
		if !ok {
			return
		}
		for {
			nlo, nhi, more := it.NextRange()
			if more && hi != math.MaxUint64 && nlo == hi+1 {
				hi = nhi
				continue
			}
			if !yield(lo, hi) || !more {
				return
			}
			lo, hi = nlo, nhi
		}
	}
}

// ToSlice returns the set bits in ascending order.
func (b *Bitmap) ToSlice() []uint64 {
	var out []uint64
	for bit := range b.All() {
		out = append(out, bit)
	}
	return out
}

// IsEmpty reports whether no bit is set.
func (b *Bitmap) IsEmpty() bool {
	return b.root.IsEmpty()
}

// Cardinality returns the number of set bits. A bitmap holding all 2^64 bit
// numbers reports math.MaxUint64.
func (b *Bitmap) Cardinality() uint64 {
	count, full := b.root.Cardinality()
	if full {
		return math.MaxUint64
	}
	return count
}

// Min returns the smallest set bit, or ErrEmpty.
func (b *Bitmap) Min() (uint64, error) {
	bit, ok := b.root.Min()
	if !ok {
		return 0, ErrEmpty
	}
	return bit, nil
}

// Max returns the largest set bit, or ErrEmpty.
func (b *Bitmap) Max() (uint64, error) {
	bit, ok := b.root.Max()
	if !ok {
		return 0, ErrEmpty
	}
	return bit, nil
}

// Level returns the level of the root node.
func (b *Bitmap) Level() int {
	return b.root.Level()
}

// Stats walks the tree and returns node and run counts.
func (b *Bitmap) Stats() Stats {
	return b.root.Stats()
}

// Validate checks the structural invariants of the tree. Failures wrap
// ErrCorrupt.
func (b *Bitmap) Validate() error {
	err := translateError(b.root.Validate())
	b.logger.LogValidate(b.root.Level(), err)
	return err
}

// Equal reports whether b and o hold the same bits, regardless of root level.
func (b *Bitmap) Equal(o *Bitmap) bool {
	if b == nil || o == nil {
		return b == o
	}
	return node.Equal(b.root, o.root)
}

const maxStringRanges = 16

// String renders up to 16 spans, e.g. {0-2,5,64-127}.
func (b *Bitmap) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	n := 0
	for lo, hi := range b.Ranges() {
		if n == maxStringRanges {
			sb.WriteString(",...")
			break
		}
		if n > 0 {
			sb.WriteByte(',')
		}
		if lo == hi {
			fmt.Fprintf(&sb, "%d", lo)
		} else {
			fmt.Fprintf(&sb, "%d-%d", lo, hi)
		}
		n++
	}
	sb.WriteByte('}')
	return sb.String()
}
