package sparsebits

import (
	"github.com/bits-and-blooms/bitset"
)

// Dense exports the window [lo, lo+n) as a dense bitset whose bit i is bit
// lo+i of b. Bits past the end of the uint64 domain read as unset.
func (b *Bitmap) Dense(lo uint64, n uint) *bitset.BitSet {
	bs := bitset.New(n)
	for i := uint(0); i < n; i++ {
		bit := lo + uint64(i)
		if bit < lo {
			break
		}
		if b.Get(bit) {
			bs.Set(i)
		}
	}
	return bs
}

// SetDense sets bit lo+i for every set bit i of bs. Bits that would land
// past the end of the uint64 domain are ignored.
func (b *Bitmap) SetDense(bs *bitset.BitSet, lo uint64) {
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		bit := lo + uint64(i)
		if bit < lo {
			return
		}
		b.Set(bit)
	}
}

// FromDense builds a Bitmap from a dense bitset based at lo.
func FromDense(bs *bitset.BitSet, lo uint64, optFns ...Option) *Bitmap {
	b := New(optFns...)
	b.SetDense(bs, lo)
	return b
}
