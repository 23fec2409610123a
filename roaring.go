package sparsebits

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ToRoaring64 converts b into a roaring64 bitmap. Runs are added as ranges
// so that the conversion stays proportional to the size of the tree.
func (b *Bitmap) ToRoaring64() *roaring64.Bitmap {
	rb := roaring64.New()
	for lo, hi := range b.Ranges() {
		if hi == math.MaxUint64 {
			// AddRange takes an exclusive end, which cannot express 2^64.
			if lo < hi {
				rb.AddRange(lo, hi)
			}
			rb.Add(hi)
			continue
		}
		rb.AddRange(lo, hi+1)
	}
	return rb
}

// FromRoaring64 builds a Bitmap holding the members of rb.
func FromRoaring64(rb *roaring64.Bitmap, optFns ...Option) *Bitmap {
	b := New(optFns...)
	if rb == nil {
		return b
	}
	it := rb.Iterator()
	for it.HasNext() {
		b.Set(it.Next())
	}
	return b
}
