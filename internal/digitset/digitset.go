// Package digitset provides DigitSet256, a fixed 256-slot bit container.
//
// DigitSet256 is a value type of four uint64 words. Copying it copies the
// set. Rank uses popcounts so that a set can double as the index into a
// parallel, sorted content slice.
package digitset

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
)

// Size is the number of slots in a DigitSet256.
const Size = 256

// DigitSet256 is a 256-bit set addressed by uint8 digits.
type DigitSet256 [4]uint64

// Set adds d to the set.
func (s *DigitSet256) Set(d uint8) {
	s[d>>6] |= 1 << (d & 63)
}

// Clear removes d from the set.
func (s *DigitSet256) Clear(d uint8) {
	s[d>>6] &^= 1 << (d & 63)
}

// Test reports whether d is in the set.
func (s *DigitSet256) Test(d uint8) bool {
	return s[d>>6]&(1<<(d&63)) != 0
}

// SetAll fills every slot.
func (s *DigitSet256) SetAll() {
	s[0], s[1], s[2], s[3] = math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64
}

// ClearAll empties the set.
func (s *DigitSet256) ClearAll() {
	*s = DigitSet256{}
}

// IsEmpty reports whether no slot is set.
func (s *DigitSet256) IsEmpty() bool {
	return s[0]|s[1]|s[2]|s[3] == 0
}

// IsFull reports whether all 256 slots are set.
func (s *DigitSet256) IsFull() bool {
	return s[0]&s[1]&s[2]&s[3] == math.MaxUint64
}

// Count returns the number of set slots.
func (s *DigitSet256) Count() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1]) +
		bits.OnesCount64(s[2]) + bits.OnesCount64(s[3])
}

// Rank returns the number of set slots strictly before d and whether d itself
// is set. When d is not set, offset is the position at which an entry for d
// would be inserted into a slice ordered by this set.
func (s *DigitSet256) Rank(d uint8) (offset int, ok bool) {
	w := int(d >> 6)
	for i := 0; i < w; i++ {
		offset += bits.OnesCount64(s[i])
	}
	bit := uint64(1) << (d & 63)
	offset += bits.OnesCount64(s[w] & (bit - 1))
	return offset, s[w]&bit != 0
}

// NextSet returns the smallest set slot >= from.
func (s *DigitSet256) NextSet(from uint8) (uint8, bool) {
	w := int(from >> 6)
	word := s[w] >> (from & 63)
	if word != 0 {
		return from + uint8(bits.TrailingZeros64(word)), true
	}
	for w++; w < len(s); w++ {
		if s[w] != 0 {
			return uint8(w<<6 + bits.TrailingZeros64(s[w])), true
		}
	}
	return 0, false
}

// Last returns the highest set slot.
func (s *DigitSet256) Last() (uint8, bool) {
	for w := len(s) - 1; w >= 0; w-- {
		if s[w] != 0 {
			return uint8(w<<6 + 63 - bits.LeadingZeros64(s[w])), true
		}
	}
	return 0, false
}

// All yields the set slots in ascending order.
func (s *DigitSet256) All() iter.Seq[uint8] {
	return func(yield func(uint8) bool) {
		it := s.Iter()
		for {
			d, ok := it.Next()
			if !ok || !yield(d) {
				return
			}
		}
	}
}

// Iter returns a pull iterator over the set slots in ascending order.
// The iterator works on a snapshot of the set.
func (s *DigitSet256) Iter() Iterator {
	return Iterator{words: *s}
}

// And returns the intersection of s and o.
func (s DigitSet256) And(o DigitSet256) DigitSet256 {
	return DigitSet256{s[0] & o[0], s[1] & o[1], s[2] & o[2], s[3] & o[3]}
}

// Or returns the union of s and o.
func (s DigitSet256) Or(o DigitSet256) DigitSet256 {
	return DigitSet256{s[0] | o[0], s[1] | o[1], s[2] | o[2], s[3] | o[3]}
}

// AndNot returns the slots of s that are not in o.
func (s DigitSet256) AndNot(o DigitSet256) DigitSet256 {
	return DigitSet256{s[0] &^ o[0], s[1] &^ o[1], s[2] &^ o[2], s[3] &^ o[3]}
}

// Intersects reports whether s and o share any slot.
func (s DigitSet256) Intersects(o DigitSet256) bool {
	return (s[0]&o[0])|(s[1]&o[1])|(s[2]&o[2])|(s[3]&o[3]) != 0
}

// Word returns the raw word i (0..3).
func (s DigitSet256) Word(i int) uint64 {
	return s[i]
}

func (s DigitSet256) String() string {
	return fmt.Sprintf("[3:%#x 2:%#x 1:%#x 0:%#x]", s[3], s[2], s[1], s[0])
}

// Iterator walks set slots using trailing-zero counts, one word at a time.
type Iterator struct {
	words  [4]uint64
	wordno int
}

// Next returns the next set slot.
func (it *Iterator) Next() (uint8, bool) {
	for it.wordno < len(it.words) {
		w := it.words[it.wordno]
		if w == 0 {
			it.wordno++
			continue
		}
		tz := bits.TrailingZeros64(w)
		it.words[it.wordno] = w & (w - 1) // drop lowest bit
		return uint8(it.wordno<<6 + tz), true
	}
	return 0, false
}
