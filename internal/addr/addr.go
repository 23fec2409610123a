package addr

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MaxLevel is the highest level in the table. A node at MaxLevel covers
	// every uint64.
	MaxLevel = 8

	// BottomLevel is the lowest node level. Its content is leaf words.
	BottomLevel = 1

	// WordBits is the number of bit numbers covered by one leaf word.
	WordBits = 64
)

type levelParam struct {
	shift uint
	mask  uint64
	max   uint64 // largest bit number representable at this level
}

var table = [MaxLevel + 1]levelParam{
	{shift: 0, mask: 0x3f, max: 1<<6 - 1},
	{shift: 6, mask: 0xff, max: 1<<14 - 1},
	{shift: 14, mask: 0xff, max: 1<<22 - 1},
	{shift: 22, mask: 0xff, max: 1<<30 - 1},
	{shift: 30, mask: 0xff, max: 1<<38 - 1},
	{shift: 38, mask: 0xff, max: 1<<46 - 1},
	{shift: 46, mask: 0xff, max: 1<<54 - 1},
	{shift: 54, mask: 0xff, max: 1<<62 - 1},
	{shift: 62, mask: 0xff, max: math.MaxUint64},
}

func valid(level int) bool {
	return level >= 0 && level <= MaxLevel
}

// Shift returns the bit offset of the digit at level, or 0 for an invalid level.
func Shift(level int) uint {
	if !valid(level) {
		return 0
	}
	return table[level].shift
}

// Mask returns the digit mask at level, or 0 for an invalid level.
func Mask(level int) uint64 {
	if !valid(level) {
		return 0
	}
	return table[level].mask
}

// MaxRepresentable returns the largest bit number a subtree rooted at level
// can hold. Invalid levels yield 0.
func MaxRepresentable(level int) uint64 {
	if !valid(level) {
		return 0
	}
	return table[level].max
}

// Digits returns the radix at level: 64 at level 0, 256 above, 0 if invalid.
func Digits(level int) int {
	if !valid(level) {
		return 0
	}
	return int(table[level].mask) + 1
}

// Address is a bit number split into one digit per level.
//
// Digits above Level are zero. Address is a small value type; copy it freely.
type Address struct {
	level  int
	digits [MaxLevel + 1]uint8
}

// FromBitNumber decomposes n. Level is the smallest level whose range
// contains n.
func FromBitNumber(n uint64) Address {
	var a Address
	for l := 0; l <= MaxLevel; l++ {
		p := table[l]
		a.digits[l] = uint8((n >> p.shift) & p.mask)
		if n <= p.max {
			a.level = l
			break
		}
	}
	return a
}

// Level returns the smallest level whose range contains the address.
func (a Address) Level() int {
	return a.level
}

// Digit returns the digit at level, or 0 above Level or outside the table.
func (a Address) Digit(level int) uint8 {
	if level < 0 || level > a.level {
		return 0
	}
	return a.digits[level]
}

// SetDigit overwrites the digit at level, raising Level if needed. Used to
// build child prefixes while walking down the tree.
func (a *Address) SetDigit(level int, value uint8) {
	if !valid(level) {
		return
	}
	a.digits[level] = value & uint8(table[level].mask)
	if level > a.level {
		a.level = level
	}
}

// BitNumber reassembles the bit number from its digits.
func (a Address) BitNumber() uint64 {
	var n uint64
	for l := 0; l <= a.level; l++ {
		n |= uint64(a.digits[l]) << table[l].shift
	}
	return n
}

// MinBitNumber returns the lowest bit number sharing this address's digits
// at level and above.
func (a Address) MinBitNumber(level int) uint64 {
	if !valid(level) {
		return 0
	}
	return a.BitNumber() & (uint64(math.MaxUint64) << table[level].shift)
}

// MaxBitNumber returns the highest bit number sharing this address's digits
// at level and above. The range [MinBitNumber, MaxBitNumber] is inclusive.
func (a Address) MaxBitNumber(level int) uint64 {
	if !valid(level) {
		return 0
	}
	lo := a.MinBitNumber(level)
	if level == 0 {
		return lo
	}
	return lo + table[level-1].max
}

func (a Address) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "L%d[", a.level)
	for l := a.level; l >= 0; l-- {
		fmt.Fprintf(&sb, "%02x", a.digits[l])
		if l > 0 {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
