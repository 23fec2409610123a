// Package digitindex classifies the 256 digits of a node.
//
// Every digit of a node is in exactly one of three states:
//
//   - Missing: nothing below the digit is set, no content is stored.
//   - Materialized: some bits below the digit are set; the node stores a
//     content entry at the digit's rank among materialized digits.
//   - Run: every bit below the digit is set; no content is stored.
//
// Two DigitSet256 values track the states. A digit is never in both.
package digitindex

import (
	"errors"
	"fmt"
	"iter"

	"github.com/hupe1980/sparsebits/internal/addr"
	"github.com/hupe1980/sparsebits/internal/digitset"
)

// ErrOverlap is returned by Validate when a digit is both materialized and a run.
var ErrOverlap = errors.New("digit is both materialized and run")

// Kind is the state of a digit.
type Kind uint8

const (
	Missing Kind = iota
	Materialized
	Run
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Materialized:
		return "materialized"
	case Run:
		return "run"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry is the classification of one digit.
//
// For Materialized, Offset is the index of the digit's content entry. For
// Missing and Run, Offset is where an entry would be inserted: the number of
// materialized digits below Digit.
type Entry struct {
	Kind   Kind
	Digit  uint8
	Offset int
}

// DigitIndex indexes the digits of one node level.
type DigitIndex struct {
	level        int
	materialized digitset.DigitSet256
	runs         digitset.DigitSet256
}

// New returns an empty index for level.
func New(level int) DigitIndex {
	return DigitIndex{level: level}
}

// Level returns the level whose digit this index classifies.
func (x *DigitIndex) Level() int {
	return x.level
}

func (x *DigitIndex) digit(a addr.Address) uint8 {
	return a.Digit(x.level)
}

// Classify returns the state of a's digit at this index's level.
func (x *DigitIndex) Classify(a addr.Address) Entry {
	return x.ClassifyDigit(x.digit(a))
}

// ClassifyDigit is Classify for a raw digit.
func (x *DigitIndex) ClassifyDigit(d uint8) Entry {
	offset, ok := x.materialized.Rank(d)
	if x.runs.Test(d) {
		return Entry{Kind: Run, Digit: d, Offset: offset}
	}
	if ok {
		return Entry{Kind: Materialized, Digit: d, Offset: offset}
	}
	return Entry{Kind: Missing, Digit: d, Offset: offset}
}

// MarkMaterialized records that a's digit has a content entry.
func (x *DigitIndex) MarkMaterialized(a addr.Address) {
	x.MarkMaterializedDigit(x.digit(a))
}

// MarkMaterializedDigit is MarkMaterialized for a raw digit.
func (x *DigitIndex) MarkMaterializedDigit(d uint8) {
	x.materialized.Set(d)
	x.runs.Clear(d)
}

// MarkRun records that a's digit is fully set. The caller must already have
// removed the digit's content entry.
func (x *DigitIndex) MarkRun(a addr.Address) {
	x.MarkRunDigit(x.digit(a))
}

// MarkRunDigit is MarkRun for a raw digit.
func (x *DigitIndex) MarkRunDigit(d uint8) {
	x.runs.Set(d)
	x.materialized.Clear(d)
}

// MarkMissing records that nothing is set below a's digit. The caller must
// already have removed the digit's content entry.
func (x *DigitIndex) MarkMissing(a addr.Address) {
	x.MarkMissingDigit(x.digit(a))
}

// MarkMissingDigit is MarkMissing for a raw digit.
func (x *DigitIndex) MarkMissingDigit(d uint8) {
	x.runs.Clear(d)
	x.materialized.Clear(d)
}

// SetAllRuns marks every digit as a run, dropping all materialized digits.
func (x *DigitIndex) SetAllRuns() {
	x.runs.SetAll()
	x.materialized.ClearAll()
}

// IsAllRuns reports whether every digit is a run.
func (x *DigitIndex) IsAllRuns() bool { return x.runs.IsFull() }

// IsMaterializedEmpty reports whether no digit is materialized.
func (x *DigitIndex) IsMaterializedEmpty() bool { return x.materialized.IsEmpty() }

// IsMaterializedFull reports whether every digit is materialized.
func (x *DigitIndex) IsMaterializedFull() bool { return x.materialized.IsFull() }

// IsRunsEmpty reports whether no digit is a run.
func (x *DigitIndex) IsRunsEmpty() bool { return x.runs.IsEmpty() }

// IsRunsFull reports whether every digit is a run.
func (x *DigitIndex) IsRunsFull() bool { return x.runs.IsFull() }

// IsEmpty reports whether every digit is missing.
func (x *DigitIndex) IsEmpty() bool {
	return x.materialized.IsEmpty() && x.runs.IsEmpty()
}

// MaterializedCount returns the number of materialized digits, which equals
// the length of the owning node's content.
func (x *DigitIndex) MaterializedCount() int { return x.materialized.Count() }

// RunCount returns the number of run digits.
func (x *DigitIndex) RunCount() int { return x.runs.Count() }

// IsMaterialized reports whether digit d is materialized.
func (x *DigitIndex) IsMaterialized(d uint8) bool { return x.materialized.Test(d) }

// IsRun reports whether digit d is a run.
func (x *DigitIndex) IsRun(d uint8) bool { return x.runs.Test(d) }

// Last returns the highest non-missing digit.
func (x *DigitIndex) Last() (Entry, bool) {
	m, hasMat := x.materialized.Last()
	r, hasRun := x.runs.Last()
	switch {
	case hasMat && (!hasRun || m > r):
		return Entry{Kind: Materialized, Digit: m, Offset: x.materialized.Count() - 1}, true
	case hasRun:
		return Entry{Kind: Run, Digit: r, Offset: x.materialized.Count()}, true
	default:
		return Entry{}, false
	}
}

// Validate checks that no digit is both materialized and a run.
func (x *DigitIndex) Validate() error {
	if both := x.materialized.And(x.runs); !both.IsEmpty() {
		d, _ := both.NextSet(0)
		return fmt.Errorf("level %d digit %#02x: %w", x.level, d, ErrOverlap)
	}
	return nil
}

func (x DigitIndex) String() string {
	return fmt.Sprintf("L%d{materialized: %s, runs: %s}", x.level, x.materialized, x.runs)
}

// Iter returns a pull iterator over all non-missing digits in ascending order.
func (x *DigitIndex) Iter() Iterator {
	it := Iterator{
		materialized: x.materialized.Iter(),
		runs:         x.runs.Iter(),
	}
	it.nextMat, it.hasMat = it.materialized.Next()
	it.nextRun, it.hasRun = it.runs.Next()
	return it
}

// All yields Iter's entries for range-over-func.
func (x *DigitIndex) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		it := x.Iter()
		for {
			e, ok := it.Next()
			if !ok || !yield(e) {
				return
			}
		}
	}
}

// Iterator merges the materialized and run digit sequences by digit value.
// Materialized entries carry sequential offsets starting at 0.
type Iterator struct {
	materialized digitset.Iterator
	runs         digitset.Iterator

	nextMat, nextRun uint8
	hasMat, hasRun   bool
	offset           int
}

// Next returns the next non-missing digit.
func (it *Iterator) Next() (Entry, bool) {
	switch {
	case it.hasMat && (!it.hasRun || it.nextMat < it.nextRun):
		e := Entry{Kind: Materialized, Digit: it.nextMat, Offset: it.offset}
		it.offset++
		it.nextMat, it.hasMat = it.materialized.Next()
		return e, true
	case it.hasRun:
		e := Entry{Kind: Run, Digit: it.nextRun, Offset: it.offset}
		it.nextRun, it.hasRun = it.runs.Next()
		return e, true
	default:
		return Entry{}, false
	}
}
