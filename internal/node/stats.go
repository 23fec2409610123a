package node

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/hupe1980/sparsebits/internal/addr"
)

// Stats describes the shape of a tree.
type Stats struct {
	Nodes        int
	LeafWords    int
	Runs         int
	NodesByLevel [addr.MaxLevel + 1]int
	RunsByLevel  [addr.MaxLevel + 1]int
}

// Stats walks the tree under n and returns its shape.
func (n *Node) Stats() Stats {
	var s Stats
	n.accumulate(&s)
	return s
}

func (n *Node) accumulate(s *Stats) {
	level := n.Level()
	runs := n.index.RunCount()
	s.Nodes++
	s.NodesByLevel[level]++
	s.Runs += runs
	s.RunsByLevel[level] += runs

	switch c := n.content.(type) {
	case *leafWords:
		s.LeafWords += len(c.words)
	case *children:
		for _, child := range c.nodes {
			child.accumulate(s)
		}
	}
}

// Cardinality returns the number of set bits under n. The count saturates at
// math.MaxUint64, so a tree holding all 2^64 bit numbers reports
// math.MaxUint64 with full set to true.
func (n *Node) Cardinality() (count uint64, full bool) {
	count, carry := n.cardinality()
	if carry != 0 {
		return math.MaxUint64, true
	}
	return count, false
}

func (n *Node) cardinality() (count, carry uint64) {
	level := n.Level()
	// every run digit covers MaxRepresentable(level-1)+1 bits
	span := addr.MaxRepresentable(level-1) + 1
	hi, lo := bits.Mul64(uint64(n.index.RunCount()), span)
	count, carry = lo, hi

	switch c := n.content.(type) {
	case *leafWords:
		for _, w := range c.words {
			var cc uint64
			count, cc = bits.Add64(count, uint64(bits.OnesCount64(w)), 0)
			carry += cc
		}
	case *children:
		for _, child := range c.nodes {
			sub, subCarry := child.cardinality()
			var cc uint64
			count, cc = bits.Add64(count, sub, 0)
			carry += cc + subCarry
		}
	}
	return count, carry
}

// Validate checks the structural invariants of the tree under n:
//
//   - no digit is both materialized and a run
//   - the content holds exactly one entry per materialized digit
//   - leaf words only at the bottom level, children exactly one level lower
//   - no materialized entry is empty or saturated (it should be missing or a run)
//
// A saturated root is allowed; it has no parent to collapse into.
func (n *Node) Validate() error {
	if err := n.index.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	level := n.Level()
	if got, want := n.Len(), n.index.MaterializedCount(); got != want {
		return fmt.Errorf("%w: level %d has %d entries for %d materialized digits", ErrCorrupt, level, got, want)
	}

	switch c := n.content.(type) {
	case *leafWords:
		if level != addr.BottomLevel {
			return fmt.Errorf("%w: leaf words at level %d", ErrCorrupt, level)
		}
		for i, w := range c.words {
			switch w {
			case 0:
				return fmt.Errorf("%w: level %d entry %d is an empty word", ErrCorrupt, level, i)
			case math.MaxUint64:
				return fmt.Errorf("%w: level %d entry %d is a saturated word", ErrCorrupt, level, i)
			}
		}
	case *children:
		if level <= addr.BottomLevel {
			return fmt.Errorf("%w: child nodes at level %d", ErrCorrupt, level)
		}
		for i, child := range c.nodes {
			if child == nil {
				return fmt.Errorf("%w: level %d entry %d is nil", ErrCorrupt, level, i)
			}
			if child.Level() != level-1 {
				return fmt.Errorf("%w: level %d entry %d has level %d", ErrCorrupt, level, i, child.Level())
			}
			if child.IsEmpty() {
				return fmt.Errorf("%w: level %d entry %d is empty", ErrCorrupt, level, i)
			}
			if child.IsFull() {
				return fmt.Errorf("%w: level %d entry %d is saturated", ErrCorrupt, level, i)
			}
			if err := child.Validate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unexpected content %T", ErrCorrupt, c)
	}
	return nil
}
