package node

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/sparsebits/internal/addr"
	"github.com/hupe1980/sparsebits/internal/digitindex"
)

// SetRange sets every bit in [lo, hi] under n and reports whether anything
// changed. lo <= hi must hold and both must lie in the range n covers.
//
// Digits whose whole range falls inside [lo, hi] become runs directly, so
// only the two partial edge digits of each level recurse.
func (n *Node) SetRange(lo, hi uint64) bool {
	changed := false
	n.spans(lo, hi, func(e digitindex.Entry, start, end uint64, whole bool) {
		if n.setSpan(e, start, end, whole) {
			changed = true
		}
	})
	return changed
}

// ClearRange clears every bit in [lo, hi] under n and reports whether
// anything changed. It has the same preconditions as SetRange.
func (n *Node) ClearRange(lo, hi uint64) bool {
	changed := false
	n.spans(lo, hi, func(e digitindex.Entry, start, end uint64, whole bool) {
		if n.clearSpan(e, start, end, whole) {
			changed = true
		}
	})
	return changed
}

// spans calls fn for every digit of n touched by [lo, hi], in ascending
// order, with the part of the range inside the digit. The entry is
// classified right before the call, so fn may mutate n.
func (n *Node) spans(lo, hi uint64, fn func(e digitindex.Entry, start, end uint64, whole bool)) {
	level := n.Level()
	prefix := addr.FromBitNumber(lo)
	first := int(prefix.Digit(level))
	last := int(addr.FromBitNumber(hi).Digit(level))

	for d := first; d <= last; d++ {
		prefix.SetDigit(level, uint8(d))
		base, top := prefix.MinBitNumber(level), prefix.MaxBitNumber(level)
		start, end := max(lo, base), min(hi, top)
		fn(n.index.ClassifyDigit(uint8(d)), start, end, start == base && end == top)
	}
}

// wordMask returns the bits of [start, end] inside one leaf word.
func wordMask(start, end uint64) uint64 {
	lo, hi := start&63, end&63
	return (uint64(math.MaxUint64) >> (63 - hi)) &^ (uint64(1)<<lo - 1)
}

func (n *Node) setSpan(e digitindex.Entry, start, end uint64, whole bool) bool {
	switch c := n.content.(type) {
	case *leafWords:
		return n.orWord(c, e, wordMask(start, end))
	case *children:
		switch e.Kind {
		case digitindex.Run:
			return false
		case digitindex.Materialized:
			if whole {
				c.nodes = slices.Delete(c.nodes, e.Offset, e.Offset+1)
				n.index.MarkRunDigit(e.Digit)
				return true
			}
			child := c.nodes[e.Offset]
			if !child.SetRange(start, end) {
				return false
			}
			if child.IsFull() {
				c.nodes = slices.Delete(c.nodes, e.Offset, e.Offset+1)
				n.index.MarkRunDigit(e.Digit)
			}
			return true
		default:
			if whole {
				n.index.MarkRunDigit(e.Digit)
				return true
			}
			child := New(n.Level() - 1)
			child.SetRange(start, end)
			c.nodes = slices.Insert(c.nodes, e.Offset, child)
			n.index.MarkMaterializedDigit(e.Digit)
			return true
		}
	default:
		panic(fmt.Sprintf("node: unexpected content %T", c))
	}
}

func (n *Node) clearSpan(e digitindex.Entry, start, end uint64, whole bool) bool {
	switch c := n.content.(type) {
	case *leafWords:
		return n.andNotWord(c, e, wordMask(start, end))
	case *children:
		switch e.Kind {
		case digitindex.Run:
			if whole {
				n.index.MarkMissingDigit(e.Digit)
				return true
			}
			child := New(n.Level() - 1)
			child.index.SetAllRuns()
			child.ClearRange(start, end)
			c.nodes = slices.Insert(c.nodes, e.Offset, child)
			n.index.MarkMaterializedDigit(e.Digit)
			return true
		case digitindex.Materialized:
			if whole {
				c.nodes = slices.Delete(c.nodes, e.Offset, e.Offset+1)
				n.index.MarkMissingDigit(e.Digit)
				return true
			}
			child := c.nodes[e.Offset]
			if !child.ClearRange(start, end) {
				return false
			}
			if child.IsEmpty() {
				c.nodes = slices.Delete(c.nodes, e.Offset, e.Offset+1)
				n.index.MarkMissingDigit(e.Digit)
			}
			return true
		default:
			return false
		}
	default:
		panic(fmt.Sprintf("node: unexpected content %T", c))
	}
}
