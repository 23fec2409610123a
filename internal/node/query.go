package node

import (
	"math/bits"
	"slices"

	"github.com/hupe1980/sparsebits/internal/addr"
	"github.com/hupe1980/sparsebits/internal/digitindex"
)

// Min returns the lowest set bit under n.
func (n *Node) Min() (uint64, bool) {
	return n.Iter().Next()
}

// Max returns the highest set bit under n, walking only the last entry of
// each level.
func (n *Node) Max() (uint64, bool) {
	var prefix addr.Address
	for {
		e, ok := n.index.Last()
		if !ok {
			return 0, false
		}
		level := n.Level()
		prefix.SetDigit(level, e.Digit)
		if e.Kind == digitindex.Run {
			return prefix.MaxBitNumber(level), true
		}

		switch c := n.content.(type) {
		case *leafWords:
			w := c.words[e.Offset]
			return prefix.MinBitNumber(level) + uint64(63-bits.LeadingZeros64(w)), true
		case *children:
			n = c.nodes[e.Offset]
		default:
			return 0, false
		}
	}
}

// Equal reports whether a and b hold the same bits. The nodes may differ in
// level; the taller one must then only use digit 0 down to the other's level.
func Equal(a, b *Node) bool {
	if a.Level() < b.Level() {
		a, b = b, a
	}
	for a.Level() > b.Level() {
		if a.IsEmpty() {
			return b.IsEmpty()
		}
		if a.index.MaterializedCount()+a.index.RunCount() != 1 {
			return false
		}
		switch a.index.ClassifyDigit(0).Kind {
		case digitindex.Run:
			return b.IsFull()
		case digitindex.Missing:
			return false
		}
		a = a.content.(*children).nodes[0]
	}
	return a.equal(b)
}

// equal compares two nodes of the same level. The tree is canonical (no
// empty or saturated entries below the root), so structural equality is set
// equality.
func (n *Node) equal(o *Node) bool {
	if n.index != o.index {
		return false
	}
	switch c := n.content.(type) {
	case *leafWords:
		return slices.Equal(c.words, o.content.(*leafWords).words)
	case *children:
		oc := o.content.(*children)
		for i, child := range c.nodes {
			if !child.equal(oc.nodes[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
