// Package node implements the recursive node tree of a sparse bitmap.
//
// A node at level L classifies the level-L digit of an address through its
// DigitIndex. Materialized digits own one content entry each, stored in
// ascending digit order:
//
//	level 1 (BottomLevel): leaf words, one uint64 per digit, bit = level-0 digit
//	level 2..8:            child nodes one level lower
//
// Saturated entries collapse into runs bottom-up, one level per mutation, and
// runs explode back into materialized content when a bit under them is
// cleared.
package node

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/sparsebits/internal/addr"
	"github.com/hupe1980/sparsebits/internal/digitindex"
)

// content is the tagged payload of a node: *leafWords or *children.
type content interface {
	len() int
}

type leafWords struct {
	words []uint64
}

func (c *leafWords) len() int { return len(c.words) }

type children struct {
	nodes []*Node
}

func (c *children) len() int { return len(c.nodes) }

// Node is one level of the tree. It exclusively owns its content and every
// descendant.
type Node struct {
	index   digitindex.DigitIndex
	content content
}

// New returns an empty node at level. It panics for a level outside
// [addr.BottomLevel, addr.MaxLevel].
func New(level int) *Node {
	var c content
	switch {
	case level == addr.BottomLevel:
		c = &leafWords{words: make([]uint64, 0, 1)}
	case level > addr.BottomLevel && level <= addr.MaxLevel:
		c = &children{nodes: make([]*Node, 0, 1)}
	default:
		panic(fmt.Errorf("node: level %d: %w", level, ErrInvalidLevel))
	}
	return &Node{
		index:   digitindex.New(level),
		content: c,
	}
}

// Level returns the level of the node.
func (n *Node) Level() int {
	return n.index.Level()
}

// Index returns a copy of the node's digit index.
func (n *Node) Index() digitindex.DigitIndex {
	return n.index
}

// Len returns the number of content entries (materialized digits).
func (n *Node) Len() int {
	return n.content.len()
}

// IsEmpty reports whether no bit is set under the node.
func (n *Node) IsEmpty() bool {
	return n.index.IsEmpty()
}

// IsFull reports whether every bit under the node is set.
func (n *Node) IsFull() bool {
	return n.index.IsAllRuns()
}

func bitMask(a addr.Address) uint64 {
	return 1 << a.Digit(0)
}

// Set sets the bit at a and reports whether it was previously unset.
func (n *Node) Set(a addr.Address) bool {
	e := n.index.Classify(a)
	switch c := n.content.(type) {
	case *leafWords:
		return n.setWord(c, e, a)
	case *children:
		return n.setChild(c, e, a)
	default:
		panic(fmt.Sprintf("node: unexpected content %T", c))
	}
}

func (n *Node) setWord(c *leafWords, e digitindex.Entry, a addr.Address) bool {
	return n.orWord(c, e, bitMask(a))
}

// orWord sets mask in the word of e's digit.
func (n *Node) orWord(c *leafWords, e digitindex.Entry, mask uint64) bool {
	switch e.Kind {
	case digitindex.Run:
		return false
	case digitindex.Materialized:
		w := c.words[e.Offset]
		if w|mask == w {
			return false
		}
		w |= mask
		if w == math.MaxUint64 {
			c.words = slices.Delete(c.words, e.Offset, e.Offset+1)
			n.index.MarkRunDigit(e.Digit)
		} else {
			c.words[e.Offset] = w
		}
		return true
	default:
		if mask == math.MaxUint64 {
			n.index.MarkRunDigit(e.Digit)
			return true
		}
		c.words = slices.Insert(c.words, e.Offset, mask)
		n.index.MarkMaterializedDigit(e.Digit)
		return true
	}
}

func (n *Node) setChild(c *children, e digitindex.Entry, a addr.Address) bool {
	switch e.Kind {
	case digitindex.Run:
		return false
	case digitindex.Materialized:
		child := c.nodes[e.Offset]
		if !child.Set(a) {
			return false
		}
		if child.IsFull() {
			c.nodes = slices.Delete(c.nodes, e.Offset, e.Offset+1)
			n.index.MarkRun(a)
		}
		return true
	default:
		child := New(n.Level() - 1)
		child.Set(a)
		c.nodes = slices.Insert(c.nodes, e.Offset, child)
		n.index.MarkMaterialized(a)
		return true
	}
}

// Clear clears the bit at a and reports whether it was previously set.
func (n *Node) Clear(a addr.Address) bool {
	e := n.index.Classify(a)
	switch c := n.content.(type) {
	case *leafWords:
		return n.clearWord(c, e, a)
	case *children:
		return n.clearChild(c, e, a)
	default:
		panic(fmt.Sprintf("node: unexpected content %T", c))
	}
}

func (n *Node) clearWord(c *leafWords, e digitindex.Entry, a addr.Address) bool {
	return n.andNotWord(c, e, bitMask(a))
}

// andNotWord clears mask in the word of e's digit. A run explodes into a
// word inserted at the digit's rank.
func (n *Node) andNotWord(c *leafWords, e digitindex.Entry, mask uint64) bool {
	switch e.Kind {
	case digitindex.Run:
		if mask == math.MaxUint64 {
			n.index.MarkMissingDigit(e.Digit)
			return true
		}
		c.words = slices.Insert(c.words, e.Offset, math.MaxUint64&^mask)
		n.index.MarkMaterializedDigit(e.Digit)
		return true
	case digitindex.Materialized:
		w := c.words[e.Offset]
		if w&mask == 0 {
			return false
		}
		w &^= mask
		if w == 0 {
			c.words = slices.Delete(c.words, e.Offset, e.Offset+1)
			n.index.MarkMissingDigit(e.Digit)
		} else {
			c.words[e.Offset] = w
		}
		return true
	default:
		return false
	}
}

func (n *Node) clearChild(c *children, e digitindex.Entry, a addr.Address) bool {
	switch e.Kind {
	case digitindex.Run:
		child := New(n.Level() - 1)
		child.index.SetAllRuns()
		child.Clear(a)
		c.nodes = slices.Insert(c.nodes, e.Offset, child)
		n.index.MarkMaterialized(a)
		return true
	case digitindex.Materialized:
		child := c.nodes[e.Offset]
		if !child.Clear(a) {
			return false
		}
		if child.IsEmpty() {
			c.nodes = slices.Delete(c.nodes, e.Offset, e.Offset+1)
			n.index.MarkMissing(a)
		}
		return true
	default:
		return false
	}
}

// Get reports whether the bit at a is set.
func (n *Node) Get(a addr.Address) bool {
	for {
		e := n.index.Classify(a)
		switch e.Kind {
		case digitindex.Run:
			return true
		case digitindex.Missing:
			return false
		}
		switch c := n.content.(type) {
		case *leafWords:
			return c.words[e.Offset]&bitMask(a) != 0
		case *children:
			n = c.nodes[e.Offset]
		default:
			panic(fmt.Sprintf("node: unexpected content %T", c))
		}
	}
}

// AppendChild appends child as the content of digit 0. It exists for root
// growth only: n must be a non-leaf node with no content, and child must be
// one level lower. Violations panic.
func (n *Node) AppendChild(child *Node) {
	c, ok := n.content.(*children)
	if !ok {
		panic(fmt.Errorf("node: append to level %d: %w", n.Level(), ErrLeafAppend))
	}
	if child.Level() != n.Level()-1 {
		panic(fmt.Errorf("node: append level %d child to level %d: %w", child.Level(), n.Level(), ErrInvalidLevel))
	}
	c.nodes = append(c.nodes, child)
	n.index.MarkMaterializedDigit(0)
}

// Grow returns a node one level above root whose digit 0 covers exactly the
// range root covered. An empty root is dropped; a full root becomes a run.
func Grow(root *Node) *Node {
	parent := New(root.Level() + 1)
	switch {
	case root.IsEmpty():
	case root.IsFull():
		parent.index.MarkRunDigit(0)
	default:
		parent.AppendChild(root)
	}
	return parent
}

// Clone returns a deep copy of n sharing no memory with it.
func (n *Node) Clone() *Node {
	out := &Node{index: n.index}
	switch c := n.content.(type) {
	case *leafWords:
		out.content = &leafWords{words: slices.Clone(c.words)}
	case *children:
		nodes := make([]*Node, len(c.nodes))
		for i, child := range c.nodes {
			nodes[i] = child.Clone()
		}
		out.content = &children{nodes: nodes}
	default:
		panic(fmt.Sprintf("node: unexpected content %T", c))
	}
	return out
}

func (n *Node) String() string {
	return fmt.Sprintf("node(%s, entries=%d)", n.index, n.Len())
}
