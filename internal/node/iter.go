package node

import (
	"fmt"
	"iter"
	"math/bits"

	"github.com/hupe1980/sparsebits/internal/addr"
	"github.com/hupe1980/sparsebits/internal/digitindex"
)

type innerKind uint8

const (
	innerNone innerKind = iota
	innerRun
	innerWord
)

// frame is the iteration state of one node: the outer cursor over its digit
// index plus the inner cursor over the current digit. A materialized child
// digit has no inner state in its frame; the child's own frame is pushed
// above it instead.
type frame struct {
	node    *Node
	entries digitindex.Iterator
	prefix  addr.Address

	inner innerKind
	next  uint64 // run: next bit number to emit
	last  uint64 // run: last bit number, inclusive
	word  uint64 // leaf word: bits not yet emitted
	base  uint64 // leaf word: bit number of bit 0
}

// Iterator yields the set bit numbers under a node in ascending order,
// expanding runs without materializing them.
//
// An Iterator is single-pass and is invalidated by any mutation of the tree
// it walks.
type Iterator struct {
	stack [addr.MaxLevel]frame
	depth int
}

// Iter returns an iterator over every bit set under n.
func (n *Node) Iter() *Iterator {
	it := &Iterator{}
	it.push(n, addr.Address{})
	return it
}

// All yields every bit set under n in ascending order.
func (n *Node) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := n.Iter()
		for {
			b, ok := it.Next()
			if !ok || !yield(b) {
				return
			}
		}
	}
}

func (it *Iterator) push(n *Node, prefix addr.Address) {
	it.stack[it.depth] = frame{
		node:    n,
		entries: n.index.Iter(),
		prefix:  prefix,
	}
	it.depth++
}

// Next returns the next set bit number.
func (it *Iterator) Next() (uint64, bool) {
	for it.depth > 0 {
		f := &it.stack[it.depth-1]

		switch f.inner {
		case innerRun:
			b := f.next
			if b == f.last {
				f.inner = innerNone
			} else {
				f.next++
			}
			return b, true
		case innerWord:
			if f.word != 0 {
				b := f.base + uint64(bits.TrailingZeros64(f.word))
				f.word &= f.word - 1
				return b, true
			}
			f.inner = innerNone
		}

		it.advance()
	}
	return 0, false
}

// NextRange returns the next span [lo, hi] of consecutive set bits. A span
// never crosses a leaf word or run boundary, so adjacent spans may touch.
// NextRange and Next may be mixed; both consume from the same cursor.
func (it *Iterator) NextRange() (lo, hi uint64, ok bool) {
	for it.depth > 0 {
		f := &it.stack[it.depth-1]

		switch f.inner {
		case innerRun:
			f.inner = innerNone
			return f.next, f.last, true
		case innerWord:
			if f.word != 0 {
				start := bits.TrailingZeros64(f.word)
				n := bits.TrailingZeros64(^(f.word >> start))
				lo = f.base + uint64(start)
				hi = lo + uint64(n) - 1
				if start+n == 64 {
					f.word = 0
				} else {
					f.word &^= (uint64(1)<<n - 1) << start
				}
				return lo, hi, true
			}
			f.inner = innerNone
		}

		it.advance()
	}
	return 0, 0, false
}

// advance moves the top frame to its next digit, popping the frame when its
// digits are exhausted.
func (it *Iterator) advance() {
	f := &it.stack[it.depth-1]
	e, ok := f.entries.Next()
	if !ok {
		*f = frame{}
		it.depth--
		return
	}

	level := f.node.Level()
	prefix := f.prefix
	prefix.SetDigit(level, e.Digit)

	if e.Kind == digitindex.Run {
		f.inner = innerRun
		f.next = prefix.MinBitNumber(level)
		f.last = prefix.MaxBitNumber(level)
		return
	}

	switch c := f.node.content.(type) {
	case *leafWords:
		f.inner = innerWord
		f.word = c.words[e.Offset]
		f.base = prefix.MinBitNumber(level)
	case *children:
		it.push(c.nodes[e.Offset], prefix)
	default:
		panic(fmt.Sprintf("node: unexpected content %T", c))
	}
}

// Ranges yields the spans of n as NextRange does.
func (n *Node) Ranges() iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		it := n.Iter()
		for {
			lo, hi, ok := it.NextRange()
			if !ok || !yield(lo, hi) {
				return
			}
		}
	}
}
