// Package addr decomposes 64-bit bit numbers into per-level radix digits.
//
// Level 0 uses a 6-bit digit (the bit position inside a 64-bit leaf word);
// every level above uses an 8-bit digit (a slot in a 256-way node):
//
//	level:   8    7    6    5    4    3    2    1    0
//	shift:  62   54   46   38   30   22   14    6    0
//	width:   2*   8    8    8    8    8    8    8    6
//
// (*) the top level keeps an 8-bit mask but only two bits are reachable,
// which is enough for the top level to span the full 64-bit domain.
//
// Level 1 is the lowest node level: its content is a sequence of leaf words
// selected by the level-1 digit, and the level-0 digit picks the bit inside
// the word.
package addr
