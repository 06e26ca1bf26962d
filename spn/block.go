// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package spn implements a 16-bit substitution-permutation network with a
// 4-bit S-box, its bit permutation layer and the difference distribution table
// of the S-box.
package spn

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedInput is reported for blocks outside [0,65536) and key schedules
// that do not hold exactly ScheduleLen keys.
var ErrMalformedInput = errors.New("malformed input")

const (
	// NumNibbles is the number of 4-bit nibbles in a block.
	NumNibbles = 4
	// BlockBits is the width of a block in bits.
	BlockBits = 16
	// BlockSpace is the number of distinct blocks.
	BlockSpace = 1 << BlockBits
)

// Block is a 16-bit cipher state, read MSB-first as 4 nibbles.
type Block uint16

func (b Block) String() string { return fmt.Sprintf("%04X", uint16(b)) }

// Nibble returns nibble i, 0 being the most significant.
func (b Block) Nibble(i int) uint8 {
	return uint8(b>>(4*(NumNibbles-1-i))) & 0xF
}

// Nibbles splits b into its nibbles, most significant first.
func Nibbles(b Block) [NumNibbles]uint8 {
	var n [NumNibbles]uint8
	for i := range n {
		n[i] = b.Nibble(i)
	}
	return n
}

// FromNibbles reassembles a block from MSB-first nibbles.
func FromNibbles(n [NumNibbles]uint8) Block {
	var b Block
	for _, v := range n {
		b = b<<4 | Block(v&0xF)
	}
	return b
}

// WithNibble returns b with nibble i replaced by v.
func (b Block) WithNibble(i int, v uint8) Block {
	shift := 4 * (NumNibbles - 1 - i)
	return b&^(0xF<<shift) | Block(v&0xF)<<shift
}

// ParseBlock converts an integer into a Block, rejecting values that do not
// fit in 16 bits.
func ParseBlock(v int) (Block, error) {
	if v < 0 || v >= BlockSpace {
		return 0, errors.Wrapf(ErrMalformedInput, "block %d outside [0,%d)", v, BlockSpace)
	}
	return Block(v), nil
}

// NibbleMask marks nibble positions, most significant first.
type NibbleMask [NumNibbles]bool

// MaskOf marks the nonzero nibbles of a difference.
func MaskOf(diff Block) NibbleMask {
	var m NibbleMask
	for i := range m {
		m[i] = diff.Nibble(i) != 0
	}
	return m
}

// Active lists the marked positions in ascending order.
func (m NibbleMask) Active() []int {
	var pos []int
	for i, on := range m {
		if on {
			pos = append(pos, i)
		}
	}
	return pos
}

// Inactive lists the unmarked positions in ascending order.
func (m NibbleMask) Inactive() []int {
	var pos []int
	for i, on := range m {
		if !on {
			pos = append(pos, i)
		}
	}
	return pos
}

// Matches reports whether diff is zero on every unmarked nibble and nonzero on
// every marked one.
func (m NibbleMask) Matches(diff Block) bool {
	for i, on := range m {
		if (diff.Nibble(i) != 0) != on {
			return false
		}
	}
	return true
}

// Select keeps the marked nibbles of b and clears the rest.
func (m NibbleMask) Select(b Block) Block {
	var out Block
	for _, i := range m.Active() {
		out = out.WithNibble(i, b.Nibble(i))
	}
	return out
}

func (m NibbleMask) String() string {
	s := make([]byte, NumNibbles)
	for i, on := range m {
		s[i] = '0'
		if on {
			s[i] = '*'
		}
	}
	return string(s)
}
