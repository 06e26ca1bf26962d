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

package spn

import "github.com/pkg/errors"

// PBox is a bijection over the 16 bit positions of a block. Position 0 is the
// most significant bit.
type PBox struct {
	fwd [BlockBits]uint8
	inv [BlockBits]uint8
}

// NewPBox validates table as a permutation of the bit positions.
func NewPBox(table [BlockBits]uint8) (*PBox, error) {
	p := &PBox{fwd: table}
	var seen [BlockBits]bool
	for i, to := range table {
		if to >= BlockBits {
			return nil, errors.Wrapf(ErrMalformedInput, "pbox: position %d maps outside the block: %d", i, to)
		}
		if seen[to] {
			return nil, errors.Wrapf(ErrMalformedInput, "pbox: target %d repeated", to)
		}
		seen[to] = true
		p.inv[to] = uint8(i)
	}
	return p, nil
}

// Permute moves bit i of b to position table[i].
func (p *PBox) Permute(b Block) Block {
	return move(b, &p.fwd)
}

// InversePermute undoes Permute.
func (p *PBox) InversePermute(b Block) Block {
	return move(b, &p.inv)
}

func move(b Block, table *[BlockBits]uint8) Block {
	var r Block
	for i := 0; i < BlockBits; i++ {
		if b>>(BlockBits-1-i)&1 == 1 {
			r |= 1 << (BlockBits - 1 - int(table[i]))
		}
	}
	return r
}
