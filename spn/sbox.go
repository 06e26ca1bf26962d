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

// SBox is a bijection on nibbles. The table is checked once in NewSBox and is
// only reachable through Substitute and InverseSubstitute.
type SBox struct {
	fwd [16]uint8
	inv [16]uint8
}

// NewSBox validates table as a permutation of [0,16) and derives its inverse.
func NewSBox(table [16]uint8) (*SBox, error) {
	s := &SBox{fwd: table}
	var seen [16]bool
	for x, y := range table {
		if y > 0xF {
			return nil, errors.Wrapf(ErrMalformedInput, "sbox: entry %X out of range: %#x", x, y)
		}
		if seen[y] {
			return nil, errors.Wrapf(ErrMalformedInput, "sbox: output %X repeated", y)
		}
		seen[y] = true
		s.inv[y] = uint8(x)
	}
	return s, nil
}

// Substitute maps a nibble through the S-box.
func (s *SBox) Substitute(x uint8) uint8 { return s.fwd[x&0xF] }

// InverseSubstitute maps a nibble through the inverse S-box.
func (s *SBox) InverseSubstitute(y uint8) uint8 { return s.inv[y&0xF] }

// SubstituteBlock applies the S-box to every nibble of b.
func (s *SBox) SubstituteBlock(b Block) Block {
	n := Nibbles(b)
	for i := range n {
		n[i] = s.Substitute(n[i])
	}
	return FromNibbles(n)
}

// InverseSubstituteBlock applies the inverse S-box to every nibble of b.
func (s *SBox) InverseSubstituteBlock(b Block) Block {
	n := Nibbles(b)
	for i := range n {
		n[i] = s.InverseSubstitute(n[i])
	}
	return FromNibbles(n)
}
