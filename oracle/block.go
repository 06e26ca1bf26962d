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

// Package oracle provides the 128-bit encryption oracles used by the integral
// distinguisher: AES-128 truncated to a chosen number of rounds, and a lazily
// sampled random permutation.
package oracle

import (
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
)

// Block128 is a 128-bit block, byte 0 being the most significant.
type Block128 [16]byte

// Oracle encrypts 128-bit blocks under a fixed secret.
type Oracle interface {
	Encrypt(pt Block128) (Block128, error)
}

// ParseHex decodes exactly 32 hexadecimal digits.
func ParseHex(s string) (Block128, error) {
	var b Block128
	if len(s) != 2*len(b) {
		return b, errors.Wrapf(spn.ErrMalformedInput, "want %d hex digits, got %d", 2*len(b), len(s))
	}
	if _, err := hex.Decode(b[:], []byte(s)); err != nil {
		return b, errors.Wrap(spn.ErrMalformedInput, err.Error())
	}
	return b, nil
}

// FromInt converts a non-negative integer below 2^128.
func FromInt(v *big.Int) (Block128, error) {
	var b Block128
	if v == nil || v.Sign() < 0 || v.BitLen() > 128 {
		return b, errors.Wrapf(spn.ErrMalformedInput, "%v is not a 128-bit value", v)
	}
	v.FillBytes(b[:])
	return b, nil
}

// Int returns b as an integer.
func (b Block128) Int() *big.Int { return new(big.Int).SetBytes(b[:]) }

// IsZero reports whether every byte is zero.
func (b Block128) IsZero() bool { return b == Block128{} }

func (b Block128) String() string { return hex.EncodeToString(b[:]) }
