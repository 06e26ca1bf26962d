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

// Package integral implements the XOR-sum distinguisher for three-round AES.
//
// Encrypting the 256 plaintexts that differ only in one byte under three AES
// rounds gives ciphertexts whose XOR is zero. A random permutation gives a
// zero sum with probability 2^-128.
package integral

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/templexxx/xorsimd"

	"github.com/xtaci/spnattack/oracle"
	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/std"
)

// SetSize is the number of plaintexts in one integral set.
const SetSize = 256

// PlaintextSet returns the SetSize variants of base whose byte byteIndex
// (0 is the most significant) takes every value once.
func PlaintextSet(base oracle.Block128, byteIndex int) ([]oracle.Block128, error) {
	if byteIndex < 0 || byteIndex >= len(base) {
		return nil, errors.Wrapf(spn.ErrMalformedInput, "byte index %d outside [0,%d)", byteIndex, len(base))
	}
	set := make([]oracle.Block128, SetSize)
	for i := range set {
		set[i] = base
		set[i][byteIndex] = byte(i)
	}
	return set, nil
}

// XORSum folds every block together.
func XORSum(blocks []oracle.Block128) oracle.Block128 {
	var sum oracle.Block128
	if len(blocks) == 0 {
		return sum
	}
	src := make([][]byte, len(blocks))
	for i := range blocks {
		src[i] = blocks[i][:]
	}
	xorsimd.Encode(sum[:], src)
	return sum
}

// Result is the outcome of one distinguishing experiment.
type Result struct {
	Sum      oracle.Block128
	Balanced bool // Sum is zero, the integral property held
	Queries  int
}

// Distinguish queries o on the integral set built from base and byteIndex.
func Distinguish(o oracle.Oracle, base oracle.Block128, byteIndex int) (*Result, error) {
	set, err := PlaintextSet(base, byteIndex)
	if err != nil {
		return nil, err
	}
	cts := make([]oracle.Block128, len(set))
	for i, pt := range set {
		if cts[i], err = o.Encrypt(pt); err != nil {
			return nil, errors.Wrapf(err, "query %d", i)
		}
	}
	atomic.AddUint64(&std.DefaultStats.OracleQueries, uint64(len(set)))
	sum := XORSum(cts)
	return &Result{Sum: sum, Balanced: sum.IsZero(), Queries: len(set)}, nil
}
