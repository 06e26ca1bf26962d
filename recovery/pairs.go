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

package recovery

import (
	"math/rand"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/std"
)

// Oracle encrypts under a secret schedule. *spn.Keyed satisfies it.
type Oracle interface {
	Encrypt(p spn.Block) spn.Block
}

// Pair is a chosen-plaintext pair and its ciphertexts.
type Pair struct {
	M, MPrime spn.Block
	C, CPrime spn.Block
}

// Diff returns the ciphertext difference.
func (p Pair) Diff() spn.Block { return p.C ^ p.CPrime }

// GeneratePairs draws n distinct plaintexts from rnd and queries o on each
// plaintext and its partner under inputDiff.
func GeneratePairs(o Oracle, inputDiff spn.Block, n int, rnd *rand.Rand) ([]Pair, error) {
	if n < 1 || n > spn.BlockSpace {
		return nil, errors.Wrapf(spn.ErrMalformedInput, "pair count %d outside [1,%d]", n, spn.BlockSpace)
	}
	perm := rnd.Perm(spn.BlockSpace)[:n]
	ms := make([]spn.Block, n)
	for i, v := range perm {
		ms[i] = spn.Block(v)
	}
	return EncryptPairs(o, inputDiff, ms)
}

// EncryptPairs queries o on every plaintext in ms and its partner under
// inputDiff. Plaintexts must be distinct.
func EncryptPairs(o Oracle, inputDiff spn.Block, ms []spn.Block) ([]Pair, error) {
	if inputDiff == 0 {
		return nil, errors.Wrap(spn.ErrMalformedInput, "zero input difference")
	}
	seen := make(map[spn.Block]struct{}, len(ms))
	for _, m := range ms {
		if _, dup := seen[m]; dup {
			return nil, errors.Wrapf(spn.ErrMalformedInput, "plaintext %v repeated", m)
		}
		seen[m] = struct{}{}
	}
	pairs := make([]Pair, len(ms))
	for i, m := range ms {
		mp := m ^ inputDiff
		pairs[i] = Pair{M: m, MPrime: mp, C: o.Encrypt(m), CPrime: o.Encrypt(mp)}
	}
	atomic.AddUint64(&std.DefaultStats.OracleQueries, uint64(2*len(ms)))
	atomic.AddUint64(&std.DefaultStats.PairsGenerated, uint64(len(ms)))
	return pairs, nil
}

// Filter keeps the pairs whose ciphertext difference matches mask: zero on
// every inactive nibble, nonzero on every active one. Order is preserved.
func Filter(pairs []Pair, mask spn.NibbleMask) []Pair {
	var out []Pair
	for _, p := range pairs {
		if mask.Matches(p.Diff()) {
			out = append(out, p)
		}
	}
	atomic.AddUint64(&std.DefaultStats.PairsFiltered, uint64(len(out)))
	return out
}
