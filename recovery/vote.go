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
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/std"
)

// checkEvery is how many candidate keys a vote worker scores between
// context checks.
const checkEvery = 4096

// ExpectedDifferences lists the differences that can leave the last
// substitution layer when final enters it: every combination of DDT outputs
// on the active nibbles, zero elsewhere. The result is ascending.
func ExpectedDifferences(ddt *spn.DDT, final spn.Block) []spn.Block {
	set := []spn.Block{0}
	for i := 0; i < spn.NumNibbles; i++ {
		dx := final.Nibble(i)
		if dx == 0 {
			continue
		}
		var next []spn.Block
		for _, b := range set {
			for _, dy := range ddt.Outputs(dx) {
				next = append(next, b.WithNibble(i, dy))
			}
		}
		set = next
	}
	return set
}

// Partial is the outcome of the voting stage.
type Partial struct {
	Key       spn.Block      // best supported key, zero outside Recovered
	Votes     int            // votes behind Key
	Recovered spn.NibbleMask // nibbles of Key backed by the vote
	Table     []int          // votes per candidate key
	Pairs     int            // filtered pairs that voted
}

// Vote scores every candidate last round key against the filtered pairs. A
// pair votes for k when stripping k and inverting the substitution layer from
// both ciphertexts leaves a difference in expected. Candidates are scored in
// parallel; the highest count wins and ties go to the lowest key.
func Vote(ctx context.Context, sbox *spn.SBox, filtered []Pair, expected []spn.Block, mask spn.NibbleMask, workers int) (*Partial, error) {
	if len(filtered) == 0 {
		return nil, errors.WithStack(ErrNoMatchingPairs)
	}
	var want [spn.BlockSpace]bool
	for _, d := range expected {
		want[d] = true
	}

	table := make([]int, spn.BlockSpace)
	err := std.ParallelRange(ctx, spn.BlockSpace, workers, func(ctx context.Context, lo, hi int) error {
		for k := lo; k < hi; k++ {
			if (k-lo)%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			key := spn.Block(k)
			votes := 0
			for _, p := range filtered {
				v := sbox.InverseSubstituteBlock(p.C ^ key)
				vp := sbox.InverseSubstituteBlock(p.CPrime ^ key)
				if want[v^vp] {
					votes++
				}
			}
			table[k] = votes
		}
		atomic.AddUint64(&std.DefaultStats.KeysVoted, uint64(hi-lo))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "vote")
	}

	best := 0
	for k, n := range table {
		if n > table[best] {
			best = k
		}
	}
	return &Partial{
		Key:       mask.Select(spn.Block(best)),
		Votes:     table[best],
		Recovered: mask,
		Table:     table,
		Pairs:     len(filtered),
	}, nil
}
