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
	"math"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/std"
)

// KnownKeys are the round keys that precede the recovery target.
type KnownKeys [spn.ScheduleLen - 1]spn.Block

// With completes the schedule with last.
func (k KnownKeys) With(last spn.Block) spn.Schedule {
	var ks spn.Schedule
	copy(ks[:], k[:])
	ks[spn.ScheduleLen-1] = last
	return ks
}

// Completion is the outcome of the brute-force stage.
type Completion struct {
	Key        spn.Block
	Index      int // position of Key in the enumeration
	Candidates int // size of the enumeration
}

// candidate fills the free nibbles of fixed from idx, most significant nibble
// first.
func candidate(fixed spn.Block, free []int, idx int) spn.Block {
	k := fixed
	for j := len(free) - 1; j >= 0; j-- {
		k = k.WithNibble(free[j], uint8(idx&0xF))
		idx >>= 4
	}
	return k
}

// Complete enumerates every value of the nibbles partial did not recover and
// returns the first full last round key, in enumeration order, that makes
// known re-encrypt every held-out pair to its recorded ciphertexts.
func Complete(ctx context.Context, cipher *spn.Cipher, known KnownKeys, partial *Partial, holdout []Pair, workers int) (*Completion, error) {
	if len(holdout) == 0 {
		return nil, errors.Wrap(ErrNoMatchingPairs, "no held-out pairs")
	}
	free := partial.Recovered.Inactive()
	n := 1 << (4 * uint(len(free)))
	fixed := partial.Recovered.Select(partial.Key)

	var tried uint64
	found := int64(math.MaxInt64)
	err := std.ParallelRange(ctx, n, workers, func(ctx context.Context, lo, hi int) error {
		for idx := lo; idx < hi; idx++ {
			if int64(idx) >= atomic.LoadInt64(&found) {
				return nil
			}
			if (idx-lo)%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			atomic.AddUint64(&tried, 1)
			ks := known.With(candidate(fixed, free, idx))
			if validates(cipher, ks, holdout) {
				for {
					cur := atomic.LoadInt64(&found)
					if int64(idx) >= cur || atomic.CompareAndSwapInt64(&found, cur, int64(idx)) {
						return nil
					}
				}
			}
		}
		return nil
	})
	atomic.AddUint64(&std.DefaultStats.CandidatesTried, atomic.LoadUint64(&tried))
	if err != nil {
		return nil, errors.Wrap(err, "complete")
	}
	idx := atomic.LoadInt64(&found)
	if idx == math.MaxInt64 {
		return nil, &NotRecoveredError{FilteredPairs: partial.Pairs, BestVotes: partial.Votes, Candidates: n}
	}
	return &Completion{Key: candidate(fixed, free, int(idx)), Index: int(idx), Candidates: n}, nil
}

func validates(cipher *spn.Cipher, ks spn.Schedule, holdout []Pair) bool {
	for _, p := range holdout {
		if cipher.Encrypt(p.M, ks) != p.C || cipher.Encrypt(p.MPrime, ks) != p.CPrime {
			return false
		}
	}
	return true
}
