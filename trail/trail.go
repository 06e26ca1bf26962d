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

// Package trail searches for high-probability differential trails through
// the SPN by chaining the best single-nibble DDT transitions across rounds.
//
// Nibbles are treated as independent channels: the probability of a round is
// the product of its per-nibble transition probabilities, and the permutation
// layer is applied to the chosen output difference. This is a single-trail
// heuristic, not an enumeration of every characteristic.
package trail

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
)

// Transition is the preferred output difference for one input nibble
// difference, and its probability.
type Transition struct {
	Out         uint8
	Probability float64
}

// Trail is a sequence of round differences starting with the input
// difference, and the product of the transition probabilities chosen.
type Trail struct {
	Diffs       []spn.Block
	Probability float64
}

// Start returns the input difference.
func (t Trail) Start() spn.Block { return t.Diffs[0] }

// Final returns the difference predicted after the last simulated round.
func (t Trail) Final() spn.Block { return t.Diffs[len(t.Diffs)-1] }

// Rounds returns the number of simulated rounds.
func (t Trail) Rounds() int { return len(t.Diffs) - 1 }

// OutputMask marks the nibbles the final difference leaves active.
func (t Trail) OutputMask() spn.NibbleMask { return spn.MaskOf(t.Final()) }

func (t Trail) String() string {
	parts := make([]string, len(t.Diffs))
	for i, d := range t.Diffs {
		parts[i] = d.String()
	}
	return strings.Join(parts, " -> ")
}

// Searcher holds the precomputed best transitions for every nibble
// difference.
type Searcher struct {
	pbox *spn.PBox
	best [16]Transition
}

// NewSearcher precomputes best transitions from ddt. The permutation layer is
// the one applied between rounds.
func NewSearcher(ddt *spn.DDT, pbox *spn.PBox) *Searcher {
	s := &Searcher{pbox: pbox}
	s.best[0] = Transition{Out: 0, Probability: 1}
	for dx := uint8(1); dx < 16; dx++ {
		bestCount, bestOut := 0, uint8(0)
		// ascending scan, strictly larger wins: the first maximum is kept
		for dy := uint8(0); dy < 16; dy++ {
			if n := ddt.Count(dx, dy); n > bestCount {
				bestCount, bestOut = n, dy
			}
		}
		s.best[dx] = Transition{Out: bestOut, Probability: float64(bestCount) / 16}
	}
	return s
}

// BestTransition returns the most likely output difference for dx.
func (s *Searcher) BestTransition(dx uint8) (uint8, float64) {
	t := s.best[dx&0xF]
	return t.Out, t.Probability
}

// Simulate propagates start through rounds rounds of best transitions.
func (s *Searcher) Simulate(start spn.Block, rounds int) Trail {
	t := Trail{Diffs: make([]spn.Block, 0, rounds+1), Probability: 1}
	t.Diffs = append(t.Diffs, start)
	cur := start
	for r := 0; r < rounds; r++ {
		n := spn.Nibbles(cur)
		roundProb := 1.0
		for i := range n {
			out, p := s.BestTransition(n[i])
			n[i] = out
			roundProb *= p
		}
		t.Probability *= roundProb
		cur = s.pbox.Permute(spn.FromNibbles(n))
		t.Diffs = append(t.Diffs, cur)
	}
	return t
}

// Candidates enumerates the single-active-nibble start differences: nibble
// position 0..3 (most significant first), then value 1..15.
func Candidates() []spn.Block {
	out := make([]spn.Block, 0, spn.NumNibbles*15)
	for pos := 0; pos < spn.NumNibbles; pos++ {
		for v := uint8(1); v < 16; v++ {
			out = append(out, spn.Block(0).WithNibble(pos, v))
		}
	}
	return out
}

// Search simulates every candidate start difference and ranks the trails by
// probability, highest first. Equal probabilities keep enumeration order.
func (s *Searcher) Search(rounds int) ([]Trail, error) {
	if rounds < 1 {
		return nil, errors.Wrapf(spn.ErrMalformedInput, "trail search needs at least one round, got %d", rounds)
	}
	starts := Candidates()
	ranked := make([]Trail, len(starts))
	for i, d := range starts {
		ranked[i] = s.Simulate(d, rounds)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	return ranked, nil
}
