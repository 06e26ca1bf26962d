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

// DDT is the difference distribution table of an S-box:
// counts[dx][dy] = |{x : S(x) xor S(x xor dx) = dy}|.
type DDT struct {
	counts [16][16]int
}

// BuildDDT tabulates every input difference against every output difference.
func BuildDDT(s *SBox) *DDT {
	d := new(DDT)
	for dx := uint8(0); dx < 16; dx++ {
		for x := uint8(0); x < 16; x++ {
			dy := s.Substitute(x) ^ s.Substitute(x^dx)
			d.counts[dx][dy]++
		}
	}
	return d
}

// Count returns how many inputs map difference dx to dy.
func (d *DDT) Count(dx, dy uint8) int { return d.counts[dx&0xF][dy&0xF] }

// Row returns a copy of the counts for input difference dx.
func (d *DDT) Row(dx uint8) [16]int { return d.counts[dx&0xF] }

// Probability returns Count(dx, dy)/16.
func (d *DDT) Probability(dx, dy uint8) float64 {
	return float64(d.Count(dx, dy)) / 16
}

// Outputs lists the output differences reachable from dx, ascending.
func (d *DDT) Outputs(dx uint8) []uint8 {
	var out []uint8
	for dy := uint8(0); dy < 16; dy++ {
		if d.Count(dx, dy) > 0 {
			out = append(out, dy)
		}
	}
	return out
}
