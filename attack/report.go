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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/xtaci/spnattack/recovery"
	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/trail"
)

// printDDT renders the table with dx down the side and dy across the top.
func printDDT(w io.Writer, ddt *spn.DDT) {
	var sb strings.Builder
	sb.WriteString("dx\\dy")
	for dy := 0; dy < 16; dy++ {
		fmt.Fprintf(&sb, "%3X", dy)
	}
	fmt.Fprintln(w, sb.String())
	for dx := uint8(0); dx < 16; dx++ {
		sb.Reset()
		fmt.Fprintf(&sb, "%5X", dx)
		for _, n := range ddt.Row(dx) {
			fmt.Fprintf(&sb, "%3d", n)
		}
		fmt.Fprintln(w, sb.String())
	}
}

// printTrails lists at most top trails with their rank.
func printTrails(w io.Writer, trails []trail.Trail, top int) {
	if top <= 0 || top > len(trails) {
		top = len(trails)
	}
	for i, t := range trails[:top] {
		fmt.Fprintf(w, "%2d. start %v  p=%.6f  %v\n", i+1, t.Start(), t.Probability, t)
	}
}

// printRecovery summarises every stage of a successful run.
func printRecovery(w io.Writer, res *recovery.Result, quiet bool) {
	fmt.Fprintf(w, "pairs generated: %d\n", res.Generated)
	fmt.Fprintf(w, "pairs filtered:  %d\n", len(res.Filtered))
	if !quiet {
		for _, p := range res.Filtered {
			fmt.Fprintf(w, "  m=%v m'=%v c=%v c'=%v diff=%v\n", p.M, p.MPrime, p.C, p.CPrime, p.Diff())
		}
	}
	fmt.Fprintf(w, "expected differences: %v\n", res.Expected)
	fmt.Fprintf(w, "partial key: %v (nibbles %v, %d votes)\n", res.Partial.Key, res.Partial.Recovered, res.Partial.Votes)
	fmt.Fprintf(w, "completion: candidate %d of %d\n", res.Completion.Index+1, res.Completion.Candidates)
	fmt.Fprintf(w, "last round key: %v\n", res.Key)
}
