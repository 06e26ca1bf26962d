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

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/integral"
	"github.com/xtaci/spnattack/oracle"
	"github.com/xtaci/spnattack/std"
)

// outcome is one oracle's row of the experiment.
type outcome struct {
	Name   string
	Result *integral.Result
}

// experiment runs the integral distinguisher against every named oracle.
func experiment(names []string, key oracle.Block128, base oracle.Block128, byteIndex int) ([]outcome, error) {
	if len(names) == 0 {
		return nil, errors.New("no oracle selected")
	}
	out := make([]outcome, 0, len(names))
	for _, name := range names {
		o, effective := std.SelectOracleWithKey(name, key)
		res, err := integral.Distinguish(o, base, byteIndex)
		if err != nil {
			return nil, errors.Wrap(err, effective)
		}
		out = append(out, outcome{Name: effective, Result: res})
	}
	return out, nil
}

// printOutcomes writes one verdict line per oracle.
func printOutcomes(w io.Writer, outcomes []outcome) {
	for _, o := range outcomes {
		verdict := color.RedString("looks random")
		if o.Result.Balanced {
			verdict = color.GreenString("integral property holds")
		}
		fmt.Fprintf(w, "%-8s queries=%d sum=%v %s\n", o.Name, o.Result.Queries, o.Result.Sum, verdict)
	}
}
