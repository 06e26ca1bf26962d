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
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoMatchingPairs means no generated pair survived the output mask.
	ErrNoMatchingPairs = errors.New("no pair matches the trail output mask")
	// ErrKeyNotRecovered means no completion of the partial key validated.
	ErrKeyNotRecovered = errors.New("last round key not recovered")
)

// NotRecoveredError carries the diagnostics of a failed completion.
type NotRecoveredError struct {
	FilteredPairs int // pairs that survived filtering
	BestVotes     int // votes behind the partial key that was completed
	Candidates    int // completions tried
}

func (e *NotRecoveredError) Error() string {
	return fmt.Sprintf("%v: %d filtered pairs, best partial key had %d votes, %d candidates tried",
		ErrKeyNotRecovered, e.FilteredPairs, e.BestVotes, e.Candidates)
}

// Cause makes errors.Cause resolve to ErrKeyNotRecovered.
func (e *NotRecoveredError) Cause() error { return ErrKeyNotRecovered }
