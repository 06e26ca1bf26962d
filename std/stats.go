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

package std

import (
	"fmt"
	"sync/atomic"
)

// Stats counts the work done by the attack pipeline. Fields are updated
// atomically and can be read while an attack runs.
type Stats struct {
	OracleQueries    uint64 // encryption oracle calls
	PairsGenerated   uint64 // chosen-plaintext pairs drawn
	PairsFiltered    uint64 // pairs surviving the output mask
	KeysVoted        uint64 // last-round key candidates scored
	CandidatesTried  uint64 // full-key completions tested
	AttacksRun       uint64 // pipelines started
	AttacksRecovered uint64 // pipelines that validated a key
}

// DefaultStats is the process-wide counter block.
var DefaultStats = new(Stats)

// Header returns the column names matching ToSlice.
func (s *Stats) Header() []string {
	return []string{
		"OracleQueries",
		"PairsGenerated",
		"PairsFiltered",
		"KeysVoted",
		"CandidatesTried",
		"AttacksRun",
		"AttacksRecovered",
	}
}

// ToSlice renders a snapshot of the counters.
func (s *Stats) ToSlice() []string {
	snap := s.Copy()
	return []string{
		fmt.Sprint(snap.OracleQueries),
		fmt.Sprint(snap.PairsGenerated),
		fmt.Sprint(snap.PairsFiltered),
		fmt.Sprint(snap.KeysVoted),
		fmt.Sprint(snap.CandidatesTried),
		fmt.Sprint(snap.AttacksRun),
		fmt.Sprint(snap.AttacksRecovered),
	}
}

// Copy takes a consistent-per-field snapshot.
func (s *Stats) Copy() *Stats {
	d := new(Stats)
	d.OracleQueries = atomic.LoadUint64(&s.OracleQueries)
	d.PairsGenerated = atomic.LoadUint64(&s.PairsGenerated)
	d.PairsFiltered = atomic.LoadUint64(&s.PairsFiltered)
	d.KeysVoted = atomic.LoadUint64(&s.KeysVoted)
	d.CandidatesTried = atomic.LoadUint64(&s.CandidatesTried)
	d.AttacksRun = atomic.LoadUint64(&s.AttacksRun)
	d.AttacksRecovered = atomic.LoadUint64(&s.AttacksRecovered)
	return d
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.OracleQueries, 0)
	atomic.StoreUint64(&s.PairsGenerated, 0)
	atomic.StoreUint64(&s.PairsFiltered, 0)
	atomic.StoreUint64(&s.KeysVoted, 0)
	atomic.StoreUint64(&s.CandidatesTried, 0)
	atomic.StoreUint64(&s.AttacksRun, 0)
	atomic.StoreUint64(&s.AttacksRecovered, 0)
}
