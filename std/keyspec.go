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
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
)

var hexWordMatcher = regexp.MustCompile(`^(?:0[xX])?([0-9a-fA-F]+)$`)

// ParseBlock parses a hexadecimal block such as "0x0020" or "6656".
func ParseBlock(s string) (spn.Block, error) {
	matches := hexWordMatcher.FindStringSubmatch(strings.TrimSpace(s))
	if len(matches) != 2 {
		return 0, errors.Wrapf(spn.ErrMalformedInput, "malformed block:%v", s)
	}
	v, err := strconv.ParseUint(matches[1], 16, 32)
	if err != nil {
		return 0, errors.Wrapf(spn.ErrMalformedInput, "malformed block:%v", s)
	}
	return spn.ParseBlock(int(v))
}

// ParseSchedule parses a comma separated list of hexadecimal round keys,
// e.g. "1111,2222,3333,4444,5555,6656".
func ParseSchedule(s string) (spn.Schedule, error) {
	parts := strings.Split(s, ",")
	keys := make([]int, len(parts))
	for i, p := range parts {
		b, err := ParseBlock(p)
		if err != nil {
			return spn.Schedule{}, errors.Wrapf(err, "round key %d", i)
		}
		keys[i] = int(b)
	}
	return spn.NewSchedule(keys)
}
