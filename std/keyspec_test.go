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
	"testing"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
)

func TestParseBlock(t *testing.T) {
	for in, want := range map[string]spn.Block{
		"0x0020": 0x0020,
		"0X6656": 0x6656,
		"ffff":   0xFFFF,
		" 20 ":   0x0020,
		"0":      0,
	} {
		got, err := ParseBlock(in)
		if err != nil {
			t.Fatalf("ParseBlock(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseBlock(%q) = %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "0x", "10000", "12g4", "-1", "0x1_0"} {
		if _, err := ParseBlock(in); errors.Cause(err) != spn.ErrMalformedInput {
			t.Errorf("ParseBlock(%q): expected ErrMalformedInput, got %v", in, err)
		}
	}
}

func TestParseSchedule(t *testing.T) {
	ks, err := ParseSchedule("1111,2222,3333,4444,5555,6656")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	want := spn.Schedule{0x1111, 0x2222, 0x3333, 0x4444, 0x5555, 0x6656}
	if ks != want {
		t.Fatalf("ParseSchedule = %v, want %v", ks, want)
	}

	for _, in := range []string{
		"1111,2222,3333,4444,5555",
		"1111,2222,3333,4444,5555,6656,7777",
		"1111,2222,3333,4444,5555,zzzz",
	} {
		if _, err := ParseSchedule(in); errors.Cause(err) != spn.ErrMalformedInput {
			t.Errorf("ParseSchedule(%q): expected ErrMalformedInput, got %v", in, err)
		}
	}
}
