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
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// CompWriter snappy-compresses everything written to it.
type CompWriter struct {
	f io.WriteCloser
	w *snappy.Writer
}

func (c *CompWriter) Write(p []byte) (n int, err error) {
	if _, err := c.w.Write(p); err != nil {
		return 0, errors.WithStack(err)
	}
	return len(p), nil
}

// Close flushes the snappy stream and closes the underlying writer.
func (c *CompWriter) Close() error {
	if err := c.w.Close(); err != nil {
		c.f.Close()
		return errors.WithStack(err)
	}
	return c.f.Close()
}

// NewCompWriter wraps f in a buffered snappy framing writer.
func NewCompWriter(f io.WriteCloser) *CompWriter {
	c := new(CompWriter)
	c.f = f
	c.w = snappy.NewBufferedWriter(f)
	return c
}

// CreateDump creates path for writing. Paths ending in ".sz" are snappy
// compressed.
func CreateDump(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create dump")
	}
	if strings.HasSuffix(path, ".sz") {
		return NewCompWriter(f), nil
	}
	return f, nil
}

// DumpVotes writes one "key,votes" CSV row per candidate key with at least one
// vote.
func DumpVotes(path string, votes []int) error {
	f, err := CreateDump(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"key", "votes"}); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	for k, n := range votes {
		if n == 0 {
			continue
		}
		row := []string{strconv.FormatUint(uint64(k), 16), strconv.Itoa(n)}
		if err := w.Write(row); err != nil {
			f.Close()
			return errors.WithStack(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	return f.Close()
}
