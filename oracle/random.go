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

package oracle

import (
	"crypto/rand"
	"io"
	"math/big"
	"sync"

	"github.com/pkg/errors"
)

// Random is a random permutation on 128-bit blocks, sampled lazily: the first
// query for a plaintext draws a fresh ciphertext that no other plaintext has
// been given, and later queries repeat it.
type Random struct {
	mu   sync.Mutex
	src  io.Reader
	fwd  map[Block128]Block128
	used map[Block128]struct{}
}

// NewRandom draws randomness from src, or crypto/rand when src is nil.
func NewRandom(src io.Reader) *Random {
	if src == nil {
		src = rand.Reader
	}
	return &Random{
		src:  src,
		fwd:  make(map[Block128]Block128),
		used: make(map[Block128]struct{}),
	}
}

// Encrypt returns the ciphertext assigned to pt.
func (r *Random) Encrypt(pt Block128) (Block128, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ct, ok := r.fwd[pt]; ok {
		return ct, nil
	}
	for {
		var ct Block128
		if _, err := io.ReadFull(r.src, ct[:]); err != nil {
			return ct, errors.Wrap(err, "random oracle")
		}
		if _, taken := r.used[ct]; taken {
			continue
		}
		r.fwd[pt] = ct
		r.used[ct] = struct{}{}
		return ct, nil
	}
}

// Encrypt128Int is Encrypt over 128-bit integers.
func (r *Random) Encrypt128Int(plaintext *big.Int) (*big.Int, error) {
	pt, err := FromInt(plaintext)
	if err != nil {
		return nil, err
	}
	ct, err := r.Encrypt(pt)
	if err != nil {
		return nil, err
	}
	return ct.Int(), nil
}

// Queried returns the number of distinct plaintexts seen so far.
func (r *Random) Queried() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fwd)
}
