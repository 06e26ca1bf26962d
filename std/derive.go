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
	"crypto/sha1"
	"encoding/binary"

	"golang.org/x/crypto/pbkdf2"

	"github.com/xtaci/spnattack/spn"
)

const (
	// SALT is the PBKDF2 salt for every passphrase-derived key.
	SALT = "spnattack"
	// KDFIterations is the PBKDF2 iteration count.
	KDFIterations = 4096
)

// DeriveSchedule stretches a passphrase into a full round-key schedule.
func DeriveSchedule(pass string) spn.Schedule {
	raw := pbkdf2.Key([]byte(pass), []byte(SALT), KDFIterations, 2*spn.ScheduleLen, sha1.New)
	var ks spn.Schedule
	for i := range ks {
		ks[i] = spn.Block(binary.BigEndian.Uint16(raw[2*i:]))
	}
	return ks
}

// DeriveKey128 stretches a passphrase into an AES-128 key.
func DeriveKey128(pass string) [16]byte {
	var key [16]byte
	copy(key[:], pbkdf2.Key([]byte(pass), []byte(SALT), KDFIterations, len(key), sha1.New))
	return key
}
